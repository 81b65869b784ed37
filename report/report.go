// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

// Report accumulates the [Diagnostic]s produced by a single compiler pass.
//
// The core is single-threaded (every pass runs to completion before the
// next starts), so unlike a handler meant for concurrent use, Report needs
// no internal locking: it is owned exclusively by the pass that constructs
// it until that pass returns.
//
// The zero Report is empty and ready to use.
type Report struct {
	diagnostics []*Diagnostic
	errors      int
}

// Error appends an error-level diagnostic built from opts and returns it,
// so a caller can keep applying options:
//
//	r.Error(report.Message("bad thing")).Apply(report.Snippet(span))
func (r *Report) Error(opts ...DiagnosticOption) *Diagnostic {
	return r.add(Error, opts)
}

// Warning appends a warning-level diagnostic built from opts and returns it.
func (r *Report) Warning(opts ...DiagnosticOption) *Diagnostic {
	return r.add(Warning, opts)
}

// Remark appends a remark-level diagnostic built from opts and returns it.
func (r *Report) Remark(opts ...DiagnosticOption) *Diagnostic {
	return r.add(Remark, opts)
}

func (r *Report) add(level Level, opts []DiagnosticOption) *Diagnostic {
	d := &Diagnostic{level: level}
	d.Apply(opts...)
	r.diagnostics = append(r.diagnostics, d)
	if level == Error {
		r.errors++
	}
	return d
}

// Diagnostics returns every diagnostic appended to r, in the order they
// were discovered.
func (r *Report) Diagnostics() []*Diagnostic {
	return r.diagnostics
}

// Len returns the total number of diagnostics in r, of any level.
func (r *Report) Len() int {
	return len(r.diagnostics)
}

// Errors reports the number of error-level diagnostics in r.
func (r *Report) Errors() int {
	return r.errors
}

// Ok reports whether the owning pass succeeded: no error-level diagnostic
// was ever appended. Warnings and remarks never affect this.
func (r *Report) Ok() bool {
	return r.errors == 0
}

// Merge appends every diagnostic in other to r, preserving order.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.diagnostics = append(r.diagnostics, other.diagnostics...)
	r.errors += other.errors
}
