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

import "fmt"

// Level is the severity of a [Diagnostic].
type Level int8

const (
	// Error indicates a syntax, resolution, or type error: the pass that
	// produced it did not succeed.
	Error Level = 1 + iota
	// Warning indicates something that probably should not be ignored, but
	// does not itself cause the owning pass to fail.
	Warning
	// Remark is an informational diagnostic; never affects pass success.
	Remark
)

// String implements [fmt.Stringer].
func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Remark:
		return "remark"
	default:
		return fmt.Sprintf("report.Level(%d)", int8(l))
	}
}

// Diagnostic is a single structured compiler message.
//
// Build one with a function like [Report.Error], then apply
// [DiagnosticOption]s to it (at minimum [Message] and a [Snippet] or
// [InFile]).
type Diagnostic struct {
	tag, message string
	level        Level

	inFile   string
	snippets []Snippet_
	notes    []string
	help     []string
	debug    []string
}

// DiagnosticOption configures a [Diagnostic] when passed to
// [Diagnostic.Apply].
//
// A nil option is ignored, so option constructors that can fail to apply
// (like [Snippet] given a nil span) may simply return nil.
type DiagnosticOption interface {
	apply(*Diagnostic)
}

// Level returns this diagnostic's severity.
func (d *Diagnostic) Level() Level { return d.level }

// Tag returns this diagnostic's machine-readable tag, if any.
func (d *Diagnostic) Tag() string { return d.tag }

// Message returns this diagnostic's human-readable summary.
func (d *Diagnostic) Message() string { return d.message }

// Notes, Help, and Debug return this diagnostic's secondary message lists.
func (d *Diagnostic) Notes() []string { return d.notes }
func (d *Diagnostic) Help() []string  { return d.help }
func (d *Diagnostic) Debug() []string { return d.debug }

// Snippets returns this diagnostic's annotated source spans, in the order
// they were attached. The first is the primary snippet.
func (d *Diagnostic) Snippets() []Snippet_ { return d.snippets }

// Primary returns this diagnostic's primary span, or the nil Span if it
// has none.
func (d *Diagnostic) Primary() Span {
	for _, s := range d.snippets {
		if s.primary {
			return s.Span
		}
	}
	return Span{}
}

// Apply applies options to d in order, skipping nil options, and returns d.
func (d *Diagnostic) Apply(opts ...DiagnosticOption) *Diagnostic {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(d)
		}
	}
	return d
}

// Tag returns a [DiagnosticOption] setting a diagnostic's machine-readable
// tag, e.g. "name-not-found".
func Tag(t string) DiagnosticOption { return tagOpt(t) }

type tagOpt string

func (t tagOpt) apply(d *Diagnostic) { d.tag = string(t) }

// Message returns a [DiagnosticOption] setting the diagnostic's summary.
func Message(format string, args ...any) DiagnosticOption {
	return messageOpt(fmt.Sprintf(format, args...))
}

type messageOpt string

func (m messageOpt) apply(d *Diagnostic) { d.message = string(m) }

// InFile returns a [DiagnosticOption] attributing a diagnostic without any
// snippet to the named file, e.g. for whole-file errors.
func InFile(path string) DiagnosticOption { return inFileOpt(path) }

type inFileOpt string

func (f inFileOpt) apply(d *Diagnostic) { d.inFile = string(f) }

// InFile returns the file a diagnostic without a primary span is
// attributed to.
func (d *Diagnostic) InFile() string { return d.inFile }

// Snippet_ is a single annotated source span attached to a [Diagnostic].
//
// Named with a trailing underscore to avoid colliding with the
// [Snippet] option constructor.
type Snippet_ struct {
	Span
	message string
	primary bool
}

// Message returns the note shown alongside this snippet, if any.
func (s Snippet_) Message() string { return s.message }

// Snippet returns a [DiagnosticOption] adding an annotated span to a
// diagnostic. The first snippet applied to a diagnostic becomes primary.
//
// If at is the nil Span, returns nil so callers can write
//
//	d.Apply(report.Snippet(maybeNilSpan))
//
// without a branch.
func Snippet(at Spanner, args ...any) DiagnosticOption {
	if at == nil {
		return nil
	}
	span := at.Span()
	if span.Nil() {
		return nil
	}

	s := Snippet_{Span: span}
	if len(args) > 0 {
		format, ok := args[0].(string)
		if !ok {
			panic("report: expected string as first Snippet argument")
		}
		s.message = fmt.Sprintf(format, args[1:]...)
	}
	return snippetOpt(s)
}

type snippetOpt Snippet_

func (s snippetOpt) apply(d *Diagnostic) {
	s.primary = len(d.snippets) == 0
	d.snippets = append(d.snippets, Snippet_(s))
}

// Note returns a [DiagnosticOption] adding context shown after the
// annotated snippets.
func Note(format string, args ...any) DiagnosticOption {
	return noteOpt(fmt.Sprintf(format, args...))
}

type noteOpt string

func (n noteOpt) apply(d *Diagnostic) { d.notes = append(d.notes, string(n)) }

// Help returns a [DiagnosticOption] adding a suggested fix.
func Help(format string, args ...any) DiagnosticOption {
	return helpOpt(fmt.Sprintf(format, args...))
}

type helpOpt string

func (h helpOpt) apply(d *Diagnostic) { d.help = append(d.help, string(h)) }

// Debug returns a [DiagnosticOption] adding a message intended for compiler
// developers rather than end users.
func Debug(format string, args ...any) DiagnosticOption {
	return debugOpt(fmt.Sprintf(format, args...))
}

type debugOpt string

func (dd debugOpt) apply(d *Diagnostic) { d.debug = append(d.debug, string(dd)) }
