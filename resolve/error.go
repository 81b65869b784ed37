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

package resolve

import (
	"github.com/crunch-lang/crunchc/internal/intern"
	"github.com/crunch-lang/crunchc/report"
)

const (
	tagNameNotFound  = "name-not-found"
	tagDuplicateName = "duplicate-name"
	tagCycleInAlias  = "cycle-in-alias"
)

// spanner adapts a bare [report.Span] to [report.Spanner], mirroring the
// parser package's identically-named helper.
type spanner struct{ s report.Span }

func (s spanner) Span() report.Span { return s.s }

func (r *Resolver) nameNotFound(at report.Span, name intern.ID) {
	r.report.Error(
		report.Tag(tagNameNotFound),
		report.Message("name not found: %s", r.interner.Value(name)),
		report.Snippet(spanner{at}),
	)
}

func (r *Resolver) duplicateName(at report.Span, name intern.ID) {
	r.report.Error(
		report.Tag(tagDuplicateName),
		report.Message("duplicate name in this scope: %s", r.interner.Value(name)),
		report.Snippet(spanner{at}),
	)
}

func (r *Resolver) cycleInAlias(at report.Span, name intern.ID) {
	r.report.Error(
		report.Tag(tagCycleInAlias),
		report.Message("alias cycles back to itself: %s", r.interner.Value(name)),
		report.Snippet(spanner{at}),
	)
}
