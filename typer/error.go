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

package typer

import (
	"fmt"

	"github.com/crunch-lang/crunchc/hir"
	"github.com/crunch-lang/crunchc/report"
)

const (
	tagVarNotInScope = "var-not-in-scope"
	tagFailedInfer   = "failed-infer"
	tagTypeConflict  = "type-conflict"
)

// spanner adapts a bare [report.Span] to [report.Spanner], mirroring the
// resolver's identically-named helper.
type spanner struct{ s report.Span }

func (s spanner) Span() report.Span { return s.s }

func (e *Engine) varNotInScope(v hir.Var) {
	e.report.Error(
		report.Tag(tagVarNotInScope),
		report.Message("variable not in scope: %s", v.String(e.interner)),
	)
}

func (e *Engine) failedInfer(id TypeId, loc report.Span) {
	e.report.Error(
		report.Tag(tagFailedInfer),
		report.Message("could not infer a type for %s", e.nameOf(id)),
		report.Snippet(spanner{loc}),
	)
}

func (e *Engine) typeConflict(a, b TypeId, ea, eb typeEntry) {
	aName, bName := e.nameOf(a), e.nameOf(b)
	message := fmt.Sprintf("'%s' is of type %s while '%s' is of type %s",
		aName, kindName(ea.info.kind), bName, kindName(eb.info.kind))

	e.report.Error(
		report.Tag(tagTypeConflict),
		report.Message("%s", message),
		report.Snippet(spanner{ea.loc}, "this side"),
		report.Snippet(spanner{eb.loc}, "conflicts with this side"),
	)
}

func kindName(k infoKind) string {
	switch k {
	case infoInteger:
		return "Integer"
	case infoString:
		return "String"
	case infoBool:
		return "Bool"
	case infoUnit:
		return "Unit"
	case infoInfer:
		return "_"
	default:
		return "Ref"
	}
}
