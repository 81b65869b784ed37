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

package parser_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/crunch-lang/crunchc/ast"
	"github.com/crunch-lang/crunchc/internal/golden"
	"github.com/crunch-lang/crunchc/internal/testlex"
	"github.com/crunch-lang/crunchc/parser"
	"github.com/crunch-lang/crunchc/report"
)

// declSummary is a YAML-friendly projection of one top-level declaration.
// It exists only for this corpus's golden dumps; the compiler itself
// never serializes a Decl this way.
type declSummary struct {
	Kind    string   `yaml:"kind"`
	Name    string   `yaml:"name,omitempty"`
	Args    []string `yaml:"args,omitempty"`
	Returns string   `yaml:"returns,omitempty"`
	Members []string `yaml:"members,omitempty"`
}

func summarize(ctx *ast.Context) []declSummary {
	var out []declSummary
	for _, d := range ctx.Decls() {
		switch d.Kind {
		case ast.DeclFunction:
			fn := ctx.Function(d.Function)
			s := declSummary{Kind: "function", Name: ctx.Value(fn.Name)}
			for _, a := range fn.Args {
				argTy := ctx.Type(a.Value.Type.Value)
				s.Args = append(s.Args, ctx.Value(a.Value.Name.Value)+" : "+ctx.Value(argTy.Name))
			}
			s.Returns = ctx.Value(ctx.Type(fn.Returns.Value).Name)
			out = append(out, s)

		case ast.DeclType:
			td := ctx.TypeDecl(d.TypeDecl)
			s := declSummary{Kind: "type", Name: ctx.Value(td.Name)}
			for _, m := range td.Members {
				s.Members = append(s.Members, ctx.Value(m.Value.Name))
			}
			out = append(out, s)

		case ast.DeclEnum:
			e := ctx.Enum(d.Enum)
			s := declSummary{Kind: "enum", Name: ctx.Value(e.Name)}
			for _, v := range e.Variants {
				s.Members = append(s.Members, ctx.Value(v.Value.Name))
			}
			out = append(out, s)

		case ast.DeclImport:
			imp := ctx.Import(d.Import)
			out = append(out, declSummary{Kind: "import", Name: ctx.Value(imp.File.Value)})
		}
	}
	return out
}

// compareDeclSummaryYAML unmarshals both sides back into []declSummary
// before diffing, rather than comparing bytes: it's the shape of the
// parse that's under test here, not gopkg.in/yaml.v3's exact
// indentation choices.
func compareDeclSummaryYAML(got, want string) string {
	var gotDecls, wantDecls []declSummary
	if err := yaml.Unmarshal([]byte(got), &gotDecls); err != nil {
		return fmt.Sprintf("unmarshaling got: %v", err)
	}
	if err := yaml.Unmarshal([]byte(want), &wantDecls); err != nil {
		return fmt.Sprintf("unmarshaling want: %v", err)
	}
	return cmp.Diff(wantDecls, gotDecls)
}

// TestParse_GoldenCorpus parses every testdata/*.crunch fixture and
// compares a YAML dump of its top-level declarations against the
// matching testdata/*.crunch.yaml golden file.
func TestParse_GoldenCorpus(t *testing.T) {
	corpus := golden.Corpus{
		Root:       "testdata",
		Extensions: []string{"crunch"},
		Outputs: []golden.Output{
			{Extension: "yaml", Compare: compareDeclSummaryYAML},
		},
	}

	corpus.Run(t, func(t *testing.T, path, text string, outputs []string) {
		ctx, file, _ := newCtx(text)
		toks := testlex.Lex(file, text)
		rep := &report.Report{}
		p := parser.New(ctx, toks, rep)
		require.True(t, p.Parse(), "%v", rep.Diagnostics())

		out, err := yaml.Marshal(summarize(ctx))
		require.NoError(t, err)
		outputs[0] = string(out)
	})
}
