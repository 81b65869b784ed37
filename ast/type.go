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

package ast

import (
	"github.com/crunch-lang/crunchc/internal/arena"
	"github.com/crunch-lang/crunchc/internal/intern"
)

// Type is a type reference as written in source: a name plus zero or more
// generic arguments, or the inferred placeholder `_`.
//
// Resolving a Type's Name to a concrete type handle is the resolver's job
// (package resolve); the AST only records what the programmer wrote.
type Type struct {
	Infer    bool // true for the `_` placeholder
	Name     intern.ID
	Generics []arena.Ticket[Type]
}
