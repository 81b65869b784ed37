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

import "github.com/crunch-lang/crunchc/report"

// Locatable pairs a value with the source span it was parsed from.
//
// A Span may be [report.Span.Implicit]: e.g. an injected default
// visibility attribute carries the location of the declaration's
// signature rather than any literal source text.
type Locatable[T any] struct {
	Value T
	Span  report.Span
}

// NewLocatable pairs value with span.
func NewLocatable[T any](value T, span report.Span) Locatable[T] {
	return Locatable[T]{Value: value, Span: span}
}

// Implicit pairs value with an implicit span derived from at, matching the
// "implicit location equal to the enclosing declaration's signature span"
// convention used for injected visibility and default return types.
func Implicit[T any](value T, at report.Span) Locatable[T] {
	at.Implicit = true
	return Locatable[T]{Value: value, Span: at}
}
