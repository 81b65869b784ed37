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

package gc

import "fmt"

// Error is a plain Go error returned directly to the runtime at the
// call site. GC errors are never accumulated the way parser, resolver,
// and typer diagnostics are: there is exactly one caller, and it decides
// what to do immediately.
type Error struct {
	message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.message }

func newError(format string, args ...any) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}
