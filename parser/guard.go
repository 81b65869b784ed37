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

package parser

// depthGuard tracks recursion depth as the number of outstanding guards:
// a shared counter incremented by enter and decremented by a deferred
// exit on every return path, including error returns.
type depthGuard struct {
	depth *int
	limit int
}

// newDepthGuard builds a guard enforcing limit as the maximum recursion
// depth.
func newDepthGuard(limit int) depthGuard {
	depth := 0
	return depthGuard{depth: &depth, limit: limit}
}

// enter increments the depth and returns the new depth together with an
// exit function that undoes the increment. Callers test the depth with
// [depthGuard.exceeded] and must call exit before returning even when the
// limit was exceeded, so the guard balances on the error path too.
func (g depthGuard) enter() (current int, exit func()) {
	*g.depth++
	current = *g.depth
	return current, func() { *g.depth-- }
}

// exceeded reports whether current exceeds this guard's configured limit.
func (g depthGuard) exceeded(current int) bool {
	return current > g.limit
}

// DefaultRecursionLimit is the recursion depth enforced when a [Parser] is
// constructed without an explicit limit.
const DefaultRecursionLimit = 256
