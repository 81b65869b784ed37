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

// Deferred is the resolver's `Either<L, R>`: a sum of an already-resolved
// value (Left) or something still awaiting resolution (Right). The
// finalize pass patches a Right to a Left in place via [Deferred.SetLeft]
// rather than rebuilding the containing structure.
type Deferred[L, R any] struct {
	isLeft bool
	left   L
	right  R
}

// Left wraps an already-resolved value.
func Left[L, R any](l L) Deferred[L, R] {
	return Deferred[L, R]{isLeft: true, left: l}
}

// Right wraps a value still awaiting resolution.
func Right[L, R any](r R) Deferred[L, R] {
	return Deferred[L, R]{right: r}
}

// IsLeft reports whether d currently holds a resolved value.
func (d Deferred[L, R]) IsLeft() bool { return d.isLeft }

// Left returns the resolved value and true, or the zero value and false.
func (d Deferred[L, R]) Left() (L, bool) { return d.left, d.isLeft }

// Right returns the unresolved value and true, or the zero value and
// false.
func (d Deferred[L, R]) Right() (R, bool) { return d.right, !d.isLeft }

// SetLeft patches d to a resolved Left in place, discarding the pending
// Right. Used by the finalize phase so that patching never requires
// cloning the structure a [Deferred] lives inside.
func (d *Deferred[L, R]) SetLeft(l L) {
	d.isLeft = true
	d.left = l
	var zero R
	d.right = zero
}
