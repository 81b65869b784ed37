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

// Package arena provides append-only, bulk-freed node storage addressed by
// small integer tickets.
//
// The compiler's AST and HIR are deeply recursive trees with broad sharing;
// storing nodes in an [Arena] and holding [Ticket]s instead of Go pointers
// keeps every node type comparable and lets a whole tree be released at once
// by dropping its arena.
package arena

import (
	"fmt"
	"math/bits"
	"strings"
)

// chunkMinShift is the log2 of the capacity of an arena's first chunk.
const (
	chunkMinShift = 4
	chunkMinLen   = 1 << chunkMinShift
)

// Raw is a ticket stripped of its node type.
//
// A raw ticket's value is one plus the number of nodes stored in its arena
// before the node it refers to; zero is reserved as the nil ticket.
type Raw uint32

// Nil returns the nil raw ticket.
func Nil() Raw {
	return 0
}

// Nil reports whether this ticket is nil.
func (r Raw) Nil() bool {
	return r == 0
}

// Ticket is a stable handle to a node of type T stored in an [Arena].
//
// Tickets are copyable and comparable, and remain valid no matter how many
// nodes are stored after them. Dereference with [Ticket.In].
//
// The zero value is nil.
type Ticket[T any] Raw

// Nil reports whether this ticket is nil.
func (t Ticket[T]) Nil() bool {
	return Raw(t).Nil()
}

// In dereferences this ticket in the given arena, returning a shared view
// of the stored node.
//
// The arena must be the one that issued this ticket; handing a ticket to a
// foreign arena yields an arbitrary node or a panic. A nil ticket panics.
func (t Ticket[T]) In(arena *Arena[T]) *T {
	return arena.Get(Raw(t))
}

// Arena is append-only storage for nodes of type T.
//
// Nodes are kept in a table of chunks whose capacities double, mirroring
// the growth pattern of an ordinary slice without ever moving an element:
// a full chunk is left in place and a larger one is started after it. This
// is what makes tickets stable under further [Arena.Store] calls. Lookup
// stays O(1) because chunk capacities are powers of two, so a ticket's
// chunk index is a bit-length computation away.
//
// A zero Arena[T] is empty and ready to use.
type Arena[T any] struct {
	// Invariants:
	// 1. cap(chunks[0]) == chunkMinLen.
	// 2. cap(chunks[n]) == 2*cap(chunks[n-1]).
	// 3. Every chunk but the last is full.
	chunks [][]T
}

// Store appends a node to the arena and returns its ticket.
func (a *Arena[T]) Store(node T) Ticket[T] {
	if a.chunks == nil {
		a.chunks = [][]T{make([]T, 0, chunkMinLen)}
	}

	last := &a.chunks[len(a.chunks)-1]
	if len(*last) == cap(*last) {
		a.chunks = append(a.chunks, make([]T, 0, 2*cap(*last)))
		last = &a.chunks[len(a.chunks)-1]
	}

	*last = append(*last, node)
	return Ticket[T](Raw(a.len()))
}

// Get dereferences a raw ticket, as if by [Ticket.In].
func (a *Arena[T]) Get(r Raw) *T {
	if r.Nil() {
		a = nil // Trigger an ordinary nil dereference on purpose.
	}
	chunk, idx := a.coordinates(int(r) - 1)
	return &a.chunks[chunk][idx]
}

func (a *Arena[T]) len() int {
	if len(a.chunks) == 0 {
		return 0
	}

	// Every chunk but the last is full, so only the last needs its true
	// length consulted.
	return a.lenOfFirstNChunks(len(a.chunks)-1) + len(a.chunks[len(a.chunks)-1])
}

// String implements [fmt.Stringer].
func (a Arena[T]) String() string {
	var b strings.Builder
	b.WriteRune('[')
	for i, chunk := range a.chunks {
		if i != 0 {
			b.WriteRune('|')
		}
		for j, v := range chunk {
			if j != 0 {
				b.WriteRune(' ')
			}
			fmt.Fprint(&b, v)
		}
	}
	b.WriteRune(']')
	return b.String()
}

// lenOfNthChunk returns the capacity of the nth chunk, allocated or not.
func (*Arena[T]) lenOfNthChunk(n int) int {
	return chunkMinLen << n
}

// lenOfFirstNChunks returns the total capacity of the first n chunks.
func (a *Arena[T]) lenOfFirstNChunks(n int) int {
	// Chunk capacities are chunkMinLen * (1, 2, 4, ...), a geometric series:
	// the total of chunks 0..n-1 is the capacity of chunk n minus the
	// capacity of chunk 0.
	return max(0, a.lenOfNthChunk(n)-a.lenOfNthChunk(0))
}

// coordinates locates the chunk holding index idx and the offset within
// it, bounds-checking as it goes.
func (a *Arena[T]) coordinates(idx int) (int, int) {
	if idx >= a.len() || idx < 0 {
		panic(fmt.Sprintf("arena: ticket out of range: %#x", idx))
	}

	// The cumulative starting index of chunk n is chunkMinLen*(2^n - 1), so
	// adding chunkMinLen to idx turns "which chunk holds idx?" into a bit
	// length computation: indexes belonging to chunk n land in
	// [2^(n+s), 2^(n+s+1)) where s is chunkMinShift.
	chunk := bits.UintSize - bits.LeadingZeros(uint(idx)+chunkMinLen)
	chunk -= chunkMinShift + 1

	// The offset within the chunk is whatever remains after the chunks
	// before it.
	idx -= a.lenOfFirstNChunks(chunk)

	return chunk, idx
}
