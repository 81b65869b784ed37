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

// Package intern deduplicates strings into small copyable handles.
//
// Identifiers flow through every stage of the compiler, so they are interned
// once at parse time and compared as integers from then on. Interning is
// idempotent: equal strings always produce equal [ID]s within one [Table].
package intern

import (
	"fmt"
	"strings"
	"sync"
)

// ID is the handle for a string interned in a particular [Table].
//
// IDs compare in a single instruction. The zero value always denotes the
// empty string.
//
// # Representation
//
// A positive ID is a one-based index into the owning table's string list.
//
// A negative ID carries up to five characters inline in its own bits using
// the [LLVM char6 encoding]; short identifiers never touch the table at all.
//
// [LLVM char6 encoding]: https://llvm.org/docs/BitCodeFormat.html#bit-characters
type ID int32

// String implements [fmt.Stringer].
//
// This is a debugging aid, not the interned text; recovering the text of a
// table-resident ID requires [Table.Value].
func (id ID) String() string {
	if id == 0 {
		return `intern.ID("")`
	}
	if id < 0 {
		return fmt.Sprintf("intern.ID(%q)", decodeChar6(id))
	}
	return fmt.Sprintf("intern.ID(%d)", int(id))
}

// GoString implements [fmt.GoStringer].
func (id ID) GoString() string {
	return id.String()
}

// Table is an interning table mapping strings to [ID]s and back.
//
// The zero value is empty and ready to use. A Table is safe for concurrent
// use; see [Concurrent] for the variant that also collapses duplicate
// slow-path inserts.
type Table struct {
	mu   sync.RWMutex
	ids  map[string]ID
	strs []string
}

// Intern returns the ID for s, minting one if s has never been seen.
//
// Safe to call from multiple goroutines.
func (t *Table) Intern(s string) ID {
	if id, ok := t.fastLookup(s); ok {
		return id
	}

	// The table outlives whatever buffer s points into; clone so the table
	// does not pin that buffer alive.
	s = strings.Clone(s)

	t.mu.Lock()
	defer t.mu.Unlock()

	// Another goroutine may have interned s between the read-locked lookup
	// and here, so look once more under the write lock.
	if id, ok := t.ids[s]; ok {
		return id
	}

	t.strs = append(t.strs, s)

	// IDs are one-based; 0 is reserved for "".
	id := ID(len(t.strs))
	if id < 0 {
		panic(fmt.Sprintf("internal/intern: %d interning IDs exhausted", len(t.strs)))
	}

	if t.ids == nil {
		t.ids = make(map[string]ID)
	}
	t.ids[s] = id

	return id
}

// Value resolves id back to the string it was interned from.
//
// Resolving an ID minted by a different [Table] is unspecified, up to and
// including a panic.
//
// Safe to call from multiple goroutines.
func (t *Table) Value(id ID) string {
	if id == 0 {
		return ""
	}

	if id < 0 {
		return decodeChar6(id)
	}

	// The locked path is outlined so the two branches above stay inlinable,
	// which lets decodeChar6's result stay on the caller's stack.
	return t.valueSlow(id)
}

func (t *Table) valueSlow(id ID) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.strs[int(id)-1]
}

// fastLookup returns the ID for s without taking the write lock: either s
// is short enough to inline, or some earlier call already interned it.
// Reports false when neither holds and the caller must take Intern's
// write-locked slow path.
func (t *Table) fastLookup(s string) (ID, bool) {
	if char6, ok := encodeChar6(s); ok {
		return char6, true
	}

	// In steady state nearly every identifier has been seen before, so a
	// read lock suffices almost always. Entries are never deleted, so a hit
	// observed here cannot be invalidated by a concurrent writer.
	t.mu.RLock()
	id, ok := t.ids[s]
	t.mu.RUnlock()
	return id, ok
}
