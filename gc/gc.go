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

// Package gc implements the copying (Cheney-style) garbage collector that
// backs the bytecode runtime: two page-rounded semi-spaces, bump
// allocation, and a breadth-first mark-copy collection cycle.
//
// The collector is strictly single-threaded: it acknowledges no
// safepoints beyond its own entry points, and every method that changes
// its state (Allocate, Collect, AddRoot, RemoveRoot, AddChild, Write,
// Close) asserts (via [github.com/petermattis/goid]) that it is being
// called from the goroutine that constructed it. The read-only accessors
// (Roots, Contains, GetPtr, FetchBytes, Data) make no such check.
package gc

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/petermattis/goid"
	"github.com/tidwall/btree"

	"github.com/crunch-lang/crunchc/internal/ext/slicesx"
)

// AllocId identifies a single live allocation. Ids are minted by a
// monotonic counter and never reused within a [Collector]'s lifetime.
type AllocId int64

// side selects which of the two semi-spaces is currently active.
type side int8

const (
	sideLeft side = iota
	sideRight
)

func (s side) flip() side {
	if s == sideLeft {
		return sideRight
	}
	return sideLeft
}

// Value is the bookkeeping record the collector keeps for a single
// allocation: its identity, size, outgoing child edges, and mark bit.
//
// Marked is always false outside of a collection cycle; [Collector.Collect]
// re-establishes that invariant before it returns.
type Value struct {
	ID       AllocId
	Size     int
	Children []AllocId
	Marked   bool
}

// allocation pairs a Value with its current byte offset into the active
// side. The offset is meaningless once a collection cycle moves it; a
// caller holding one across a Collect or Allocate call is holding a
// documented hazard, not something the type system catches.
type allocation struct {
	Offset int
	Value  Value
}

// Collector is a copying garbage collector over two equally-sized
// semi-spaces. A zero Collector is not ready to use; construct one with
// [New].
type Collector struct {
	opts     Options
	heapSize int
	sides    [2][]byte
	current  side
	latest   int

	allocs btree.Map[AllocId, allocation]
	roots  []AllocId
	nextID AllocId

	owner int64
}

// New allocates both semi-spaces and returns a ready [Collector]. The
// boolean options all default to false; HeapSize must be supplied and
// must be greater than zero.
func New(opts ...Option) (*Collector, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.HeapSize <= 0 {
		return nil, newError("heap_size must be greater than zero")
	}

	heapSize := roundUpToPage(o.HeapSize)
	c := &Collector{
		opts:     o,
		heapSize: heapSize,
		sides:    [2][]byte{make([]byte, heapSize), make([]byte, heapSize)},
		owner:    goid.Get(),
	}
	return c, nil
}

// roundUpToPage rounds n up to the nearest multiple of the OS memory
// page size, so each semi-space occupies whole pages.
func roundUpToPage(n int) int {
	page := os.Getpagesize()
	if page <= 0 {
		return n
	}
	if rem := n % page; rem != 0 {
		n += page - rem
	}
	return n
}

// assertOwner panics if called from a goroutine other than the one that
// constructed c. The GC has no safepoints and no synchronization of its
// own, so single-goroutine use is enforced rather than merely documented.
func (c *Collector) assertOwner() {
	if g := goid.Get(); g != c.owner {
		panic(fmt.Sprintf("gc: Collector used from goroutine %d, constructed on %d", g, c.owner))
	}
}

// Allocate reserves size bytes on the active side and returns the new
// allocation's id. If allocation would overflow the active side, a
// collection is run and the request retried once; if it still doesn't
// fit, Allocate fails with a heap-full [Error].

func (c *Collector) Allocate(size int) (AllocId, error) {
	c.assertOwner()

	if c.opts.BurnGC {
		c.Collect()
	}

	if c.latest+size > c.heapSize {
		c.Collect()
		if c.latest+size > c.heapSize {
			return 0, newError("heap full")
		}
	}

	id := c.nextID
	c.nextID++

	offset := c.latest
	c.latest += size

	c.allocs.Set(id, allocation{
		Offset: offset,
		Value:  Value{ID: id, Size: size},
	})
	return id, nil
}

// AllocateZeroed is [Collector.Allocate] followed by zeroing the returned
// region.
func (c *Collector) AllocateZeroed(size int) (AllocId, error) {
	id, err := c.Allocate(size)
	if err != nil {
		return 0, err
	}
	rec, _ := c.allocs.Get(id)
	clear(c.sides[c.current][rec.Offset : rec.Offset+size])
	return id, nil
}

// AllocateValue allocates room for v and writes it immediately.
func AllocateValue[T any](c *Collector, v T) (AllocId, error) {
	size := binary.Size(v)
	if size < 0 {
		return 0, newError("value of type %T has no fixed binary size", v)
	}
	id, err := c.Allocate(size)
	if err != nil {
		return 0, err
	}
	if err := Write(c, id, v); err != nil {
		return 0, err
	}
	return id, nil
}

// Collect runs one breadth-first mark-and-copy cycle: every allocation
// reachable from the root set is copied to the inactive side, the sides
// are flipped, and (if configured) the old side is overwritten with
// zeros.
//
// Copy order within the new side is the BFS discovery order of the mark
// phase. This is observable as the post-collection address layout and is
// part of the contract, not an accident of implementation.
func (c *Collector) Collect() {
	c.assertOwner()

	type found struct {
		offset int
		value  Value
	}
	order := make([]AllocId, 0, c.allocs.Len())
	keep := make(map[AllocId]found, c.allocs.Len())

	queue := new(slicesx.Queue[AllocId])
	queue.PushBack(c.roots...)

	for {
		id, ok := queue.PopFront()
		if !ok {
			break
		}
		if _, seen := keep[id]; seen {
			continue
		}
		rec, ok := c.allocs.Get(id)
		if !ok {
			// A root or child pointing at a reclaimed or never-allocated
			// id is discovered here, never blindly dereferenced.
			continue
		}
		rec.Value.Marked = true
		keep[id] = found{offset: rec.Offset, value: rec.Value}
		order = append(order, id)
		queue.PushBack(rec.Value.Children...)
	}

	oldSide := c.current
	newSide := oldSide.flip()

	latest := 0
	var newAllocs btree.Map[AllocId, allocation]
	for _, id := range order {
		e := keep[id]
		dst := c.sides[newSide][latest : latest+e.value.Size]
		src := c.sides[oldSide][e.offset : e.offset+e.value.Size]
		copy(dst, src)

		e.value.Marked = false
		newAllocs.Set(id, allocation{Offset: latest, Value: e.value})
		latest += e.value.Size
	}

	if c.opts.OverwriteHeap {
		clear(c.sides[oldSide])
	}

	c.allocs = newAllocs
	c.current = newSide
	c.latest = latest
}

// AddRoot appends id to the root set. No deduplication is performed.
func (c *Collector) AddRoot(id AllocId) {
	c.assertOwner()
	c.roots = append(c.roots, id)
}

// RemoveRoot removes the first occurrence of id from the root set. It
// fails with an [Error] if id is not a root. If burn mode is enabled, a
// collection runs immediately after a successful removal.
func (c *Collector) RemoveRoot(id AllocId) error {
	c.assertOwner()

	for i, root := range c.roots {
		if root == id {
			c.roots = append(c.roots[:i], c.roots[i+1:]...)
			if c.opts.BurnGC {
				c.Collect()
			}
			return nil
		}
	}
	return newError("the object to be unrooted does not exist")
}

// Roots returns the current root set, in insertion order.
func (c *Collector) Roots() []AllocId {
	return c.roots
}

// AddChild appends child to parent's child list. Fails if parent does
// not exist; child is not validated against the allocation map at
// insertion time. A dangling child is discovered (and skipped, never
// dereferenced) the next time [Collector.Collect] walks the graph.
func (c *Collector) AddChild(parent, child AllocId) error {
	c.assertOwner()

	rec, ok := c.allocs.Get(parent)
	if !ok {
		return newError("parent allocation %d does not exist", parent)
	}
	rec.Value.Children = append(rec.Value.Children, child)
	c.allocs.Set(parent, rec)
	return nil
}

// Contains reports whether id names a currently live allocation.
func (c *Collector) Contains(id AllocId) bool {
	_, ok := c.allocs.Get(id)
	return ok
}

// GetPtr returns the current byte offset of id's allocation into the
// active side. The offset is invalidated by any subsequent Allocate or
// Collect call; this is a documented hazard, not a dynamic check.
func (c *Collector) GetPtr(id AllocId) (int, error) {
	rec, ok := c.allocs.Get(id)
	if !ok {
		return 0, newError("requested value does not exist")
	}
	return rec.Offset, nil
}

// FetchBytes returns a borrow of id's raw bytes at its current offset.
// The borrow is invalidated by any subsequent Allocate or Collect call.
//
// If debug mode is enabled, this also writes left.dump/right.dump to
// the working directory before returning.
func (c *Collector) FetchBytes(id AllocId) ([]byte, error) {
	rec, ok := c.allocs.Get(id)
	if !ok {
		return nil, newError("requested value does not exist")
	}
	if c.opts.Debug {
		if err := c.dumpHeap(); err != nil {
			return nil, err
		}
	}
	return c.sides[c.current][rec.Offset : rec.Offset+rec.Value.Size], nil
}

// dumpHeap writes left.dump and right.dump to the working directory,
// containing the raw contents of each side.
func (c *Collector) dumpHeap() error {
	names := [2]string{sideLeft: "left.dump", sideRight: "right.dump"}
	for s, name := range names {
		if err := os.WriteFile(name, c.sides[s], 0o644); err != nil {
			return newError("writing %s: %v", name, err)
		}
	}
	return nil
}

// Write encodes value with [encoding/binary] and copies it into id's
// allocation, failing if value's encoded size does not exactly match the
// allocation's size.
func Write[T any](c *Collector, id AllocId, value T) error {
	c.assertOwner()

	rec, ok := c.allocs.Get(id)
	if !ok {
		return newError("object to be written to does not exist")
	}

	size := binary.Size(value)
	if size < 0 {
		return newError("value of type %T has no fixed binary size", value)
	}
	if size != rec.Value.Size {
		return newError("size mismatch: %d != %d", rec.Value.Size, size)
	}

	var buf fixedWriter
	if err := binary.Write(&buf, binary.NativeEndian, value); err != nil {
		return newError("encoding value: %v", err)
	}
	copy(c.sides[c.current][rec.Offset:rec.Offset+size], buf.bytes)
	return nil
}

// fixedWriter is a minimal io.Writer collecting bytes for [binary.Write],
// avoiding a bytes.Buffer import for a single append loop.
type fixedWriter struct{ bytes []byte }

func (w *fixedWriter) Write(p []byte) (int, error) {
	w.bytes = append(w.bytes, p...)
	return len(p), nil
}

// Stats is a point-in-time snapshot of the collector's bookkeeping.
type Stats struct {
	HeapSize       int
	HeapUsage      int
	NumRoots       int
	NumAllocations int
}

// Data returns a snapshot of c's current state. HeapSize and HeapUsage
// are both reported in bytes.
func (c *Collector) Data() Stats {
	return Stats{
		HeapSize:       c.heapSize,
		HeapUsage:      c.latest,
		NumRoots:       len(c.roots),
		NumAllocations: c.allocs.Len(),
	}
}

// Close overwrites both sides with zeros if configured to, then releases
// them. A Collector must not be used after Close.
func (c *Collector) Close() error {
	c.assertOwner()
	if c.opts.OverwriteHeap {
		clear(c.sides[sideLeft])
		clear(c.sides[sideRight])
	}
	c.sides[sideLeft] = nil
	c.sides[sideRight] = nil
	return nil
}
