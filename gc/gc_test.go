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

package gc_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crunch-lang/crunchc/gc"
)

// Allocation bookkeeping: for any sequence of k successful
// allocate(si) calls without collection, heap_usage == sum(si) and
// num_allocations == k.
func TestCollector_AllocationBookkeeping(t *testing.T) {
	t.Parallel()

	c, err := gc.New(gc.WithHeapSize(4096))
	require.NoError(t, err)
	defer c.Close()

	sizes := []int{8, 16, 32}
	var sum int
	for _, s := range sizes {
		_, err := c.Allocate(s)
		require.NoError(t, err)
		sum += s
	}

	data := c.Data()
	assert.Equal(t, sum, data.HeapUsage)
	assert.Equal(t, len(sizes), data.NumAllocations)
}

// Reachability: after adding a as a root and b as a child of
// a, collect() preserves both ids; removing a from roots and collecting
// reclaims both.
func TestCollector_Reachability(t *testing.T) {
	t.Parallel()

	c, err := gc.New(gc.WithHeapSize(4096))
	require.NoError(t, err)
	defer c.Close()

	a, err := c.Allocate(8)
	require.NoError(t, err)
	b, err := c.Allocate(8)
	require.NoError(t, err)

	c.AddRoot(a)
	require.NoError(t, c.AddChild(a, b))

	c.Collect()
	assert.True(t, c.Contains(a))
	assert.True(t, c.Contains(b))

	require.NoError(t, c.RemoveRoot(a))
	c.Collect()
	assert.False(t, c.Contains(a))
	assert.False(t, c.Contains(b))
}

// Pointer movement: after collect(), get_ptr(id) for
// surviving ids equals the new address (base of the newly active side
// plus cumulative sizes of prior survivors in BFS order).
func TestCollector_PointerMovementAfterCollect(t *testing.T) {
	t.Parallel()

	c, err := gc.New(gc.WithHeapSize(4096))
	require.NoError(t, err)
	defer c.Close()

	a, err := c.Allocate(8)
	require.NoError(t, err)
	b, err := c.Allocate(16)
	require.NoError(t, err)

	// Roots are walked in insertion order, so a is discovered before b.
	c.AddRoot(a)
	c.AddRoot(b)

	c.Collect()

	pa, err := c.GetPtr(a)
	require.NoError(t, err)
	pb, err := c.GetPtr(b)
	require.NoError(t, err)
	assert.Equal(t, 0, pa)
	assert.Equal(t, 8, pb)
}

// Heap exhaustion: allocate(heap_size + 1) on an empty heap
// returns GcError("heap full").
func TestCollector_HeapExhaustion(t *testing.T) {
	t.Parallel()

	c, err := gc.New(gc.WithHeapSize(64))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Allocate(c.Data().HeapSize + 1)
	require.Error(t, err)
	assert.Equal(t, "heap full", err.Error())
}

func TestCollector_RemoveUnknownRootFails(t *testing.T) {
	t.Parallel()

	c, err := gc.New(gc.WithHeapSize(4096))
	require.NoError(t, err)
	defer c.Close()

	err = c.RemoveRoot(999)
	require.Error(t, err)
	assert.Equal(t, "the object to be unrooted does not exist", err.Error())
}

func TestCollector_AllocateValueAndFetchBytesRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := gc.New(gc.WithHeapSize(4096))
	require.NoError(t, err)
	defer c.Close()

	id, err := gc.AllocateValue(c, int64(42))
	require.NoError(t, err)

	raw, err := c.FetchBytes(id)
	require.NoError(t, err)

	var got int64
	require.NoError(t, binary.Read(bytes.NewReader(raw), binary.NativeEndian, &got))
	assert.Equal(t, int64(42), got)
}

// A dangling child (never allocated, or already reclaimed) is skipped
// by Collect rather than dereferenced.
func TestCollector_CollectSkipsDanglingChild(t *testing.T) {
	t.Parallel()

	c, err := gc.New(gc.WithHeapSize(4096))
	require.NoError(t, err)
	defer c.Close()

	a, err := c.Allocate(8)
	require.NoError(t, err)
	c.AddRoot(a)
	require.NoError(t, c.AddChild(a, gc.AllocId(12345)))

	assert.NotPanics(t, func() { c.Collect() })
	assert.True(t, c.Contains(a))
}
