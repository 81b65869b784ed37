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

// Options configures a [Collector] constructed by [New]. All booleans
// default to false.
type Options struct {
	// HeapSize is the requested size, in bytes, of one semi-space. Must be
	// > 0. [New] rounds it up to a whole number of OS pages.
	HeapSize int
	// BurnGC forces a collection before every allocation and after every
	// root removal, surfacing lifetime bugs eagerly.
	BurnGC bool
	// OverwriteHeap zeroes the formerly-active side on every collection
	// and both sides on Close.
	OverwriteHeap bool
	// Debug enables the left.dump/right.dump heap-dump side effect on
	// every FetchBytes call.
	Debug bool
}

// Option configures a [Collector]'s [Options].
type Option func(*Options)

// WithHeapSize sets the requested size, in bytes, of one semi-space
// (rounded up to a whole number of pages by [New]).
func WithHeapSize(n int) Option {
	return func(o *Options) { o.HeapSize = n }
}

// WithBurnGC enables burn mode.
func WithBurnGC() Option {
	return func(o *Options) { o.BurnGC = true }
}

// WithOverwriteHeap enables zeroing the inactive side on swap and both
// sides on teardown.
func WithOverwriteHeap() Option {
	return func(o *Options) { o.OverwriteHeap = true }
}

// WithDebug enables the heap-dump debug side effect.
func WithDebug() Option {
	return func(o *Options) { o.Debug = true }
}
