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

package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crunch-lang/crunchc/internal/arena"
)

func TestTicketStability(t *testing.T) {
	assert := assert.New(t)

	var a arena.Arena[int]

	t1 := a.Store(5)
	view := t1.In(&a)
	assert.Equal(5, *t1.In(&a))

	// Push the arena past its first chunk; t1's view must not move.
	for i := 0; i < 16; i++ {
		a.Store(i + 5)
	}
	assert.Equal(19, *arena.Ticket[int](16).In(&a))
	assert.Equal(20, *arena.Ticket[int](17).In(&a))
	assert.True(t1.In(&a) == view)

	// And past the second chunk.
	for i := 0; i < 32; i++ {
		a.Store(i + 21)
	}
	assert.Equal(51, *arena.Ticket[int](48).In(&a))
	assert.Equal(52, *arena.Ticket[int](49).In(&a))
	assert.True(t1.In(&a) == view)
}

func TestTicketsAreDense(t *testing.T) {
	assert := assert.New(t)

	var a arena.Arena[string]
	t1 := a.Store("fn")
	t2 := a.Store("end")

	assert.False(t1.Nil())
	assert.Equal(arena.Ticket[string](1), t1)
	assert.Equal(arena.Ticket[string](2), t2)
	assert.Equal("fn", *t1.In(&a))
	assert.Equal("end", *t2.In(&a))
}

func TestNilTicket(t *testing.T) {
	assert := assert.New(t)

	var tick arena.Ticket[int]
	assert.True(tick.Nil())
	assert.True(arena.Nil().Nil())

	var a arena.Arena[int]
	assert.Panics(func() { tick.In(&a) })
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	var a arena.Arena[int]
	for i := 0; i < 17; i++ {
		a.Store(i)
	}

	// The chunk boundary after the sixteenth element is visible in the dump.
	assert.Equal("[0 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15|16]", a.String())
}
