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

package intern_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crunch-lang/crunchc/internal/intern"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		inline bool
	}{
		{"", false}, // Reserved ID 0, not char6.
		{"a", true},
		{"abc", true},
		{"x1_2z", true},
		{"xy.z", true},
		{"?", false},    // Outside the char6 alphabet.
		{"foo.", false}, // Trailing period collides with padding.
		{".....", false},
		{"greeting", false}, // Too long to inline.
		{" ", false},
		{"very long", false},
	}

	var table intern.Table
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			id := table.Intern(tt.text)
			assert.Equal(t, tt.text, table.Value(id), "id: %v", id)
			if tt.text != "" {
				assert.Equal(t, tt.inline, id < 0)
			} else {
				assert.Equal(t, intern.ID(0), id)
			}
		})
	}
}

func TestIdempotent(t *testing.T) {
	t.Parallel()

	var table intern.Table
	a := table.Intern("greeting")
	b := table.Intern("greeting")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, table.Intern("farewell"))
}

func TestConcurrent(t *testing.T) {
	t.Parallel()

	var table intern.Concurrent
	ids := make([]intern.ID, 16)

	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = table.Intern("not-inlineable-identifier")
		}()
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, "not-inlineable-identifier", table.Value(ids[0]))
}
