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

package intern

import "golang.org/x/sync/singleflight"

// Concurrent is the interner variant intended for parallel access from
// several goroutines at once; it satisfies the same contract as a plain
// [Table].
//
// The underlying [Table] is already safe for concurrent Intern/Value calls
// on its own (it takes a lock around the slow path). Concurrent adds a
// [singleflight.Group] in front of it so that many goroutines racing to
// intern the same not-yet-seen string collapse into a single slow-path
// insert instead of each taking the write lock in turn.
//
// The zero Concurrent is empty and ready to use.
type Concurrent struct {
	table Table
	group singleflight.Group
}

// Intern interns s, returning the same [ID] every caller asking for an
// equal string receives, whether or not they call concurrently.
func (c *Concurrent) Intern(s string) ID {
	if id, ok := c.table.fastLookup(s); ok {
		return id
	}

	v, _, _ := c.group.Do(s, func() (any, error) {
		return c.table.Intern(s), nil
	})
	return v.(ID) //nolint:forcetypeassert // set immediately above
}

// Value converts id back into its original string.
func (c *Concurrent) Value(id ID) string {
	return c.table.Value(id)
}
