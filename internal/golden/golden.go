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

// Package golden runs file-based golden tests.
//
// A [Corpus] is a table-driven test whose table lives on disk: each fixture
// file under the corpus root becomes one subtest, and each of the corpus's
// [Output]s names a sidecar file holding that subtest's expected result.
//
// Setting the environment variable named by [Corpus].Refresh to a file glob
// regenerates the sidecar files for every matching fixture instead of
// comparing against them.
package golden

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus describes a directory of fixture files and the outputs each one is
// expected to produce.
type Corpus struct {
	// Root of the fixture directory, relative to the source file that calls
	// [Corpus.Run].
	Root string

	// Name of the environment variable that switches this corpus into
	// refresh mode. Empty disables refreshing.
	Refresh string

	// Extensions (without the dot) of files that define a test case,
	// e.g. "crunch".
	Extensions []string

	// The outputs each test case produces. A missing sidecar file is
	// treated as expecting the empty string.
	Outputs []Output
}

// Output names one sidecar file of a test case.
type Output struct {
	// Extension appended to the fixture's name: for fixture "f.crunch" and
	// extension "yaml", the sidecar is "f.crunch.yaml".
	Extension string

	// Compare overrides how got and want are compared. Nil means
	// [CompareAndDiff].
	Compare CompareFunc
}

// CompareFunc compares a produced output against its sidecar's contents.
// It returns "" on a match and a failure message otherwise.
type CompareFunc func(got, want string) string

// Run walks the corpus and executes test once per fixture file.
//
// test receives the fixture's path (relative to the calling test's
// directory), its text, and an outputs slice of the same length as
// c.Outputs to fill in. Filling outputs as early as possible means a panic
// later in test still leaves partial results for the runner to report.
func (c Corpus) Run(t *testing.T, test func(t *testing.T, path, text string, outputs []string)) {
	testDir := callerDir(t, 1)
	root := filepath.Join(testDir, c.Root)

	fixtures, err := c.find(root)
	if err != nil {
		t.Fatal("golden: error while walking fixture dir:", err)
	}
	t.Logf("golden: found %d fixture(s) under %q", len(fixtures), root)

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("golden: invalid glob in $%s: %q", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		// A refreshing run must never be mistaken for a passing one.
		t.Logf("golden: refreshing fixtures because %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, path := range fixtures {
		// Normalize to forward slashes so fixture names, and therefore test
		// names and glob matches, agree across platforms.
		name, _ := filepath.Rel(testDir, path)
		name = filepath.ToSlash(name)
		subtest, _ := filepath.Rel(root, path)
		subtest = filepath.ToSlash(subtest)

		t.Run(subtest, func(t *testing.T) {
			t.Parallel()

			text, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("golden: error while reading fixture %q: %v", path, err)
			}

			results := make([]string, len(c.Outputs))
			panicked, stack := catch(func() { test(t, name, string(text), results) })
			if panicked != nil {
				t.Logf("test panicked: %v\n%s", panicked, stack)
				t.Fail()
			}

			// Even after a panic, compare or refresh whatever outputs the
			// test managed to produce.
			doRefresh, _ := doublestar.Match(refresh, name)
			for i, out := range c.Outputs {
				if panicked != nil && results[i] == "" {
					// Almost certainly never written; comparing it would
					// just bury the panic under noise.
					continue
				}

				sidecar := fmt.Sprint(path, ".", out.Extension)
				if doRefresh {
					c.rewrite(t, sidecar, results[i])
					continue
				}
				c.check(t, out, sidecar, results[i])
			}
		})
	}
}

// find enumerates fixture files under root by extension.
func (c Corpus) find(root string) ([]string, error) {
	var fixtures []string
	err := filepath.Walk(root, func(p string, fi fs.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}
		for _, ext := range c.Extensions {
			if strings.HasSuffix(p, "."+ext) {
				fixtures = append(fixtures, p)
				break
			}
		}
		return nil
	})
	return fixtures, err
}

// check compares got against the contents of the sidecar file.
func (c Corpus) check(t *testing.T, out Output, sidecar, got string) {
	want, err := os.ReadFile(sidecar)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Logf("golden: error while reading sidecar %q: %v", sidecar, err)
		t.Fail()
		return
	}

	compare := out.Compare
	if compare == nil {
		compare = CompareAndDiff
	}
	if msg := compare(got, string(want)); msg != "" {
		t.Logf("output mismatch for %q:\n%s", sidecar, msg)
		t.Fail()
	}
}

// rewrite replaces the sidecar's contents with got, deleting the file
// outright when got is empty.
func (c Corpus) rewrite(t *testing.T, sidecar, got string) {
	if got == "" {
		err := os.Remove(sidecar)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			t.Logf("golden: error while deleting sidecar %q: %v", sidecar, err)
			t.Fail()
		}
		return
	}
	if err := os.WriteFile(sidecar, []byte(got), 0600); err != nil {
		t.Logf("golden: error while writing sidecar %q: %v", sidecar, err)
		t.Fail()
	}
}

// CompareAndDiff is the default [CompareFunc]: equality, with a unified
// diff as the failure message.
func CompareAndDiff(got, want string) string {
	if got == want {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

// callerDir returns the directory of the source file skip frames above the
// caller of this function (skip 0 is this function's own caller).
func callerDir(t *testing.T, skip int) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(skip + 1)
	if !ok {
		t.Fatal("golden: could not determine caller's file")
	}
	return filepath.Dir(file)
}

// catch runs cb, capturing any panic and its stack.
func catch(cb func()) (panicked any, stack []byte) {
	defer func() {
		panicked = recover()
		if panicked != nil {
			stack = debug.Stack()
		}
	}()
	cb()
	return
}
