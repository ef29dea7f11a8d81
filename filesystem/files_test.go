// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("PWAD"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSearchPath(t *testing.T) {
	t.Setenv("DOOMWADDIR", "/wads")
	t.Setenv("DOOMWADPATH", "/a"+string(filepath.ListSeparator)+"/b")
	got := SearchPath("base")
	want := []string{"base", ".", "/wads", "/a", "/b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SearchPath(base) = %v, want %v", got, want)
	}
}

func TestFind(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	touch(t, filepath.Join(second, "DOOM2.WAD"))
	touch(t, filepath.Join(second, "mine.wad"))
	touch(t, filepath.Join(first, "mine.wad"))
	dirs := []string{first, second}

	if got, err := Find("doom2.wad", dirs); err != nil || got != filepath.Join(second, "DOOM2.WAD") {
		t.Errorf("Find(doom2.wad) = %v, %v", got, err)
	}
	if got, err := Find("mine.wad", dirs); err != nil || got != filepath.Join(first, "mine.wad") {
		t.Errorf("Find(mine.wad) = %v, %v, want the first directory", got, err)
	}
	if _, err := Find("none.wad", dirs); err == nil {
		t.Errorf("Find(none.wad) succeeded")
	}
	abs := filepath.Join(second, "mine.wad")
	if got, err := Find(abs, nil); err != nil || got != abs {
		t.Errorf("Find(%v) = %v, %v", abs, got, err)
	}
}
