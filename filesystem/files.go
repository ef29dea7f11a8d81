// SPDX-License-Identifier: GPL-2.0-or-later

// Package filesystem locates WAD files on the usual Doom search path.
package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// SearchPath returns the directories searched for WAD files in order: the
// base directory, the working directory, $DOOMWADDIR and the entries of
// $DOOMWADPATH.
func SearchPath(baseDir string) []string {
	var dirs []string
	if baseDir != "" {
		dirs = append(dirs, baseDir)
	}
	dirs = append(dirs, ".")
	if d := os.Getenv("DOOMWADDIR"); d != "" {
		dirs = append(dirs, d)
	}
	for _, d := range filepath.SplitList(os.Getenv("DOOMWADPATH")) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// candidates returns name as given and in lower and upper case, WAD names
// come in both.
func candidates(name string) []string {
	c := []string{name}
	for _, n := range []string{strings.ToLower(name), strings.ToUpper(name)} {
		if n != c[len(c)-1] && n != name {
			c = append(c, n)
		}
	}
	return c
}

func isFile(fsys fs.FS, name string) bool {
	fi, err := fs.Stat(fsys, name)
	return err == nil && !fi.IsDir()
}

// Find returns the path of a WAD. Paths with a directory part are only
// checked as given.
func Find(name string, dirs []string) (string, error) {
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
			return name, nil
		}
		return "", errors.Errorf("%s not found", name)
	}
	for _, d := range dirs {
		fsys := os.DirFS(d)
		for _, c := range candidates(name) {
			if isFile(fsys, c) {
				return filepath.Join(d, c), nil
			}
		}
	}
	return "", errors.Errorf("%s not found in %s", name, strings.Join(dirs, string(filepath.ListSeparator)))
}
