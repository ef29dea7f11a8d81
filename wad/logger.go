// SPDX-License-Identifier: GPL-2.0-or-later

package wad

import (
	"io"
	"log"
)

var logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger receives the progress output of the reader.
func SetLogger(l *log.Logger) {
	logger = l
}
