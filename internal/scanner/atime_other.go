//go:build !linux && !darwin

package scanner

import (
	"io/fs"
	"time"
)

// Without a portable access-time field we fall back to the modification
// time, which only ever makes a file look younger, never older.
func accessTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
