package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/filebus/filebus/fifo"
)

// ReapStale removes channel directories under root whose mtime is older
// than olderThan and whose FIFO cannot be opened for writing (no reader
// attached, i.e. the owning process crashed). It is an optional
// administrator utility — publish/fetch never call it implicitly
// (spec.md §4.7).
func ReapStale(root string, olderThan time.Duration) (reaped int, err error) {
	dirs, err := ChannelDirs(root)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	for _, dir := range dirs {
		fi, statErr := os.Stat(dir)
		if statErr != nil {
			continue // raced with its owner finishing close()
		}
		if fi.ModTime().After(cutoff) {
			continue
		}

		w, openErr := fifo.OpenWriteNonblock(filepath.Join(dir, fifo.Name))
		if openErr == nil {
			w.Close()
			continue // a reader is attached; not stale
		}
		if openErr != fifo.ErrNoReader {
			continue // some other transient error; leave it for next pass
		}

		if err := os.RemoveAll(dir); err == nil {
			reaped++
		}
	}
	return reaped, nil
}
