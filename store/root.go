// Package store resolves the shared storage root channels and publishers
// rendezvous through, and enumerates the live channel directories under it
// (spec.md §3 "Storage root", §4.1).
package store

import (
	"os"
	"path/filepath"
	"sync"
)

var (
	rootOnce sync.Once
	rootPath string
	rootErr  error
)

// Root resolves the storage root: PUBSUB_HOME if set, else
// /dev/shm/filebus if /dev/shm exists, else <tempdir>/filebus. The result
// is resolved once and cached for the process lifetime — later changes to
// the environment have no effect (spec.md §3, §6).
func Root() (string, error) {
	rootOnce.Do(func() {
		rootPath, rootErr = resolveRoot()
		if rootErr == nil {
			rootErr = os.MkdirAll(rootPath, 0o755)
		}
	})
	return rootPath, rootErr
}

func resolveRoot() (string, error) {
	if home := os.Getenv("PUBSUB_HOME"); home != "" {
		return home, nil
	}
	if fi, err := os.Stat("/dev/shm"); err == nil && fi.IsDir() {
		return "/dev/shm/filebus", nil
	}
	return filepath.Join(os.TempDir(), "filebus"), nil
}

// ChannelDirs lists the immediate subdirectories of root — the live
// channel directories (spec.md §4.1). A missing root means no channels,
// not an error.
func ChannelDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dirs = append(dirs, filepath.Join(root, e.Name()))
	}
	return dirs, nil
}
