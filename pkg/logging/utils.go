/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Log file retention helpers. Lists the log files written by Logger and
removes the oldest once a directory holds more than the configured maximum.
*/

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ListLogFiles returns the jsonlens log files in dir, oldest first
func ListLogFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, filePrefix+"*.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob log files: %w", err)
	}

	modTimes := make(map[string]int64, len(files))
	for _, f := range files {
		if stat, err := os.Stat(f); err == nil {
			modTimes[f] = stat.ModTime().UnixNano()
		}
	}

	// names embed the start time, so they break ties between equal mod times
	sort.Slice(files, func(i, j int) bool {
		if modTimes[files[i]] != modTimes[files[j]] {
			return modTimes[files[i]] < modTimes[files[j]]
		}
		return files[i] < files[j]
	})
	return files, nil
}

// PruneLogFiles removes the oldest log files in dir until at most maxFiles remain.
// It returns the number of files removed.
func PruneLogFiles(dir string, maxFiles int) (int, error) {
	if dir == "" || maxFiles <= 0 {
		return 0, nil
	}

	files, err := ListLogFiles(dir)
	if err != nil {
		return 0, err
	}
	if len(files) <= maxFiles {
		return 0, nil
	}

	removed := 0
	for _, f := range files[:len(files)-maxFiles] {
		if err := os.Remove(f); err != nil {
			return removed, fmt.Errorf("failed to remove file %s: %w", f, err)
		}
		removed++
	}
	return removed, nil
}
