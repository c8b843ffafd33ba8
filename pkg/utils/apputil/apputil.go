// Package apputil provides utility functions for file and directory
// operations.
package apputil

import (
	"os"
	"path/filepath"

	"prismview.dev/pkg/utils/chk"
)

// EnsureDir creates the directories leading up to a file path if they don't
// exist.
func EnsureDir(fileName string) (err error) {
	dirName := filepath.Dir(fileName)
	if _, e := os.Stat(dirName); e != nil {
		if err = os.MkdirAll(dirName, os.ModePerm); chk.E(err) {
			return
		}
	}
	return
}

// FileExists reports whether the named file or directory exists.
func FileExists(filePath string) bool {
	_, e := os.Stat(filePath)
	return e == nil
}
