// Package io holds file helpers of command line tools.
package io

import (
	"os"
	"path/filepath"
)

// CreateAll creates or truncates the file at name, making missing parent
// directories.
//
// fmod is the permission of the file, and dmod is of directories made here.
// Existing directories keep their permissions.
func CreateAll(name string, fmod os.FileMode, dmod os.FileMode) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(name), dmod); err != nil {
		return nil, err
	}
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, fmod)
}
