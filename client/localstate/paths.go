// Package localstate keeps the tenant's login between CLI invocations in a
// small SQLite file under the state directory.
package localstate

import (
	"os"
	"path/filepath"
)

const dbFilename = "session.db"

// DataDir creates dir with 0700 permissions if needed and returns it.
func DataDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// DBPath returns the path of the session database inside dir.
func DBPath(dir string) (string, error) {
	d, err := DataDir(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(d, dbFilename), nil
}
