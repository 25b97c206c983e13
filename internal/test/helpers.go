package test

import (
	"path/filepath"
	"runtime"
)

// ProjectRoot returns the module root, resolved from this file's location so
// tests can read repo files whatever package they run from.
func ProjectRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..")
}

// MigrationsDir is where the embedded SQL migrations live on disk.
func MigrationsDir() string {
	return filepath.Join(ProjectRoot(), "internal", "db", "migrations")
}
