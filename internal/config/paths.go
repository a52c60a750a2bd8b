package config

import (
	"os"
	"path/filepath"
)

// Environment overrides for the data directory and database file.
const (
	EnvCQEHome = "CQE_HOME"
	EnvCQEDB   = "CQE_DB"
)

// DataDir returns the directory used to store cqe data.
func DataDir() (string, error) {
	if d := os.Getenv(EnvCQEHome); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	// Use a dot-directory in the user's home on all platforms
	return filepath.Join(home, ".cqe"), nil
}

// EnsureDataDir returns DataDir after creating it when missing.
func EnsureDataDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d, 0o700); err != nil {
		return "", err
	}
	return d, nil
}

// DBPath returns the full path to the SQLite database file.
func DBPath() (string, error) {
	if p := os.Getenv(EnvCQEDB); p != "" {
		return p, nil
	}
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "cqe.db"), nil
}
