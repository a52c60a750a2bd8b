package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDataDirEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvCQEHome, tmp)

	d, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir(): %v", err)
	}
	if d != tmp {
		t.Fatalf("expected %s got %s", tmp, d)
	}
}

func TestDBPathEnvOverride(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "custom.db")
	t.Setenv(EnvCQEDB, tmp)

	p, err := DBPath()
	if err != nil {
		t.Fatalf("DBPath(): %v", err)
	}
	if p != tmp {
		t.Fatalf("expected %s got %s", tmp, p)
	}
}

func TestDBPathDefaultsUnderDataDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvCQEHome, tmp)
	t.Setenv(EnvCQEDB, "")

	p, err := DBPath()
	if err != nil {
		t.Fatalf("DBPath(): %v", err)
	}
	if p != filepath.Join(tmp, "cqe.db") {
		t.Fatalf("unexpected db path %s", p)
	}
}

func TestEnsureDataDirCreatesDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvCQEHome, "")
	// fake home by setting HOME/USERPROFILE
	t.Setenv("HOME", tmp)
	t.Setenv("USERPROFILE", tmp)

	d, err := EnsureDataDir()
	if err != nil {
		t.Fatalf("EnsureDataDir(): %v", err)
	}
	if _, err := os.Stat(d); err != nil {
		t.Fatalf("expected dir %s to exist: %v", d, err)
	}
}
