package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"server": {"port": "51000"}, "log": {"level": "debug"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Load(path); err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}

	testCases := []struct {
		path     string
		expected string
	}{
		{"server.port", "51000"},
		{"log.level", "debug"},
		{"missing.key", ""},
	}

	for i, c := range testCases {
		if v := Get(c.path); v != c.expected {
			t.Errorf("test-case(%d): expected %q, got %q", i, c.expected, v)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if err := Load("no/such/config.json"); err == nil {
		t.Error("expected load of a missing file to fail")
	}
}
