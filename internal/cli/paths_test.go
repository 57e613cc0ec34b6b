package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestExportTargetPath(t *testing.T) {
	target := exportTarget{dir: "dist", name: "theme"}

	tests := map[string]string{
		"css":  "theme.css",
		"json": "theme.json",
		"flat": "theme.flat.json",
		"dot":  "theme.dot",
		"svg":  "theme.svg",
	}
	for format, want := range tests {
		t.Run(format, func(t *testing.T) {
			got := target.path(format)
			if got != filepath.Join("dist", want) {
				t.Errorf("path(%q) = %q, want %q", format, got, filepath.Join("dist", want))
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	fallback := []string{"css"}

	tests := []struct {
		in   string
		want string
	}{
		{"", "css"},
		{"json", "json"},
		{"css,json", "css|json"},
		{" css , svg ,", "css|svg"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := strings.Join(parseFormats(tt.in, fallback), "|")
			if got != tt.want {
				t.Errorf("parseFormats(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
