//go:build linux

package resource

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nczempin/httpd-go-uring/errors"
)

// setupResourceRoot writes files below a fresh temporary root
func setupResourceRoot(t *testing.T, files map[string][]byte) string {
	t.Helper()

	root := t.TempDir()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return root
}

func largeContents() []byte {
	// Larger than a single read on most filesystems
	return bytes.Repeat([]byte("0123456789abcdef"), 64*1024)
}

func TestUnixLoader_Load(t *testing.T) {
	large := largeContents()
	root := setupResourceRoot(t, map[string][]byte{
		"index.html":   []byte("<html>Hello, World!</html>"),
		"css/site.css": []byte("body{}"),
		"empty.txt":    {},
		"big.bin":      large,
	})

	loader, err := NewUnixLoader(root)
	if err != nil {
		t.Fatalf("NewUnixLoader failed: %v", err)
	}

	res, err := loader.Load("css/site.css")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(res.Contents) != "body{}" || res.Extension != "css" {
		t.Errorf("Unexpected resource %+v", res)
	}

	res, err = loader.Load("empty.txt")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(res.Contents) != 0 {
		t.Errorf("Expected empty contents, got %d bytes", len(res.Contents))
	}

	res, err = loader.Load("big.bin")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(res.Contents, large) {
		t.Errorf("Large file mismatch: got %d bytes, want %d", len(res.Contents), len(large))
	}
}

func TestUnixLoader_Load_NotFound(t *testing.T) {
	root := setupResourceRoot(t, map[string][]byte{
		"css/site.css": []byte("body{}"),
	})

	loader, err := NewUnixLoader(root)
	if err != nil {
		t.Fatalf("NewUnixLoader failed: %v", err)
	}

	for _, name := range []string{"missing.html", "css", "css/site.css/x"} {
		t.Run(name, func(t *testing.T) {
			if _, err := loader.Load(name); !errors.IsResource(err, errors.ResourceErrorNotFound) {
				t.Errorf("Expected ResourceNotFound, got %v", err)
			}
		})
	}
}

func TestUnixLoader_BadRoot(t *testing.T) {
	if _, err := NewUnixLoader(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for missing root")
	}

	root := setupResourceRoot(t, map[string][]byte{"file": []byte("x")})
	if _, err := NewUnixLoader(filepath.Join(root, "file")); err == nil {
		t.Error("Expected error for non-directory root")
	}
}

func TestUringLoader_Load(t *testing.T) {
	large := largeContents()
	root := setupResourceRoot(t, map[string][]byte{
		"index.html": []byte("<html>Hello, World!</html>"),
		"big.bin":    large,
	})

	loader, err := NewUringLoader(root)
	if err != nil {
		if errors.IsTransport(err) {
			t.Skipf("io_uring unavailable: %v", err)
		}
		t.Fatalf("NewUringLoader failed: %v", err)
	}
	defer loader.Close()

	res, err := loader.Load("index.html")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(res.Contents) != "<html>Hello, World!</html>" {
		t.Errorf("Unexpected contents %q", res.Contents)
	}

	res, err = loader.Load("big.bin")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(res.Contents, large) {
		t.Errorf("Large file mismatch: got %d bytes, want %d", len(res.Contents), len(large))
	}

	if _, err := loader.Load("missing.txt"); !errors.IsResource(err, errors.ResourceErrorNotFound) {
		t.Errorf("Expected ResourceNotFound, got %v", err)
	}

	if err := loader.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if _, err := loader.Load("index.html"); !errors.IsResource(err, errors.ResourceErrorReadFailure) {
		t.Errorf("Expected load after close to fail, got %v", err)
	}
}
