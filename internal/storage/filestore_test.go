package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveBlobWritesUniqueFile(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	first, err := store.SaveBlob(context.Background(), "infographic", "png", []byte("a"))
	if err != nil {
		t.Fatalf("SaveBlob: %v", err)
	}
	second, err := store.SaveBlob(context.Background(), "infographic", "png", []byte("b"))
	if err != nil {
		t.Fatalf("SaveBlob: %v", err)
	}
	if first == second {
		t.Fatalf("blob names collided: %q", first)
	}
	if !strings.HasPrefix(first, PublicPrefix+"/infographic_") || !strings.HasSuffix(first, ".png") {
		t.Fatalf("public path = %q", first)
	}

	onDisk := filepath.Join(store.BasePath(), strings.TrimPrefix(first, PublicPrefix+"/"))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if string(data) != "a" {
		t.Fatalf("blob content = %q", data)
	}
}

func TestSaveBlobDefaults(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	path, err := store.SaveBlob(context.Background(), "  ", " .PNG ", []byte("x"))
	if err != nil {
		t.Fatalf("SaveBlob: %v", err)
	}
	if !strings.HasPrefix(path, PublicPrefix+"/asset_") {
		t.Fatalf("path = %q, want asset prefix", path)
	}
}

func TestWriteRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Write(context.Background(), "../escape.txt", []byte("x")); err == nil {
		t.Fatal("traversal key accepted")
	}
	if _, err := store.Write(context.Background(), "", []byte("x")); err == nil {
		t.Fatal("empty key accepted")
	}
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore("  "); err == nil {
		t.Fatal("empty base path accepted")
	}
}
