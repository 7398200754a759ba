package audit

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashFileS1(t *testing.T) {
	dir := t.TempDir()

	helloPath := filepath.Join(dir, "hello")
	if err := os.WriteFile(helloPath, []byte("hello world"), 0o755); err != nil {
		t.Fatal(err)
	}
	sum, size, err := hashFile(helloPath)
	if err != nil {
		t.Fatal(err)
	}
	if size != int64(len("hello world")) {
		t.Fatalf("size = %d, want %d", size, len("hello world"))
	}
	const wantHello = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde"
	if sum != wantHello {
		t.Fatalf("hash = %s, want %s", sum, wantHello)
	}

	emptyPath := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyPath, []byte{}, 0o755); err != nil {
		t.Fatal(err)
	}
	sum, _, err = hashFile(emptyPath)
	if err != nil {
		t.Fatal(err)
	}
	const wantEmpty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if sum != wantEmpty {
		t.Fatalf("hash = %s, want %s", sum, wantEmpty)
	}
}

func TestDiscoverBinariesRejectsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data.txt"), []byte("not a program"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tool"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := DiscoverBinaries(t.Context(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].Path != filepath.Join(dir, "tool") {
		t.Fatalf("expected only the executable file to be discovered, got %+v", found)
	}
}

func TestDiscoverBinariesOneLevelDeep(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "deep-tool"), []byte("x"), 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := DiscoverBinaries(t.Context(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 0 {
		t.Fatalf("expected nested file to be skipped (one level deep only), got %+v", found)
	}
}
