package vpk

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeSourceFile(t *testing.T, dir, rel string, content []byte) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func buildSampleVpk(t *testing.T, splitSize uint32) (destDir string, first, second []byte) {
	t.Helper()
	srcDir := t.TempDir()
	destDir = t.TempDir()

	first = bytes.Repeat([]byte("A"), 64)
	second = bytes.Repeat([]byte("B"), 64)
	writeSourceFile(t, srcDir, "particles/explosion.pcf", first)
	writeSourceFile(t, srcDir, "particles/beam.pcf", second)

	if err := Write(srcDir, destDir, "sample", splitSize, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return destDir, first, second
}

// TestWriteReadRoundTripSingleChunk covers the embedded-chunk special case
// (everything fits in chunk 0, so the writer renames straight to
// "<name>.vpk" instead of keeping a separate "_dir"/"_000" pair).
func TestWriteReadRoundTripSingleChunk(t *testing.T) {
	destDir, first, second := buildSampleVpk(t, 4096)

	finalPath := filepath.Join(destDir, "sample.vpk")
	if _, err := os.Stat(finalPath); err != nil {
		t.Fatalf("expected a single-file vpk at %s: %v", finalPath, err)
	}

	v, err := Read(finalPath, nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	beam, ok := v.Get("particles/beam.pcf")
	if !ok {
		t.Fatal("particles/beam.pcf not found")
	}
	if !beam.Embedded() {
		t.Error("expected beam.pcf to live in the embedded chunk")
	}
	if int(beam.Dir.FileLength) != len(second) {
		t.Errorf("beam.pcf file length = %d, want %d", beam.Dir.FileLength, len(second))
	}

	explosion, ok := v.Get("particles/explosion.pcf")
	if !ok {
		t.Fatal("particles/explosion.pcf not found")
	}
	if int(explosion.Dir.FileLength) != len(first) {
		t.Errorf("explosion.pcf file length = %d, want %d", explosion.Dir.FileLength, len(first))
	}
}

// TestWriteReadRoundTripMultiChunk forces a chunk split via a tiny
// splitSize, then confirms entries resolve to distinct archive files.
func TestWriteReadRoundTripMultiChunk(t *testing.T) {
	destDir, _, _ := buildSampleVpk(t, 32)

	dirPath := filepath.Join(destDir, "sample_dir.vpk")
	v, err := Read(dirPath, nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	explosion, ok := v.Get("particles/explosion.pcf")
	if !ok {
		t.Fatal("particles/explosion.pcf not found")
	}
	beam, ok := v.Get("particles/beam.pcf")
	if !ok {
		t.Fatal("particles/beam.pcf not found")
	}
	if explosion.Embedded() || beam.Embedded() {
		t.Error("expected both entries to live in standalone chunk files, not embedded")
	}
	if explosion.ArchivePath == beam.ArchivePath {
		t.Error("expected entries to land in different chunk files given the tiny splitSize")
	}
}

// TestPatchOverwritesInPlace is spec.md §8 S9/S6: patching with fewer bytes
// than the entry's original length zero-pads the remainder, and
// re-reading the same logical path yields the new bytes plus padding. The
// directory index itself is untouched.
func TestPatchOverwritesInPlace(t *testing.T) {
	destDir, _, _ := buildSampleVpk(t, 32)
	dirPath := filepath.Join(destDir, "sample_dir.vpk")

	dirBefore, err := os.ReadFile(dirPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	v, err := Read(dirPath, nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	newData := bytes.Repeat([]byte("Z"), 40)
	if err := v.Patch("particles/explosion.pcf", int64(len(newData)), bytes.NewReader(newData)); err != nil {
		t.Fatalf("Patch: %v", err)
	}

	entry, _ := v.Get("particles/explosion.pcf")
	raw, err := os.ReadFile(entry.ArchivePath)
	if err != nil {
		t.Fatalf("ReadFile archive: %v", err)
	}
	off := entry.Dir.ArchiveOffset
	got := raw[off : off+entry.Dir.FileLength]

	want := append(append([]byte{}, newData...), make([]byte, int(entry.Dir.FileLength)-len(newData))...)
	if !bytes.Equal(got, want) {
		t.Errorf("patched bytes = %x, want %x", got, want)
	}

	dirAfter, err := os.ReadFile(dirPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(dirBefore, dirAfter) {
		t.Error("directory index file was modified by Patch")
	}
}

// TestPatchInputTooBig is spec.md §8 S10.
func TestPatchInputTooBig(t *testing.T) {
	destDir, _, _ := buildSampleVpk(t, 32)
	dirPath := filepath.Join(destDir, "sample_dir.vpk")

	v, err := Read(dirPath, nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	entry, _ := v.Get("particles/explosion.pcf")
	before, err := os.ReadFile(entry.ArchivePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	tooBig := bytes.Repeat([]byte("Q"), int(entry.Dir.FileLength)+16)
	if err := v.Patch("particles/explosion.pcf", int64(len(tooBig)), bytes.NewReader(tooBig)); err != ErrInputTooBig {
		t.Fatalf("expected ErrInputTooBig, got %v", err)
	}

	after, err := os.ReadFile(entry.ArchivePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("archive was modified despite InputTooBig")
	}
}

func TestPatchNotFound(t *testing.T) {
	destDir, _, _ := buildSampleVpk(t, 4096)
	v, err := Read(filepath.Join(destDir, "sample.vpk"), nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if err := v.Patch("particles/missing.pcf", 1, bytes.NewReader([]byte("x"))); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
