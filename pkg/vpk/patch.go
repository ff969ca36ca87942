package vpk

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Patch overwrites the bytes of an existing entry in place, per spec.md
// §4.8: the entry must have no preload data, size must not exceed the
// entry's on-disk length, and if size is smaller the remainder is
// zero-padded up to the original length. The directory index itself —
// including the entry's recorded CRC32 — is never rewritten; see
// spec.md §9's open question on CRC staleness.
func (v *Vpk) Patch(logicalPath string, size int64, r io.Reader) error {
	return v.PatchWithLogger(logicalPath, size, r, nil)
}

// PatchWithLogger is Patch with an explicit logger (nil-safe).
func (v *Vpk) PatchWithLogger(logicalPath string, size int64, r io.Reader, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	entry, ok := v.Entries[logicalPath]
	if !ok {
		return ErrNotFound
	}
	if entry.Dir.PreloadLength > 0 {
		return ErrHasPreloadData
	}

	fileLen := int64(entry.Dir.FileLength)
	if size > fileLen {
		return ErrInputTooBig
	}

	f, err := os.OpenFile(entry.ArchivePath, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	offset := int64(entry.Dir.ArchiveOffset)
	if entry.Embedded() {
		offset += v.embedOff
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	copied, err := io.CopyN(f, r, size)
	if err != nil && err != io.EOF {
		return err
	}
	if copied != size {
		return io.ErrShortWrite
	}

	if pad := fileLen - size; pad > 0 {
		zeros := make([]byte, pad)
		if _, err := f.Write(zeros); err != nil {
			return err
		}
	}

	logger.Info("✓ patched vpk entry", "path", logicalPath, "bytes", size)
	return nil
}
