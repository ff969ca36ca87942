package vpk

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// VerifyResult is the outcome of checking one entry's on-disk bytes
// against the CRC32 recorded for it in the directory index.
type VerifyResult struct {
	Path string
	Err  error
}

// Verify reads every entry's payload back off disk and recomputes its
// CRC32, reporting any mismatch. This is a read-only health check — it
// never rewrites the directory index (spec.md §4.8 notes the game itself
// does not appear to re-check this CRC at load time, so a mismatch here
// is a diagnostic, not necessarily a corrupt archive).
func (v *Vpk) Verify(logger hclog.Logger) []VerifyResult {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	logger.Info("verifying vpk entries", "count", len(v.Entries))

	var results []VerifyResult
	for path, entry := range v.Entries {
		if err := verifyEntry(v, entry); err != nil {
			results = append(results, VerifyResult{Path: path, Err: err})
			logger.Error("✗ entry failed verification", "path", path, "error", err)
			continue
		}
		logger.Debug("✓ entry checksum valid", "path", path)
	}

	if len(results) == 0 {
		logger.Info("✓ vpk verification passed")
	} else {
		logger.Error("✗ vpk verification failed", "failed_count", len(results))
	}

	return results
}

func verifyEntry(v *Vpk, entry *Entry) error {
	f, err := os.Open(entry.ArchivePath)
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

	h := crc32.NewIEEE()
	if _, err := io.CopyN(h, f, int64(entry.Dir.FileLength)); err != nil {
		return err
	}
	if sum := h.Sum32(); sum != entry.Dir.CRC32 {
		return fmt.Errorf("crc32 mismatch: directory says %08x, disk has %08x", entry.Dir.CRC32, sum)
	}
	return nil
}
