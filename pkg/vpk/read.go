package vpk

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

func readCString(r *bufio.Reader) (string, error) {
	b, err := r.ReadBytes(0)
	if err != nil {
		return "", ErrTruncated
	}
	return string(b[:len(b)-1]), nil
}

func readU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ErrTruncated
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ErrTruncated
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// archivePathFor resolves the on-disk path of numbered archive `idx` given
// the directory index's own path, following Valve's own "<name>_dir.vpk" /
// "<name>_NNN.vpk" naming convention.
func archivePathFor(dirPath string, idx uint16) string {
	base := strings.TrimSuffix(dirPath, "_dir.vpk")
	if base == dirPath {
		// Not named the conventional way; fall back to suffixing as-is.
		base = strings.TrimSuffix(dirPath, ".vpk")
	}
	return fmt.Sprintf("%s_%03d.vpk", base, idx)
}

// Read decodes a VPK directory index at dirPath: its header and every
// entry in its extension/directory/filename tree, per spec.md §4.8.
// logger may be nil.
func Read(dirPath string, logger hclog.Logger) (*Vpk, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	f, err := os.Open(dirPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	hdr, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	logger.Trace("📖 read vpk header", "tree_size", hdr.TreeSize, "embed_chunk_size", hdr.FileDataSectionSize)

	entries := make(map[string]*Entry)
	for {
		ext, err := readCString(r)
		if err != nil {
			return nil, err
		}
		if ext == "" {
			break
		}

		for {
			dir, err := readCString(r)
			if err != nil {
				return nil, err
			}
			if dir == "" {
				break
			}

			for {
				stem, err := readCString(r)
				if err != nil {
					return nil, err
				}
				if stem == "" {
					break
				}

				de, preload, err := readDirEntry(r)
				if err != nil {
					return nil, err
				}
				if preload > 0 {
					if _, err := io.CopyN(io.Discard, r, int64(preload)); err != nil {
						return nil, ErrTruncated
					}
				}

				path := joinLogicalPath(ext, dir, stem)
				archivePath := dirPath
				if de.ArchiveIndex != embeddedArchiveIndex {
					archivePath = archivePathFor(dirPath, de.ArchiveIndex)
				}
				entries[path] = &Entry{Path: path, Dir: de, ArchivePath: archivePath}
			}
		}
	}
	logger.Debug("📦 decoded vpk directory", "entries", len(entries))

	return &Vpk{
		DirPath:  dirPath,
		Header:   hdr,
		Entries:  entries,
		embedOff: int64(headerSize) + int64(hdr.TreeSize),
	}, nil
}

func readHeader(r io.Reader) (Header, error) {
	var h Header
	var err error
	if h.Signature, err = readU32(r); err != nil {
		return h, err
	}
	if h.Signature != Signature {
		return h, ErrUnknownSignature
	}
	if h.Version, err = readU32(r); err != nil {
		return h, err
	}
	if h.Version != Version2 {
		return h, ErrUnsupportedVersion
	}
	if h.TreeSize, err = readU32(r); err != nil {
		return h, err
	}
	if h.FileDataSectionSize, err = readU32(r); err != nil {
		return h, err
	}
	if h.ArchiveMD5SectionSize, err = readU32(r); err != nil {
		return h, err
	}
	if h.OtherMD5SectionSize, err = readU32(r); err != nil {
		return h, err
	}
	if h.SignatureSectionSize, err = readU32(r); err != nil {
		return h, err
	}
	return h, nil
}

func readDirEntry(r *bufio.Reader) (DirEntry, uint16, error) {
	var e DirEntry
	var err error
	if e.CRC32, err = readU32(r); err != nil {
		return e, 0, err
	}
	preload, err := readU16(r)
	if err != nil {
		return e, 0, err
	}
	e.PreloadLength = preload
	if e.ArchiveIndex, err = readU16(r); err != nil {
		return e, 0, err
	}
	if e.ArchiveOffset, err = readU32(r); err != nil {
		return e, 0, err
	}
	if e.FileLength, err = readU32(r); err != nil {
		return e, 0, err
	}
	term, err := readU16(r)
	if err != nil {
		return e, 0, err
	}
	if term != terminator {
		return e, 0, ErrTruncated
	}
	return e, preload, nil
}
