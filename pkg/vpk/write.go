package vpk

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/dresswithpockets/dazzle-core/pkg/utils/permissions"
)

// sourceEntry is one file discovered while walking the source tree for
// Write, before it has been assigned to a chunk.
type sourceEntry struct {
	ext, dir, stem string
	sourcePath     string
	size           uint32
}

// writtenEntry is a sourceEntry after being placed into a chunk file.
type writtenEntry struct {
	ext, dir, stem string
	archiveIdx     uint16
	offset         uint32
	size           uint32
	crc            uint32
}

// Write builds a new multi-part VPK named vpkName under destDir from
// every regular file under sourceDir, per spec.md §4.8's C9 writer:
// chunk files are emitted sequentially, splitting whenever the next entry
// would exceed splitSize, followed by a directory index file carrying the
// header, the extension/directory/filename tree, an embedded "archive
// 000" chunk when everything fit in the first chunk, and the three
// trailing MD5 digests.
func Write(sourceDir, destDir, vpkName string, splitSize uint32, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	info, err := os.Stat(sourceDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return ErrSourceNotADir
	}
	if info, err := os.Stat(destDir); err != nil || !info.IsDir() {
		return ErrSourceNotADir
	}

	sources, err := collectSourceEntries(sourceDir)
	if err != nil {
		return err
	}
	logger.Debug("📂 discovered vpk source entries", "count", len(sources))

	written, archivePaths, lastIdx, err := writeChunks(sources, destDir, vpkName, splitSize)
	if err != nil {
		return err
	}

	dirPath := filepath.Join(destDir, vpkName+"_dir.vpk")
	if err := writeDirectoryIndex(written, archivePaths, lastIdx, dirPath); err != nil {
		return err
	}

	if lastIdx == 0 {
		// Everything fit in the first chunk: it has been embedded directly
		// into the directory file, so the standalone chunk file and the
		// "_dir" naming convention are both unnecessary.
		if err := os.Remove(archivePaths[0]); err != nil {
			return err
		}
		finalPath := filepath.Join(destDir, vpkName+".vpk")
		if err := os.Rename(dirPath, finalPath); err != nil {
			return err
		}
		logger.Info("✓ wrote single-file vpk", "path", finalPath, "entries", len(written))
		return nil
	}

	logger.Info("✓ wrote vpk", "path", dirPath, "chunks", lastIdx+1, "entries", len(written))
	return nil
}

func collectSourceEntries(sourceDir string) ([]sourceEntry, error) {
	var out []sourceEntry
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		dir := noDirOrExt
		if i := strings.LastIndexByte(rel, '/'); i >= 0 {
			dir = rel[:i]
			rel = rel[i+1:]
		}

		ext := noDirOrExt
		stem := rel
		if i := strings.LastIndexByte(rel, '.'); i >= 0 {
			ext = rel[i+1:]
			stem = rel[:i]
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		out = append(out, sourceEntry{
			ext:        ext,
			dir:        dir,
			stem:       stem,
			sourcePath: path,
			size:       uint32(info.Size()),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ext != out[j].ext {
			return out[i].ext < out[j].ext
		}
		if out[i].dir != out[j].dir {
			return out[i].dir < out[j].dir
		}
		return out[i].stem < out[j].stem
	})

	return out, nil
}

func writeChunks(sources []sourceEntry, destDir, vpkName string, splitSize uint32) ([]writtenEntry, []string, uint16, error) {
	var archivePaths []string
	archivePath := func(idx uint16) string {
		return filepath.Join(destDir, fmt.Sprintf("%s_%03d.vpk", vpkName, idx))
	}

	currentIdx := uint16(0)
	currentSize := uint32(0)
	path := archivePath(currentIdx)
	archivePaths = append(archivePaths, path)
	chunk, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(permissions.DefaultFilePerms))
	if err != nil {
		return nil, nil, 0, err
	}
	defer chunk.Close()

	written := make([]writtenEntry, 0, len(sources))
	for _, src := range sources {
		if currentSize > 0 && currentSize+src.size > splitSize {
			if err := chunk.Close(); err != nil {
				return nil, nil, 0, err
			}
			currentIdx++
			currentSize = 0
			path = archivePath(currentIdx)
			archivePaths = append(archivePaths, path)
			chunk, err = os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(permissions.DefaultFilePerms))
			if err != nil {
				return nil, nil, 0, err
			}
		}

		data, err := os.ReadFile(src.sourcePath)
		if err != nil {
			return nil, nil, 0, err
		}
		crc := crc32.ChecksumIEEE(data)
		if _, err := chunk.Write(data); err != nil {
			return nil, nil, 0, err
		}

		written = append(written, writtenEntry{
			ext: src.ext, dir: src.dir, stem: src.stem,
			archiveIdx: currentIdx, offset: currentSize, size: uint32(len(data)), crc: crc,
		})
		currentSize += uint32(len(data))
	}

	if err := chunk.Close(); err != nil {
		return nil, nil, 0, err
	}

	return written, archivePaths, currentIdx, nil
}

func writeDirectoryIndex(written []writtenEntry, archivePaths []string, lastIdx uint16, dirPath string) error {
	var tree bytes.Buffer

	byExt := make(map[string]map[string][]writtenEntry)
	var extOrder []string
	for _, e := range written {
		dirs, ok := byExt[e.ext]
		if !ok {
			dirs = make(map[string][]writtenEntry)
			byExt[e.ext] = dirs
			extOrder = append(extOrder, e.ext)
		}
		dirs[e.dir] = append(dirs[e.dir], e)
	}
	sort.Strings(extOrder)

	for _, ext := range extOrder {
		writeCStringBuf(&tree, ext)

		dirs := byExt[ext]
		var dirOrder []string
		for d := range dirs {
			dirOrder = append(dirOrder, d)
		}
		sort.Strings(dirOrder)

		for _, dir := range dirOrder {
			writeCStringBuf(&tree, dir)

			for _, e := range dirs[dir] {
				writeCStringBuf(&tree, e.stem)
				writeU32Buf(&tree, e.crc)
				writeU16Buf(&tree, 0) // preload length: this writer never emits preload data
				if lastIdx == 0 {
					writeU16Buf(&tree, embeddedArchiveIndex)
				} else {
					writeU16Buf(&tree, e.archiveIdx)
				}
				writeU32Buf(&tree, e.offset)
				writeU32Buf(&tree, e.size)
				writeU16Buf(&tree, terminator)
			}
			tree.WriteByte(0) // end of filenames in this directory
		}
		tree.WriteByte(0) // end of directories for this extension
	}
	tree.WriteByte(0) // end of tree

	var embedded []byte
	if lastIdx == 0 {
		data, err := os.ReadFile(archivePaths[0])
		if err != nil {
			return err
		}
		embedded = data
	}

	f, err := os.OpenFile(dirPath, os.O_CREATE|os.O_TRUNC|os.O_RDWR, os.FileMode(permissions.DefaultFilePerms))
	if err != nil {
		return err
	}
	defer f.Close()

	header := Header{
		Signature:             Signature,
		Version:               Version2,
		TreeSize:              uint32(tree.Len()),
		FileDataSectionSize:   uint32(len(embedded)),
		ArchiveMD5SectionSize: 0,
		OtherMD5SectionSize:   48,
		SignatureSectionSize:  0,
	}
	headerBuf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(headerBuf[0:4], header.Signature)
	binary.LittleEndian.PutUint32(headerBuf[4:8], header.Version)
	binary.LittleEndian.PutUint32(headerBuf[8:12], header.TreeSize)
	binary.LittleEndian.PutUint32(headerBuf[12:16], header.FileDataSectionSize)
	binary.LittleEndian.PutUint32(headerBuf[16:20], header.ArchiveMD5SectionSize)
	binary.LittleEndian.PutUint32(headerBuf[20:24], header.OtherMD5SectionSize)
	binary.LittleEndian.PutUint32(headerBuf[24:28], header.SignatureSectionSize)

	if _, err := f.Write(headerBuf); err != nil {
		return err
	}
	if _, err := f.Write(tree.Bytes()); err != nil {
		return err
	}
	if len(embedded) > 0 {
		if _, err := f.Write(embedded); err != nil {
			return err
		}
	}

	// chunk-hashes section is empty (ArchiveMD5SectionSize == 0): its
	// digest is simply the MD5 of zero bytes.
	chunkHashesDigest := md5.Sum(nil)
	treeDigest := md5.Sum(tree.Bytes())

	fileHasher := md5.New()
	fileHasher.Write(headerBuf)
	fileHasher.Write(treeDigest[:])
	fileHasher.Write(chunkHashesDigest[:])
	fileDigest := fileHasher.Sum(nil)

	if _, err := f.Write(treeDigest[:]); err != nil {
		return err
	}
	if _, err := f.Write(chunkHashesDigest[:]); err != nil {
		return err
	}
	if _, err := f.Write(fileDigest); err != nil {
		return err
	}

	return f.Sync()
}

func writeCStringBuf(b *bytes.Buffer, s string) {
	b.WriteString(s)
	b.WriteByte(0)
}

func writeU16Buf(b *bytes.Buffer, v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	b.Write(buf[:])
}

func writeU32Buf(b *bytes.Buffer, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	b.Write(buf[:])
}
