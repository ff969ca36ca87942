package vpk

import "strings"

// splitLogicalPath decomposes a forward-slash logical path such as
// "particles/explosion.pcf" into the (extension, directory, filename
// stem) triple the directory tree is bucketed by. A path with no
// directory component or no extension uses the literal " " placeholder,
// matching Valve's own tooling.
func splitLogicalPath(path string) (ext, dir, stem string) {
	slash := strings.LastIndexByte(path, '/')
	dir = noDirOrExt
	rest := path
	if slash >= 0 {
		dir = path[:slash]
		rest = path[slash+1:]
	}

	dot := strings.LastIndexByte(rest, '.')
	ext = noDirOrExt
	stem = rest
	if dot >= 0 {
		ext = rest[dot+1:]
		stem = rest[:dot]
	}

	return ext, dir, stem
}

// joinLogicalPath is the inverse of splitLogicalPath.
func joinLogicalPath(ext, dir, stem string) string {
	var b strings.Builder
	if dir != "" && dir != noDirOrExt {
		b.WriteString(dir)
		b.WriteByte('/')
	}
	b.WriteString(stem)
	if ext != "" && ext != noDirOrExt {
		b.WriteByte('.')
		b.WriteString(ext)
	}
	return b.String()
}
