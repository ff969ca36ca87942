// Package permissions provides the default file permissions this module's
// writers open their output files with.
package permissions

// DefaultFilePerms is the mode new VPK chunk and directory-index files are
// opened with (read/write for owner only).
const DefaultFilePerms = 0o600
