// Package preflight checks the filesystem state an export depends on: the
// destination directory must be writable and hold enough free space for the
// clips.
package preflight
