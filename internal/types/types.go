// Package types defines the data structures shared across codemass packages.
package types

// FileRecord describes one included file. Path is relative to the scan root
// and always uses forward slashes.
type FileRecord struct {
	Path      string
	Tokens    int
	SizeBytes int64
}

// ValidatedPath is an absolute scan root that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	DisplayPath  string
}
