package utils

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

const (
	kilobyte = 1024
	megabyte = 1024 * 1024
)

// FormatFileSize converts a byte length into B, KB or MB with two decimals.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}
	if bytes < kilobyte {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < megabyte {
		return fmt.Sprintf("%.2f KB", float64(bytes)/kilobyte)
	}
	return fmt.Sprintf("%.2f MB", float64(bytes)/megabyte)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(value int) string {
	return humanize.Comma(int64(value))
}
