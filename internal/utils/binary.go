package utils

import (
	"bytes"
	"io"
	"os"
)

// sniffLength defines the maximum number of bytes read when detecting binary content.
const sniffLength = 8000

// IsBinary reports whether the provided byte slice contains a null byte within
// its first sniffLength bytes.
func IsBinary(data []byte) bool {
	if len(data) > sniffLength {
		data = data[:sniffLength]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// IsFileBinary reads up to sniffLength bytes from the file at path and reports
// whether it appears to be binary. Files that cannot be opened or read, and
// anything that is not a regular file, are reported as binary so callers skip them.
func IsFileBinary(path string) bool {
	fileInfo, statError := os.Stat(path)
	if statError != nil || !fileInfo.Mode().IsRegular() {
		return true
	}

	fileHandle, openError := os.Open(path)
	if openError != nil {
		return true
	}
	defer fileHandle.Close()

	buffer := make([]byte, sniffLength)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && readError != io.EOF && readError != io.ErrUnexpectedEOF {
		return true
	}
	return IsBinary(buffer[:bytesRead])
}
