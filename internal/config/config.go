// Package config loads the project ignore file and the codemass configuration files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/codemass/internal/utils"
)

const readIgnoreFileErrorFormat = "read %s from %s: %w"

// LoadIgnoreFileContent returns the contents of the ignore file at the root of
// rootDirectoryPath. A missing ignore file yields an empty string and no error.
//
// #nosec G304
func LoadIgnoreFileContent(rootDirectoryPath string) (string, error) {
	ignoreFilePath := filepath.Join(rootDirectoryPath, utils.GitIgnoreFileName)
	content, readError := os.ReadFile(ignoreFilePath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf(readIgnoreFileErrorFormat, utils.GitIgnoreFileName, rootDirectoryPath, readError)
	}
	return string(content), nil
}
