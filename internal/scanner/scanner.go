// Package scanner walks a directory tree and collects token counts for every
// included text file.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/codemass/internal/config"
	"github.com/temirov/codemass/internal/exclusion"
	"github.com/temirov/codemass/internal/ignore"
	"github.com/temirov/codemass/internal/tokenizer"
	"github.com/temirov/codemass/internal/types"
	"github.com/temirov/codemass/internal/utils"
)

const (
	errorAbsolutePathFormat  = "getting absolute path for %s: %w"
	errorLoadIgnoreRules     = "loading ignore rules: %w"
	errorNilCounter          = "scanner requires a token counter"
	permissionDeniedFormat   = "Permission denied accessing %s"
	readDirectoryErrorFormat = "reading directory %s: %v"
	warningBrokenSymlink     = "skipping broken symbolic link"
	warningStatFile          = "unable to stat file"
	debugSymlinkedDirectory  = "not following symbolic link to directory"
	debugIgnoreRules         = "compiled ignore rules"
	logFieldPath             = "path"
	logFieldRules            = "rules"
)

// ListDirectoryError reports a directory that could not be listed. It aborts
// the whole scan.
type ListDirectoryError struct {
	RelativePath string
	Err          error
}

func (listError *ListDirectoryError) Error() string {
	if listError.IsPermission() {
		return fmt.Sprintf(permissionDeniedFormat, listError.RelativePath)
	}
	return fmt.Sprintf(readDirectoryErrorFormat, listError.RelativePath, listError.Err)
}

func (listError *ListDirectoryError) Unwrap() error {
	return listError.Err
}

// IsPermission reports whether the listing failed because access was denied.
func (listError *ListDirectoryError) IsPermission() bool {
	return errors.Is(listError.Err, fs.ErrPermission)
}

// Options configures a TreeScanner. DisplayRoot names the root in errors about
// the root itself and defaults to Root.
type Options struct {
	Root        string
	DisplayRoot string
	Rules       *ignore.RuleSet
	Exclusions  exclusion.Config
	Counter     tokenizer.Counter
	Logger      *zap.Logger
}

// TreeScanner walks Root depth first. The rule set and exclusion policy are
// shared read-only by every level of the walk.
type TreeScanner struct {
	root        string
	displayRoot string
	rules       *ignore.RuleSet
	exclusions  exclusion.Config
	counter     tokenizer.Counter
	logger      *zap.Logger
}

// New returns a TreeScanner for options. When Rules is nil the ignore rules
// are compiled from the base rules and the root ignore file on the first scan.
func New(options Options) *TreeScanner {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	displayRoot := options.DisplayRoot
	if displayRoot == "" {
		displayRoot = options.Root
	}
	return &TreeScanner{
		root:        options.Root,
		displayRoot: displayRoot,
		rules:       options.Rules,
		exclusions:  options.Exclusions,
		counter:     options.Counter,
		logger:      logger,
	}
}

// Scan walks the tree and returns one record per included file with a
// positive token count. Any directory listing failure aborts the scan with a
// *ListDirectoryError and no partial result.
func (treeScanner *TreeScanner) Scan() ([]types.FileRecord, error) {
	if treeScanner.counter == nil {
		return nil, errors.New(errorNilCounter)
	}
	absoluteRoot, absoluteError := filepath.Abs(treeScanner.root)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, treeScanner.root, absoluteError)
	}
	rootEntries, readRootError := os.ReadDir(absoluteRoot)
	if readRootError != nil {
		return nil, treeScanner.listDirectoryError(absoluteRoot, absoluteRoot, readRootError)
	}
	if treeScanner.rules == nil {
		ignoreFileContent, loadError := config.LoadIgnoreFileContent(absoluteRoot)
		if loadError != nil {
			return nil, fmt.Errorf(errorLoadIgnoreRules, loadError)
		}
		treeScanner.rules = ignore.Compile(ignore.BaseRules, ignoreFileContent)
	}
	treeScanner.logger.Debug(debugIgnoreRules, zap.Strings(logFieldRules, treeScanner.rules.Rules()))
	return treeScanner.scanEntries(absoluteRoot, absoluteRoot, rootEntries)
}

func (treeScanner *TreeScanner) scanDirectory(currentDirectoryPath string, rootDirectoryPath string) ([]types.FileRecord, error) {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		return nil, treeScanner.listDirectoryError(currentDirectoryPath, rootDirectoryPath, readDirectoryError)
	}
	return treeScanner.scanEntries(currentDirectoryPath, rootDirectoryPath, directoryEntries)
}

// listDirectoryError names the root by its display path and every other
// directory by its path relative to the root.
func (treeScanner *TreeScanner) listDirectoryError(directoryPath string, rootDirectoryPath string, err error) *ListDirectoryError {
	relativePath := utils.RelativeSlashPath(directoryPath, rootDirectoryPath)
	if relativePath == "." {
		relativePath = treeScanner.displayRoot
	}
	return &ListDirectoryError{RelativePath: relativePath, Err: err}
}

func (treeScanner *TreeScanner) scanEntries(currentDirectoryPath string, rootDirectoryPath string, directoryEntries []fs.DirEntry) ([]types.FileRecord, error) {
	var records []types.FileRecord
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		relativeChildPath := utils.RelativeSlashPath(childPath, rootDirectoryPath)
		if treeScanner.rules.Matches(relativeChildPath, directoryEntry.IsDir()) {
			continue
		}

		if directoryEntry.IsDir() {
			childRecords, scanError := treeScanner.scanDirectory(childPath, rootDirectoryPath)
			if scanError != nil {
				return nil, scanError
			}
			records = append(records, childRecords...)
			continue
		}

		fileInfo, included := treeScanner.resolveFile(directoryEntry, childPath, relativeChildPath)
		if !included {
			continue
		}
		if record, counted := treeScanner.inspectFile(childPath, relativeChildPath, fileInfo); counted {
			records = append(records, record)
		}
	}
	return records, nil
}

// resolveFile returns the file information used for sizing. Symbolic links are
// resolved; links to directories and broken links are skipped.
func (treeScanner *TreeScanner) resolveFile(directoryEntry fs.DirEntry, childPath string, relativeChildPath string) (fs.FileInfo, bool) {
	if directoryEntry.Type()&fs.ModeSymlink != 0 {
		targetInfo, statError := os.Stat(childPath)
		if statError != nil {
			treeScanner.logger.Warn(warningBrokenSymlink, zap.String(logFieldPath, relativeChildPath), zap.Error(statError))
			return nil, false
		}
		if targetInfo.IsDir() {
			treeScanner.logger.Debug(debugSymlinkedDirectory, zap.String(logFieldPath, relativeChildPath))
			return nil, false
		}
		return targetInfo, true
	}
	entryInfo, infoError := directoryEntry.Info()
	if infoError != nil {
		treeScanner.logger.Warn(warningStatFile, zap.String(logFieldPath, relativeChildPath), zap.Error(infoError))
		return nil, false
	}
	return entryInfo, true
}

func (treeScanner *TreeScanner) inspectFile(childPath string, relativeChildPath string, fileInfo fs.FileInfo) (types.FileRecord, bool) {
	lowerName := strings.ToLower(filepath.Base(childPath))
	lowerExtension := utils.FileExtension(lowerName)
	if treeScanner.exclusions.IsExcluded(lowerName, lowerExtension) {
		return types.FileRecord{}, false
	}
	if utils.IsFileBinary(childPath) {
		return types.FileRecord{}, false
	}
	tokenCount := tokenizer.CountFileOrZero(treeScanner.logger, treeScanner.counter, childPath, relativeChildPath)
	if tokenCount <= 0 {
		return types.FileRecord{}, false
	}
	return types.FileRecord{Path: relativeChildPath, Tokens: tokenCount, SizeBytes: fileInfo.Size()}, true
}
