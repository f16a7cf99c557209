package cli

import (
	"errors"
	"fmt"

	"github.com/temirov/codemass/internal/pricing"
)

const (
	pathMissingFormat      = "Path %q does not exist"
	pathNotDirectoryFormat = "Path %q is not a directory"
	listModelsHint         = "Use --list-models to see available models"
)

// InvalidPathError reports a scan root that does not exist or is not a directory.
type InvalidPathError struct {
	Path         string
	NotDirectory bool
}

func (pathError *InvalidPathError) Error() string {
	if pathError.NotDirectory {
		return fmt.Sprintf(pathNotDirectoryFormat, pathError.Path)
	}
	return fmt.Sprintf(pathMissingFormat, pathError.Path)
}

// modelSelectionError adds the model listing hint to an unknown model error.
type modelSelectionError struct {
	err error
}

func (selectionError *modelSelectionError) Error() string {
	return selectionError.err.Error() + "\n" + listModelsHint
}

func (selectionError *modelSelectionError) Unwrap() error {
	return selectionError.err
}

func withModelHint(err error) error {
	var unknownModel *pricing.UnknownModelError
	if errors.As(err, &unknownModel) {
		return &modelSelectionError{err: err}
	}
	return err
}
