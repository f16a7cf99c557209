package tokenizer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

const (
	unicodeReplacement = "\uFFFD"
	// warningTokenCountMessage is logged when a file cannot be read or tokenized.
	warningTokenCountMessage = "failed to count tokens"
)

// CountBytes counts the tokens of data decoded as UTF-8. Invalid sequences are
// replaced rather than rejected.
func CountBytes(counter Counter, data []byte) (int, error) {
	if counter == nil {
		return 0, errors.New("nil tokenizer counter")
	}
	return counter.CountString(strings.ToValidUTF8(string(data), unicodeReplacement))
}

// CountFile reads the file at path and counts its tokens.
func CountFile(counter Counter, path string) (int, error) {
	if counter == nil {
		return 0, errors.New("nil tokenizer counter")
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return 0, readErr
	}
	return CountBytes(counter, data)
}

// CountFileOrZero counts tokens of the file at path. Read and tokenizer
// failures, including panics raised by the encoder, are logged with
// displayPath and yield zero.
func CountFileOrZero(logger *zap.Logger, counter Counter, path string, displayPath string) (tokens int) {
	defer func() {
		if recovered := recover(); recovered != nil {
			reportCountFailure(logger, displayPath, fmt.Errorf("tokenizer panic: %v", recovered))
			tokens = 0
		}
	}()
	count, err := CountFile(counter, path)
	if err != nil {
		reportCountFailure(logger, displayPath, err)
		return 0
	}
	if count < 0 {
		return 0
	}
	return count
}

func reportCountFailure(logger *zap.Logger, displayPath string, err error) {
	if logger == nil {
		return
	}
	logger.Warn(warningTokenCountMessage, zap.String("path", displayPath), zap.Error(err))
}
