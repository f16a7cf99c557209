// Package tokenizer counts subword tokens for text content.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters.
type Config struct {
	Encoding string
}

// DefaultEncodingName is the BPE encoding used for every pricing model.
const DefaultEncodingName = "o200k_base"

const errorInitializeEncodingFormat = "initialize %s tokenizer: %w"

// NewCounter returns a tiktoken-backed Counter for the configured encoding.
// It is constructed once per run and passed to the scanner explicitly.
func NewCounter(cfg Config) (Counter, error) {
	encodingName := strings.TrimSpace(cfg.Encoding)
	if encodingName == "" {
		encodingName = DefaultEncodingName
	}
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf(errorInitializeEncodingFormat, encodingName, err)
	}
	return tiktokenCounter{encoding: encoding, encodingName: encodingName}, nil
}
