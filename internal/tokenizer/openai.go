package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

var errMissingEncoding = errors.New("tiktoken encoding is not initialized")

// tiktokenCounter counts BPE tokens with one tiktoken encoding. Special token
// text is encoded as ordinary text, so source files that mention
// "<|endoftext|>" are counted instead of rejected.
type tiktokenCounter struct {
	encoding     *tiktoken.Tiktoken
	encodingName string
}

// Name returns the encoding name, for example "o200k_base".
func (counter tiktokenCounter) Name() string {
	return counter.encodingName
}

// CountString returns the number of tokens in input. Empty input has none.
func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errMissingEncoding
	}
	if input == "" {
		return 0, nil
	}
	return len(counter.encoding.EncodeOrdinary(input)), nil
}
