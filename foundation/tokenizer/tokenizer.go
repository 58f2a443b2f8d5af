// Package tokenizer provides a byte-level byte-pair-encoding (BPE)
// tokenizer. It learns a fixed-size subword vocabulary from a training
// corpus and converts text to and from sequences of integer token ids
// using that vocabulary.
package tokenizer

import (
	"context"
	"fmt"
	"log"
)

// marker is the sentinel rune that stands for "the previous character
// was a space". It lives outside the 0-255 seed range so whitespace
// never needs a literal token.
const marker = 'Ġ'

const markerString = string(marker)

// =============================================================================

type Logger func(context.Context, string, ...any)

var NoopLogger = func(ctx context.Context, msg string, v ...any) {}

var StdoutLogger = func(ctx context.Context, msg string, v ...any) {
	s := fmt.Sprintf("msg: %s", msg)
	for i := 0; i < len(v); i = i + 2 {
		s = s + fmt.Sprintf(", %s: %v", v[i], v[i+1])
	}
	log.Println(s)
}

// =============================================================================

// BPETokenizer owns a vocabulary and a merge table. Train populates
// both; Encode and Decode treat them as immutable, so any number of
// concurrent Encode/Decode calls are safe as long as no Train or Load
// runs against the same instance at the same time.
type BPETokenizer struct {
	log    Logger
	vocab  *vocabulary
	merges *mergeTable
}

// New constructs a tokenizer with an empty vocabulary. Call Train or
// Load before encoding or decoding.
func New(options ...func(t *BPETokenizer)) *BPETokenizer {
	t := BPETokenizer{
		log:    NoopLogger,
		vocab:  newVocabulary(),
		merges: newMergeTable(),
	}

	for _, option := range options {
		option(&t)
	}

	return &t
}

// WithLogger sets a logger for training progress.
func WithLogger(log Logger) func(t *BPETokenizer) {
	return func(t *BPETokenizer) {
		t.log = log
	}
}

// =============================================================================

// VocabSize returns the number of symbols in the vocabulary.
func (t *BPETokenizer) VocabSize() int {
	return t.vocab.size()
}

// MergeCount returns the number of learned merge rules.
func (t *BPETokenizer) MergeCount() int {
	return t.merges.count()
}

// SymbolOf returns the symbol a token id denotes.
func (t *BPETokenizer) SymbolOf(id int) (string, error) {
	symbol, ok := t.vocab.symbolOf(id)
	if !ok {
		return "", &TokenIDNotFoundError{ID: id}
	}

	return symbol, nil
}

// IDOf returns the token id assigned to a symbol.
func (t *BPETokenizer) IDOf(symbol string) (int, error) {
	id, ok := t.vocab.idOf(symbol)
	if !ok {
		return 0, &SymbolNotFoundError{Symbol: symbol}
	}

	return id, nil
}
