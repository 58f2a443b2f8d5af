package tokenizer

import "fmt"

// CharacterNotFoundError reports a character in the input text that has
// no vocabulary entry.
type CharacterNotFoundError struct {
	Char string
}

func (e *CharacterNotFoundError) Error() string {
	return fmt.Sprintf("character not found in vocabulary: %q", e.Char)
}

// TokenIDNotFoundError reports a token id with no vocabulary entry.
type TokenIDNotFoundError struct {
	ID int
}

func (e *TokenIDNotFoundError) Error() string {
	return fmt.Sprintf("token id not found in vocabulary: %d", e.ID)
}

// SymbolNotFoundError reports a symbol with no vocabulary entry.
type SymbolNotFoundError struct {
	Symbol string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("symbol not found in vocabulary: %q", e.Symbol)
}

// SpecialTokenNotFoundError reports an allowed special token that was
// matched in the text but never registered in the vocabulary.
type SpecialTokenNotFoundError struct {
	Token string
}

func (e *SpecialTokenNotFoundError) Error() string {
	return fmt.Sprintf("special token not found in vocabulary: %q", e.Token)
}

// DisallowedTokenError reports special-token-shaped substrings in the
// text that are not part of the caller's allowed set.
type DisallowedTokenError struct {
	Tokens []string
}

func (e *DisallowedTokenError) Error() string {
	return fmt.Sprintf("disallowed special tokens encountered in text: %q", e.Tokens)
}

// InvalidModeError reports an unsupported pair-frequency selection mode.
type InvalidModeError struct {
	Mode Mode
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid mode %q: choose %q or %q", e.Mode, ModeMost, ModeLeast)
}
