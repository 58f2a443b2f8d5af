package tokenizer

import "strings"

// Decode reassembles a token-id sequence into text. This is the exact
// inverse of the encoder's whitespace policy: round-trips hold for
// single-space-separated words and single newlines, not for arbitrary
// whitespace runs.
func (t *BPETokenizer) Decode(ids []int) (string, error) {
	var sb strings.Builder
	var last byte

	for _, id := range ids {
		symbol, ok := t.vocab.symbolOf(id)
		if !ok {
			return "", &TokenIDNotFoundError{ID: id}
		}

		switch {
		case symbol == "\n":
			if sb.Len() > 0 && last != ' ' {
				sb.WriteByte(' ')
			}
			sb.WriteString(symbol)
			last = '\n'

		case strings.HasPrefix(symbol, markerString):
			rest := symbol[len(markerString):]
			sb.WriteByte(' ')
			sb.WriteString(rest)
			last = ' '
			if rest != "" {
				last = rest[len(rest)-1]
			}

		default:
			sb.WriteString(symbol)
			last = symbol[len(symbol)-1]
		}
	}

	return sb.String(), nil
}
