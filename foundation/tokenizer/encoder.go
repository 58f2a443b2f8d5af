package tokenizer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// reservedRE matches anything shaped like a special token.
var reservedRE = regexp2.MustCompile(`<\|.*?\|>`, regexp2.None)

// Encode converts text into a sequence of token ids.
//
// A nil allowedSpecial disables special-token handling entirely. A
// non-nil set turns it on: matched allowed tokens become single ids,
// and any special-token-shaped substring outside the allowed set fails
// the encode. An empty non-nil set therefore rejects every
// special-token-shaped substring in the text.
func (t *BPETokenizer) Encode(text string, allowedSpecial []string) ([]int, error) {
	if allowedSpecial == nil {
		return t.encodeText(text)
	}

	if len(allowedSpecial) == 0 {
		if err := t.checkDisallowed(text, nil); err != nil {
			return nil, err
		}
		return t.encodeText(text)
	}

	spans, err := matchSpecial(text, allowedSpecial)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(allowedSpecial))
	for _, token := range allowedSpecial {
		allowed[token] = true
	}

	var ids []int
	for _, span := range spans {
		if span.special {
			id, ok := t.vocab.idOf(span.text)
			if !ok {
				return nil, &SpecialTokenNotFoundError{Token: span.text}
			}
			ids = append(ids, id)
			continue
		}

		if err := t.checkDisallowed(span.text, allowed); err != nil {
			return nil, err
		}

		sub, err := t.encodeText(span.text)
		if err != nil {
			return nil, err
		}
		ids = append(ids, sub...)
	}

	return ids, nil
}

// =============================================================================

type span struct {
	text    string
	special bool
}

// matchSpecial cuts text into special-token matches and the plain spans
// between them. Longer tokens take precedence over shorter ones so a
// token that is a prefix of another can never shadow it.
func matchSpecial(text string, allowedSpecial []string) ([]span, error) {
	tokens := make([]string, len(allowedSpecial))
	copy(tokens, allowedSpecial)

	sort.SliceStable(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})

	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = regexp.QuoteMeta(token)
	}

	re, err := regexp2.Compile(strings.Join(quoted, "|"), regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile special token pattern: %w", err)
	}

	runes := []rune(text)
	var spans []span
	last := 0

	m, err := re.FindStringMatch(text)
	if err != nil {
		return nil, fmt.Errorf("match special tokens: %w", err)
	}

	for m != nil {
		if m.Index > last {
			spans = append(spans, span{text: string(runes[last:m.Index])})
		}
		spans = append(spans, span{text: m.String(), special: true})
		last = m.Index + m.Length

		m, err = re.FindNextMatch(m)
		if err != nil {
			return nil, fmt.Errorf("match special tokens: %w", err)
		}
	}

	spans = append(spans, span{text: string(runes[last:])})

	return spans, nil
}

// checkDisallowed fails when text holds a special-token-shaped
// substring outside the allowed set.
func (t *BPETokenizer) checkDisallowed(text string, allowed map[string]bool) error {
	var disallowed []string

	m, _ := reservedRE.FindStringMatch(text)
	for m != nil {
		if !allowed[m.String()] {
			disallowed = append(disallowed, m.String())
		}
		m, _ = reservedRE.FindNextMatch(m)
	}

	if len(disallowed) > 0 {
		return &DisallowedTokenError{Tokens: disallowed}
	}

	return nil
}

// =============================================================================

// encodeText runs the word split and merge lookup with special-token
// handling disabled.
func (t *BPETokenizer) encodeText(text string) ([]int, error) {
	var ids []int

	for _, unit := range splitWords(text) {
		if id, ok := t.vocab.idOf(unit); ok {
			ids = append(ids, id)
			continue
		}

		sub, err := t.applyMerges(unit)
		if err != nil {
			return nil, err
		}
		ids = append(ids, sub...)
	}

	return ids, nil
}

// splitWords cuts text into word-or-newline units. A newline between
// lines becomes its own unit. The first word of the first line is bare;
// every other word carries the marker for the single separator that
// preceded it. Exact whitespace width is discarded here, which is why
// decode cannot reproduce whitespace runs.
func splitWords(text string) []string {
	var units []string

	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			units = append(units, "\n")
		}

		for j, word := range strings.Fields(line) {
			if i == 0 && j == 0 {
				units = append(units, word)
				continue
			}
			units = append(units, markerString+word)
		}
	}

	return units
}

// applyMerges decomposes a unit into per-character ids and repeatedly
// sweeps left to right, rewriting any adjacent pair the merge table
// knows, until a full sweep makes no merge. The sweep applies whichever
// rule it reaches first, not the rule learned first; this matches the
// behavior existing saved vocabularies were produced against and must
// not be "fixed" to priority order.
func (t *BPETokenizer) applyMerges(unit string) ([]int, error) {
	var ids []int
	for _, r := range unit {
		id, ok := t.vocab.idOf(string(r))
		if !ok {
			return nil, &CharacterNotFoundError{Char: string(r)}
		}
		ids = append(ids, id)
	}

	merged := true
	for merged && len(ids) > 1 {
		merged = false
		next := make([]int, 0, len(ids))

		i := 0
		for i < len(ids)-1 {
			if newID, ok := t.merges.lookup(Pair{Left: ids[i], Right: ids[i+1]}); ok {
				next = append(next, newID)
				i += 2
				merged = true
				continue
			}

			next = append(next, ids[i])
			i++
		}

		if i < len(ids) {
			next = append(next, ids[i])
		}

		ids = next
	}

	return ids, nil
}
