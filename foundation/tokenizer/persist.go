package tokenizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// mergeRecord is the wire form of one merge rule.
type mergeRecord struct {
	Pair  []int `json:"pair"`
	NewID int   `json:"new_id"`
}

// Save serializes the vocabulary and the merge table to two JSON
// files: an id to symbol object with ascending ids, and a list of
// merge records in discovery order.
func (t *BPETokenizer) Save(vocabPath string, mergesPath string) error {
	vocab, err := t.encodeVocab()
	if err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}

	merges, err := t.encodeMerges()
	if err != nil {
		return fmt.Errorf("encode merges: %w", err)
	}

	if err := writeFile(vocabPath, vocab); err != nil {
		return fmt.Errorf("write vocabulary file: %w", err)
	}

	if err := writeFile(mergesPath, merges); err != nil {
		return fmt.Errorf("write merges file: %w", err)
	}

	return nil
}

// Load replaces the tokenizer state with the contents of the two
// files. Invariants are not re-validated here: a corrupted file shows
// up as a not-found error on first use, never as silent substitution.
func (t *BPETokenizer) Load(vocabPath string, mergesPath string) error {
	vocab, err := loadVocab(vocabPath)
	if err != nil {
		return err
	}

	merges, err := loadMerges(mergesPath)
	if err != nil {
		return err
	}

	t.vocab = vocab
	t.merges = merges

	return nil
}

// =============================================================================

// encodeVocab writes the id to symbol object by hand so keys come out
// in ascending numeric order; a map marshal would sort them as strings.
func (t *BPETokenizer) encodeVocab() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")

	first := true
	for id := 0; id < t.vocab.size(); id++ {
		symbol, ok := t.vocab.symbolOf(id)
		if !ok {
			continue
		}

		text, err := jsonText(symbol)
		if err != nil {
			return nil, err
		}

		if !first {
			buf.WriteString(",")
		}
		first = false
		buf.WriteString("\n    ")
		buf.WriteString(strconv.Quote(strconv.Itoa(id)))
		buf.WriteString(": ")
		buf.Write(text)
	}

	buf.WriteString("\n}")

	return buf.Bytes(), nil
}

func (t *BPETokenizer) encodeMerges() ([]byte, error) {
	records := make([]mergeRecord, 0, t.merges.count())
	for _, rule := range t.merges.rules {
		records = append(records, mergeRecord{
			Pair:  []int{rule.pair.Left, rule.pair.Right},
			NewID: rule.newID,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")

	if err := enc.Encode(records); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// jsonText marshals a value without the HTML escaping that would mangle
// special tokens like <|endoftext|>.
func jsonText(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// writeFile lands data in a uniquely named temp file next to the
// target and renames it into place, so a failed write never leaves a
// half-written model behind.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// =============================================================================

func loadVocab(path string) (*vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse vocabulary file: %w", err)
	}

	maxID := -1
	byID := make(map[int]string, len(raw))
	for key, symbol := range raw {
		id, err := strconv.Atoi(key)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("invalid token id %q in vocabulary file", key)
		}
		byID[id] = symbol
		if id > maxID {
			maxID = id
		}
	}

	vocab := newVocabulary()
	vocab.symbols = make([]string, maxID+1)
	for id, symbol := range byID {
		vocab.symbols[id] = symbol
	}

	// First id wins for a duplicated symbol, keeping lookups stable.
	for id, symbol := range vocab.symbols {
		if symbol == "" {
			continue
		}
		if _, ok := vocab.ids[symbol]; !ok {
			vocab.ids[symbol] = id
		}
	}

	return vocab, nil
}

func loadMerges(path string) (*mergeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read merges file: %w", err)
	}

	var records []mergeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse merges file: %w", err)
	}

	merges := newMergeTable()
	for _, record := range records {
		if len(record.Pair) != 2 {
			continue
		}
		merges.add(Pair{Left: record.Pair[0], Right: record.Pair[1]}, record.NewID)
	}

	return merges, nil
}
