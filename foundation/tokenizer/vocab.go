package tokenizer

// Pair is an ordered pair of token ids.
type Pair struct {
	Left  int
	Right int
}

// =============================================================================

// vocabulary is the bidirectional id to symbol table. Ids are dense,
// start at 0, and are assigned in a strict never-reused sequence.
type vocabulary struct {
	symbols []string
	ids     map[string]int
}

func newVocabulary() *vocabulary {
	return &vocabulary{
		ids: make(map[string]int),
	}
}

// add registers a symbol and returns its new id. If the symbol is
// already registered, the existing id is returned and nothing changes.
func (v *vocabulary) add(symbol string) int {
	if id, ok := v.ids[symbol]; ok {
		return id
	}

	return v.addNew(symbol)
}

// addNew assigns the next id unconditionally. When the symbol already
// has an id, lookups by symbol keep resolving to the first id so the
// symbol to id mapping stays stable.
func (v *vocabulary) addNew(symbol string) int {
	id := len(v.symbols)
	v.symbols = append(v.symbols, symbol)

	if _, ok := v.ids[symbol]; !ok {
		v.ids[symbol] = id
	}

	return id
}

func (v *vocabulary) idOf(symbol string) (int, bool) {
	id, ok := v.ids[symbol]
	return id, ok
}

func (v *vocabulary) symbolOf(id int) (string, bool) {
	if id < 0 || id >= len(v.symbols) || v.symbols[id] == "" {
		return "", false
	}

	return v.symbols[id], true
}

func (v *vocabulary) size() int {
	return len(v.symbols)
}

// =============================================================================

type mergeRule struct {
	pair  Pair
	newID int
}

// mergeTable is the ordered set of learned rewrite rules. The order in
// which rules were discovered is significant and is preserved across
// save and load.
type mergeTable struct {
	rules  []mergeRule
	byPair map[Pair]int
}

func newMergeTable() *mergeTable {
	return &mergeTable{
		byPair: make(map[Pair]int),
	}
}

// add records a rule mapping pair to newID. A pair can appear at most
// once; a duplicate keeps the first rule and reports false.
func (m *mergeTable) add(pair Pair, newID int) bool {
	if _, ok := m.byPair[pair]; ok {
		return false
	}

	m.rules = append(m.rules, mergeRule{pair: pair, newID: newID})
	m.byPair[pair] = newID

	return true
}

func (m *mergeTable) lookup(pair Pair) (int, bool) {
	id, ok := m.byPair[pair]
	return id, ok
}

func (m *mergeTable) count() int {
	return len(m.rules)
}
