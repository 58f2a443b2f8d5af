package tokenizer

import (
	"slices"
	"strings"
	"testing"
)

const trainCorpus = "the quick brown fox jumps over the lazy dog " +
	"the quick brown fox jumps over the lazy dog " +
	"pack my box with five dozen liquor jugs"

func TestTrainDeterministic(t *testing.T) {
	a := New()
	b := New()

	a.Train(trainCorpus, 300, []string{"<|endoftext|>", "<|pad|>"})
	b.Train(trainCorpus, 300, []string{"<|pad|>", "<|endoftext|>"})

	if !slices.Equal(a.vocab.symbols, b.vocab.symbols) {
		t.Fatal("vocabularies differ between identical training runs")
	}
	if !slices.Equal(a.merges.rules, b.merges.rules) {
		t.Fatal("merge tables differ between identical training runs")
	}
}

func TestTrainRespectsVocabSize(t *testing.T) {
	tk := New()
	tk.Train(trainCorpus, 300, []string{"<|endoftext|>"})

	if got := tk.VocabSize(); got != 300 {
		t.Fatalf("vocab size: got %d, want 300", got)
	}
}

func TestTrainStopsWhenNoPairLeft(t *testing.T) {
	tk := New()
	tk.Train("ababab", 10_000, nil)

	// 256 bytes + marker is the seed; merging can only collapse the
	// six-symbol stream down to one, so the target is unreachable.
	if got := tk.VocabSize(); got >= 10_000 {
		t.Fatalf("vocab size: got %d, want the reachable size", got)
	}

	again := New()
	again.Train("ababab", 10_000, nil)
	if again.VocabSize() != tk.VocabSize() {
		t.Fatal("reachable size is not stable")
	}
}

func TestTrainTargetBelowSeed(t *testing.T) {
	tk := New()
	tk.Train("abc abc", 10, nil)

	if got := tk.MergeCount(); got != 0 {
		t.Fatalf("merges: got %d, want 0", got)
	}
}

func TestTrainSeedsByteRangeAndMarker(t *testing.T) {
	tk := New()
	tk.Train("hi there", 258, nil)

	for i := 0; i < 256; i++ {
		symbol, err := tk.SymbolOf(i)
		if err != nil {
			t.Fatalf("id %d: %v", i, err)
		}
		if symbol != string(rune(i)) {
			t.Fatalf("id %d: got %q", i, symbol)
		}
	}

	id, err := tk.IDOf(markerString)
	if err != nil {
		t.Fatalf("marker: %v", err)
	}
	if id != 256 {
		t.Fatalf("marker id: got %d, want 256", id)
	}
}

func TestTrainSeedsExtraCharactersSorted(t *testing.T) {
	tk := New()
	tk.Train("zαβ αβ", 300, nil)

	// The marker reaches the stream through space rewriting, so it
	// sorts among the extra characters: Ġ (U+0120) before α and β.
	ids := make([]int, 3)
	for i, symbol := range []string{markerString, "α", "β"} {
		id, err := tk.IDOf(symbol)
		if err != nil {
			t.Fatalf("%s: %v", symbol, err)
		}
		ids[i] = id
	}

	if ids[0] != 256 || ids[1] != 257 || ids[2] != 258 {
		t.Fatalf("extra char ids: got %v, want [256 257 258]", ids)
	}
}

func TestTrainRegistersSpecialTokens(t *testing.T) {
	tk := New()
	tk.Train("some text", 400, []string{"<|endoftext|>"})

	id, err := tk.IDOf("<|endoftext|>")
	if err != nil {
		t.Fatalf("special token not registered: %v", err)
	}
	if id != 257 {
		t.Fatalf("special token id: got %d, want 257", id)
	}
}

// TestTrainMatchesNaiveLoop cross-checks the incremental trainer
// against a rescan-from-scratch loop built on the public pair
// utilities. The two must agree on every merge and on the final
// vocabulary, discovery order included.
func TestTrainMatchesNaiveLoop(t *testing.T) {
	corpora := []string{
		"the cat sat on the mat the cat sat on the mat",
		"aaabdaaabac",
		"abab abab abab",
		"mississippi mississippi",
		"one two \n three four \n one two",
		"héllo héllo héllo wörld",
		strings.Repeat("to be or not to be ", 8),
	}

	for _, corpus := range corpora {
		vocabSize := 280

		tk := New()
		tk.Train(corpus, vocabSize, []string{"<|endoftext|>"})

		vocab, merges := naiveTrain(corpus, vocabSize, []string{"<|endoftext|>"})

		if !slices.Equal(tk.vocab.symbols, vocab.symbols) {
			t.Fatalf("corpus %q: vocabulary diverged from naive loop", corpus)
		}
		if !slices.Equal(tk.merges.rules, merges.rules) {
			t.Fatalf("corpus %q: merges diverged from naive loop", corpus)
		}
	}
}

// naiveTrain is the reference trainer: full pair recount and rewrite
// per merge.
func naiveTrain(text string, vocabSize int, allowedSpecial []string) (*vocabulary, *mergeTable) {
	normalized := normalizeSpaces(text)
	vocab := seedVocabulary(normalized, allowedSpecial)
	merges := newMergeTable()

	var ids []int
	for _, r := range normalized {
		id, _ := vocab.idOf(string(r))
		ids = append(ids, id)
	}

	for vocab.size() < vocabSize {
		pair, ok, _ := FindFrequentPair(ids, ModeMost)
		if !ok {
			break
		}

		left, _ := vocab.symbolOf(pair.Left)
		right, _ := vocab.symbolOf(pair.Right)

		newID := vocab.addNew(left + right)
		merges.add(pair, newID)
		ids = ReplacePair(ids, pair, newID)
	}

	return vocab, merges
}

func TestNormalizeSpaces(t *testing.T) {
	tests := []struct {
		give string
		want string
	}{
		{give: "a b", want: "aĠb"},
		{give: " a b", want: "aĠb"},
		{give: "a  b", want: "aĠĠb"},
		{give: "ab", want: "ab"},
		{give: "", want: ""},
		{give: " ", want: ""},
	}

	for _, tt := range tests {
		if got := normalizeSpaces(tt.give); got != tt.want {
			t.Fatalf("normalizeSpaces(%q): got %q, want %q", tt.give, got, tt.want)
		}
	}
}

func BenchmarkTrain(b *testing.B) {
	corpus := strings.Repeat("the quick brown fox jumps over the lazy dog ", 200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tk := New()
		tk.Train(corpus, 500, []string{"<|endoftext|>"})
	}
}
