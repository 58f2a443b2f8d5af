// This example shows you how the tokenizer learns a vocabulary from a
// small corpus and how encode and decode round-trip a sentence.
//
// # Running the example:
//
//	$ go run ./cmd/examples/example01
//
// # Notes:
//
//	Training seeds the vocabulary with the 256 single-byte symbols plus
//	the space marker, then keeps merging the most frequent adjacent
//	pair until the target size is reached. Every merge mints one new
//	id, so the merge count is exactly the final size minus the seed.
package main

import (
	"fmt"
	"log"

	"github.com/KushalGajjar1/Lucid/foundation/tokenizer"
)

const corpus = `the quick brown fox jumps over the lazy dog
the quick brown fox jumps over the lazy dog
pack my box with five dozen liquor jugs`

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	tk := tokenizer.New(tokenizer.WithLogger(tokenizer.StdoutLogger))
	tk.Train(corpus, 300, []string{"<|endoftext|>"})

	fmt.Printf("vocab size: %d, merges: %d\n", tk.VocabSize(), tk.MergeCount())

	text := "the quick brown fox"

	ids, err := tk.Encode(text, nil)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	fmt.Printf("%q -> %v\n", text, ids)

	for _, id := range ids {
		symbol, err := tk.SymbolOf(id)
		if err != nil {
			return fmt.Errorf("symbol of %d: %w", id, err)
		}
		fmt.Printf("  %5d %q\n", id, symbol)
	}

	decoded, err := tk.Decode(ids)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Printf("decoded: %q\n", decoded)

	if decoded != text {
		return fmt.Errorf("round trip failed: %q != %q", decoded, text)
	}

	return nil
}
