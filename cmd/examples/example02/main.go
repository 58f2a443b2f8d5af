// This example shows you how special tokens pass through the encoder
// as single ids, and how a saved model reloads with identical
// behavior.
//
// # Running the example:
//
//	$ go run ./cmd/examples/example02
//
// # Notes:
//
//	A special token is a whole-string literal that is never decomposed
//	by merges. The encoder only honors it when the caller lists it as
//	allowed; a special-token-shaped substring outside the allowed set
//	fails the encode instead of being silently split.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/KushalGajjar1/Lucid/foundation/tokenizer"
)

const endOfText = "<|endoftext|>"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	corpus := "one fish two fish red fish blue fish " + endOfText + " one fish two fish"

	tk := tokenizer.New()
	tk.Train(corpus, 300, []string{endOfText})

	text := "red fish " + endOfText + " blue fish"

	ids, err := tk.Encode(text, []string{endOfText})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	eot, err := tk.IDOf(endOfText)
	if err != nil {
		return fmt.Errorf("special token id: %w", err)
	}
	fmt.Printf("%q -> %v (special id %d)\n", text, ids, eot)

	// The same text with nothing allowed is rejected outright.
	if _, err := tk.Encode(text, []string{}); err != nil {
		var disallowed *tokenizer.DisallowedTokenError
		if errors.As(err, &disallowed) {
			fmt.Printf("disallowed: %v\n", disallowed.Tokens)
		}
	}

	dir, err := os.MkdirTemp("", "lucid-example")
	if err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	vocabPath := filepath.Join(dir, "vocab.json")
	mergesPath := filepath.Join(dir, "merges.json")

	if err := tk.Save(vocabPath, mergesPath); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	loaded := tokenizer.New()
	if err := loaded.Load(vocabPath, mergesPath); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	again, err := loaded.Encode(text, []string{endOfText})
	if err != nil {
		return fmt.Errorf("encode after load: %w", err)
	}

	if !slices.Equal(ids, again) {
		return fmt.Errorf("ids diverged after load:\n before %v\n after  %v", ids, again)
	}
	fmt.Println("save/load round trip: identical ids")

	return nil
}
