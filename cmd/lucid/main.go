// Lucid is a command line front end for the BPE tokenizer engine. It
// trains a vocabulary from a text corpus, encodes files against a
// trained model, and decodes id sequences back into text.
//
// # Training:
//
//	$ lucid train -in corpus.txt -vocab-size 1000 -special "<|endoftext|>" -out-vocab vocab.json -out-merges merges.json
//
// # Encoding one or more files (files are processed concurrently):
//
//	$ lucid encode -vocab vocab.json -merges merges.json -allow-special "<|endoftext|>" a.txt b.txt
//
// # Decoding a comma separated id list:
//
//	$ lucid decode -vocab vocab.json -merges merges.json -ids 97,256,98
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/KushalGajjar1/Lucid/foundation/tokenizer"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: lucid <train|encode|decode> [flags]")
	}

	switch args[0] {
	case "train":
		return runTrain(args[1:])

	case "encode":
		return runEncode(args[1:])

	case "decode":
		return runDecode(args[1:])
	}

	return fmt.Errorf("unknown command %q", args[0])
}

// =============================================================================

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	in := fs.String("in", "", "training corpus file")
	vocabSize := fs.Int("vocab-size", 1000, "target vocabulary size")
	special := fs.String("special", "<|endoftext|>", "comma separated special tokens")
	outVocab := fs.String("out-vocab", "vocab.json", "vocabulary output file")
	outMerges := fs.String("out-merges", "merges.json", "merges output file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("train: -in is required")
	}

	corpus, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}

	tk := tokenizer.New(tokenizer.WithLogger(tokenizer.StdoutLogger))
	tk.Train(string(corpus), *vocabSize, splitList(*special))

	if err := tk.Save(*outVocab, *outMerges); err != nil {
		return fmt.Errorf("save model: %w", err)
	}

	fmt.Printf("trained: vocab %d, merges %d\n", tk.VocabSize(), tk.MergeCount())

	return nil
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	vocabPath := fs.String("vocab", "vocab.json", "vocabulary file")
	mergesPath := fs.String("merges", "merges.json", "merges file")
	allow := fs.String("allow-special", "", "comma separated allowed special tokens")

	if err := fs.Parse(args); err != nil {
		return err
	}

	files := fs.Args()
	if len(files) == 0 {
		return fmt.Errorf("encode: no input files")
	}

	// Only an explicitly passed flag turns special handling on; an
	// empty value then means "allow none".
	var allowed []string
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "allow-special" {
			allowed = append([]string{}, splitList(*allow)...)
		}
	})

	tk, err := loadModel(*vocabPath, *mergesPath)
	if err != nil {
		return err
	}

	// The tokenizer is read-only from here on, so the files can be
	// encoded concurrently against the one instance.
	results := make([][]int, len(files))

	var g errgroup.Group
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			ids, err := tk.Encode(string(data), allowed)
			if err != nil {
				return fmt.Errorf("encode %s: %w", file, err)
			}

			results[i] = ids
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, file := range files {
		fmt.Printf("%s: %s\n", file, joinIDs(results[i]))
	}

	return nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	vocabPath := fs.String("vocab", "vocab.json", "vocabulary file")
	mergesPath := fs.String("merges", "merges.json", "merges file")
	idList := fs.String("ids", "", "comma separated token ids")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var ids []int
	for _, part := range splitList(*idList) {
		id, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("invalid token id %q", part)
		}
		ids = append(ids, id)
	}

	tk, err := loadModel(*vocabPath, *mergesPath)
	if err != nil {
		return err
	}

	text, err := tk.Decode(ids)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	fmt.Println(text)

	return nil
}

// =============================================================================

func loadModel(vocabPath string, mergesPath string) (*tokenizer.BPETokenizer, error) {
	tk := tokenizer.New()
	if err := tk.Load(vocabPath, mergesPath); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	return tk, nil
}

func splitList(s string) []string {
	var list []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}

	return list
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}

	return strings.Join(parts, " ")
}
