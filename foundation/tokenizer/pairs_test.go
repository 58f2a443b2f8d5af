package tokenizer

import (
	"errors"
	"slices"
	"testing"
)

func TestFindFrequentPair(t *testing.T) {
	ids := []int{5, 5, 5, 6, 6}

	pair, ok, err := FindFrequentPair(ids, ModeMost)
	if err != nil {
		t.Fatalf("most: %v", err)
	}
	if !ok {
		t.Fatal("most: expected a pair")
	}
	if pair != (Pair{Left: 5, Right: 5}) {
		t.Fatalf("most: got %v, want (5,5)", pair)
	}

	pair, ok, err = FindFrequentPair(ids, ModeLeast)
	if err != nil {
		t.Fatalf("least: %v", err)
	}
	if !ok {
		t.Fatal("least: expected a pair")
	}
	if pair != (Pair{Left: 5, Right: 6}) {
		t.Fatalf("least: got %v, want (5,6)", pair)
	}
}

func TestFindFrequentPairTieBreak(t *testing.T) {
	// (7,8) and (8,9) both occur once; (7,8) is seen first.
	pair, ok, err := FindFrequentPair([]int{7, 8, 9}, ModeMost)
	if err != nil || !ok {
		t.Fatalf("unexpected result: ok %v err %v", ok, err)
	}
	if pair != (Pair{Left: 7, Right: 8}) {
		t.Fatalf("got %v, want (7,8)", pair)
	}
}

func TestFindFrequentPairEmpty(t *testing.T) {
	for _, ids := range [][]int{nil, {}, {42}} {
		if _, ok, err := FindFrequentPair(ids, ModeMost); ok || err != nil {
			t.Fatalf("ids %v: expected no pair, got ok %v err %v", ids, ok, err)
		}
	}
}

func TestFindFrequentPairInvalidMode(t *testing.T) {
	_, _, err := FindFrequentPair([]int{1, 2}, Mode("middle"))
	if err == nil {
		t.Fatal("expected an error")
	}

	var invalid *InvalidModeError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidModeError, got %T", err)
	}
	if invalid.Mode != Mode("middle") {
		t.Fatalf("error mode: got %q", invalid.Mode)
	}
}

func TestReplacePair(t *testing.T) {
	tests := []struct {
		name  string
		ids   []int
		pair  Pair
		newID int
		want  []int
	}{
		{
			name:  "basic",
			ids:   []int{1, 2, 3, 1, 2},
			pair:  Pair{Left: 1, Right: 2},
			newID: 9,
			want:  []int{9, 3, 9},
		},
		{
			name:  "absent pair leaves input as is",
			ids:   []int{1, 2, 3},
			pair:  Pair{Left: 5, Right: 6},
			newID: 9,
			want:  []int{1, 2, 3},
		},
		{
			name:  "no overlapping merges",
			ids:   []int{1, 1, 1},
			pair:  Pair{Left: 1, Right: 1},
			newID: 9,
			want:  []int{9, 1},
		},
		{
			name:  "run of four consumes pairwise",
			ids:   []int{1, 1, 1, 1},
			pair:  Pair{Left: 1, Right: 1},
			newID: 9,
			want:  []int{9, 9},
		},
		{
			name:  "empty input",
			ids:   []int{},
			pair:  Pair{Left: 1, Right: 2},
			newID: 9,
			want:  []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReplacePair(tt.ids, tt.pair, tt.newID)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReplacePairLeavesInputUntouched(t *testing.T) {
	ids := []int{1, 2, 1, 2}
	ReplacePair(ids, Pair{Left: 1, Right: 2}, 9)

	if !slices.Equal(ids, []int{1, 2, 1, 2}) {
		t.Fatalf("input mutated: %v", ids)
	}
}
