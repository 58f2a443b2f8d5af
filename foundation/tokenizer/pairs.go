package tokenizer

// Mode selects which pair FindFrequentPair reports.
type Mode string

const (
	ModeMost  Mode = "most"
	ModeLeast Mode = "least"
)

// FindFrequentPair counts every adjacent pair of ids and returns the
// most or least frequent one. Ties are broken by first-seen scan
// order: among pairs sharing the winning count, the one whose first
// occurrence appears earliest wins. The bool result is false when the
// sequence holds no pair at all.
func FindFrequentPair(ids []int, mode Mode) (Pair, bool, error) {
	if mode != ModeMost && mode != ModeLeast {
		return Pair{}, false, &InvalidModeError{Mode: mode}
	}

	counts := make(map[Pair]int)
	var order []Pair

	for i := 0; i < len(ids)-1; i++ {
		pair := Pair{Left: ids[i], Right: ids[i+1]}
		if counts[pair] == 0 {
			order = append(order, pair)
		}
		counts[pair]++
	}

	if len(order) == 0 {
		return Pair{}, false, nil
	}

	best := order[0]
	for _, pair := range order[1:] {
		switch mode {
		case ModeMost:
			if counts[pair] > counts[best] {
				best = pair
			}

		case ModeLeast:
			if counts[pair] < counts[best] {
				best = pair
			}
		}
	}

	return best, true, nil
}

// ReplacePair rewrites every non-overlapping occurrence of pair with
// newID, scanning strictly left to right. A symbol consumed by a match
// cannot participate in the next match check. The input slice is left
// untouched.
func ReplacePair(ids []int, pair Pair, newID int) []int {
	replaced := make([]int, 0, len(ids))

	i := 0
	for i < len(ids) {
		if i+1 < len(ids) && ids[i] == pair.Left && ids[i+1] == pair.Right {
			replaced = append(replaced, newID)
			i += 2
			continue
		}

		replaced = append(replaced, ids[i])
		i++
	}

	return replaced
}
