package tokenizer

import (
	"container/heap"
	"context"
	"math"
	"sort"
	"strings"
)

// Train discovers merge rules from text until the vocabulary reaches
// vocabSize or no pair is left to merge. The previous vocabulary and
// merge table are replaced wholesale; callers must serialize Train
// against every other use of the instance.
func (t *BPETokenizer) Train(text string, vocabSize int, allowedSpecial []string) {
	ctx := context.Background()

	normalized := normalizeSpaces(text)

	vocab := seedVocabulary(normalized, allowedSpecial)
	merges := newMergeTable()

	ids := make([]int, 0, len(normalized))
	for _, r := range normalized {
		id, _ := vocab.idOf(string(r))
		ids = append(ids, id)
	}

	t.log(ctx, "train", "status", "started", "symbols", len(ids), "seeded", vocab.size(), "target", vocabSize)

	run := newTrainRun(ids)

	for vocab.size() < vocabSize {
		best, ok := run.bestPair()
		if !ok {
			break
		}

		left, _ := vocab.symbolOf(best.Left)
		right, _ := vocab.symbolOf(best.Right)

		newID := vocab.addNew(left + right)
		merges.add(best, newID)
		run.merge(best, newID)

		if merges.count()%256 == 0 {
			t.log(ctx, "train", "merges", merges.count(), "vocab", vocab.size())
		}
	}

	t.vocab = vocab
	t.merges = merges

	t.log(ctx, "train", "status", "completed", "vocab", vocab.size(), "merges", merges.count())
}

// normalizeSpaces rewrites every space to the marker rune, except that
// a space at rune position 0 is dropped outright. All other characters
// copy through unchanged.
func normalizeSpaces(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	pos := 0
	for _, r := range text {
		switch {
		case r == ' ' && pos != 0:
			sb.WriteRune(marker)

		case r != ' ':
			sb.WriteRune(r)
		}
		pos++
	}

	return sb.String()
}

// seedVocabulary builds the pre-merge vocabulary: the 256 single-byte
// symbols as ids 0-255, then the remaining distinct characters of the
// normalized text in sorted order, then the marker, then the special
// tokens in sorted order. Merge ids are assigned on top of this
// ordering, so it must not change.
func seedVocabulary(normalized string, allowedSpecial []string) *vocabulary {
	vocab := newVocabulary()

	for i := 0; i < 256; i++ {
		vocab.add(string(rune(i)))
	}

	seen := make(map[rune]bool)
	var extras []rune
	for _, r := range normalized {
		if r > 0xFF && !seen[r] {
			seen[r] = true
			extras = append(extras, r)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })

	for _, r := range extras {
		vocab.add(string(r))
	}
	vocab.add(markerString)

	specials := make([]string, len(allowedSpecial))
	copy(specials, allowedSpecial)
	sort.Strings(specials)

	for _, token := range specials {
		vocab.add(token)
	}

	return vocab
}

// =============================================================================

// trainRun maintains the symbol sequence as a doubly linked list over
// positions, with pair counts kept incrementally: each merge only
// touches the counts of pairs adjacent to the rewritten positions. A
// max-heap over counts with lazy deletion of stale entries selects the
// next pair, and a per-pair position index, pruned lazily, supplies the
// first-occurrence tie-break and the rewrite sites.
type trainRun struct {
	ids    []int
	prev   []int
	next   []int
	alive  []bool
	counts map[Pair]int
	occ    map[Pair][]int
	queue  pairHeap
}

func newTrainRun(ids []int) *trainRun {
	n := len(ids)

	run := trainRun{
		ids:    ids,
		prev:   make([]int, n),
		next:   make([]int, n),
		alive:  make([]bool, n),
		counts: make(map[Pair]int),
		occ:    make(map[Pair][]int),
	}

	for i := range ids {
		run.prev[i] = i - 1
		run.next[i] = i + 1
		run.alive[i] = true
	}
	if n > 0 {
		run.next[n-1] = -1
	}

	for i := 0; i < n-1; i++ {
		run.inc(Pair{Left: ids[i], Right: ids[i+1]}, i)
	}

	return &run
}

// inc records a new window of pair starting at pos.
func (run *trainRun) inc(pair Pair, pos int) {
	run.counts[pair]++
	run.occ[pair] = append(run.occ[pair], pos)
	heap.Push(&run.queue, pairEntry{pair: pair, count: run.counts[pair]})
}

// dec removes one window of pair. Heap entries for every count the pair
// passed on the way up already exist, so no push is needed here; stale
// entries are discarded on pop.
func (run *trainRun) dec(pair Pair) {
	c := run.counts[pair] - 1
	if c <= 0 {
		delete(run.counts, pair)
		delete(run.occ, pair)
		return
	}

	run.counts[pair] = c
}

// valid reports whether a window of pair still starts at pos.
func (run *trainRun) valid(pair Pair, pos int) bool {
	if !run.alive[pos] || run.ids[pos] != pair.Left {
		return false
	}

	nx := run.next[pos]
	return nx != -1 && run.ids[nx] == pair.Right
}

// occurrences prunes the position index for pair down to the windows
// that still exist and returns them in ascending position order.
func (run *trainRun) occurrences(pair Pair) []int {
	positions := run.occ[pair]

	live := positions[:0]
	for _, pos := range positions {
		if run.valid(pair, pos) {
			live = append(live, pos)
		}
	}
	sort.Ints(live)

	run.occ[pair] = live
	return live
}

// bestPair returns the pair with the strictly highest count. Among
// pairs sharing the maximum, the one whose first live occurrence is
// earliest in the sequence wins, matching a left-to-right rescan.
func (run *trainRun) bestPair() (Pair, bool) {
	for run.queue.Len() > 0 {
		top := heap.Pop(&run.queue).(pairEntry)
		if run.counts[top.pair] != top.count {
			continue
		}

		candidates := []Pair{top.pair}
		seen := map[Pair]bool{top.pair: true}

		for run.queue.Len() > 0 && run.queue[0].count == top.count {
			entry := heap.Pop(&run.queue).(pairEntry)
			if entry.count != run.counts[entry.pair] || seen[entry.pair] {
				continue
			}
			seen[entry.pair] = true
			candidates = append(candidates, entry.pair)
		}

		best := candidates[0]

		if len(candidates) > 1 {
			bestPos := run.firstOccurrence(best)
			for _, pair := range candidates[1:] {
				if pos := run.firstOccurrence(pair); pos < bestPos {
					best, bestPos = pair, pos
				}
			}
		}

		for _, pair := range candidates {
			if pair != best {
				heap.Push(&run.queue, pairEntry{pair: pair, count: top.count})
			}
		}

		return best, true
	}

	return Pair{}, false
}

func (run *trainRun) firstOccurrence(pair Pair) int {
	live := run.occurrences(pair)
	if len(live) == 0 {
		return math.MaxInt
	}

	return live[0]
}

// merge rewrites every live window of pair with newID, left to right,
// consuming both positions of a match. Counts for the destroyed
// neighbor windows are decremented and the windows formed against the
// merged position are recorded.
func (run *trainRun) merge(pair Pair, newID int) {
	for _, pos := range run.occurrences(pair) {
		if !run.valid(pair, pos) {
			continue
		}

		q := run.next[pos]
		l := run.prev[pos]
		r := run.next[q]

		run.dec(pair)
		if l != -1 {
			run.dec(Pair{Left: run.ids[l], Right: run.ids[pos]})
		}
		if r != -1 {
			run.dec(Pair{Left: run.ids[q], Right: run.ids[r]})
		}

		run.ids[pos] = newID
		run.alive[q] = false
		run.next[pos] = r
		if r != -1 {
			run.prev[r] = pos
		}

		if l != -1 {
			run.inc(Pair{Left: run.ids[l], Right: newID}, l)
		}
		if r != -1 {
			run.inc(Pair{Left: newID, Right: run.ids[r]}, pos)
		}
	}
}

// =============================================================================

type pairEntry struct {
	pair  Pair
	count int
}

// pairHeap is a max-heap of pair counts.
type pairHeap []pairEntry

func (h pairHeap) Len() int           { return len(h) }
func (h pairHeap) Less(i, j int) bool { return h[i].count > h[j].count }
func (h pairHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pairHeap) Push(x any)        { *h = append(*h, x.(pairEntry)) }

func (h *pairHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}
