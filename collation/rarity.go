package collation

import (
	"fmt"
	"math/rand"

	"github.com/mroth/weightedrand/v2"
)

// RepeatPolicy decides what counts as "the same selection" when a
// RarityConfiguration avoids back-to-back repeats.
type RepeatPolicy int

const (
	// AvoidRepeatStructure never returns the same structure twice in a
	// row, regardless of how many times it is listed. The next pick is
	// drawn from the weights left once the previous structure is removed,
	// so frequencies drift toward uniform: weights 1/2/2/1 come out near
	// 0.19/0.31/0.31/0.19. Exact weights without repeats are reachable only
	// when no structure holds more than half the total weight, and this
	// policy does not attempt it.
	AvoidRepeatStructure RepeatPolicy = iota

	// AvoidRepeatEntry never picks the same candidate list entry twice in
	// a row. A structure listed more than once may follow itself through
	// a different entry, which keeps the long-run frequencies equal to the
	// listed weights.
	AvoidRepeatEntry
)

func (p RepeatPolicy) String() string {
	switch p {
	case AvoidRepeatStructure:
		return "structure"
	case AvoidRepeatEntry:
		return "entry"
	}
	return fmt.Sprintf("RepeatPolicy(%d)", int(p))
}

// Options tunes a RarityConfiguration.
type Options struct {
	Policy RepeatPolicy

	// Source of randomness, the global generator when nil
	Source *rand.Rand
}

// RarityConfiguration selects one of several alternative structures for a
// rarity tier. The probability of a structure is the number of times it
// appears in the candidate list over the list length.
type RarityConfiguration struct {
	candidates []*BoosterStructure
	distinct   []*BoosterStructure
	weights    []int
	size       int

	policy RepeatPolicy
	rng    *rand.Rand

	// Index of the previous pick, in distinct or candidates depending on
	// the policy, -1 before the first pick
	last int

	first *weightedrand.Chooser[int, int]
	// Chooser to use right after index i was picked
	after []*weightedrand.Chooser[int, int]
}

func NewRarityConfiguration(candidates ...*BoosterStructure) (*RarityConfiguration, error) {
	return NewRarityConfigurationWithOptions(Options{}, candidates...)
}

func NewRarityConfigurationWithOptions(opts Options, candidates ...*BoosterStructure) (*RarityConfiguration, error) {
	if len(candidates) == 0 {
		return nil, configError("rarity configuration", ErrEmptyConfiguration)
	}

	rc := RarityConfiguration{
		candidates: append([]*BoosterStructure(nil), candidates...),
		policy:     opts.Policy,
		rng:        opts.Source,
		last:       -1,
	}

	index := map[*BoosterStructure]int{}
	for i, bs := range candidates {
		if bs == nil {
			return nil, configError(fmt.Sprintf("rarity configuration candidate %d", i), ErrEmptyStructure)
		}
		if i == 0 {
			rc.size = bs.Len()
		} else if bs.Len() != rc.size {
			return nil, configError(fmt.Sprintf("rarity configuration candidate %s", bs), ErrSlotCountMismatch)
		}

		j, found := index[bs]
		if !found {
			j = len(rc.distinct)
			index[bs] = j
			rc.distinct = append(rc.distinct, bs)
			rc.weights = append(rc.weights, 0)
		}
		rc.weights[j]++
	}

	var err error
	switch rc.policy {
	case AvoidRepeatStructure:
		err = rc.buildChoosers(rc.weights)
	case AvoidRepeatEntry:
		ones := make([]int, len(rc.candidates))
		for i := range ones {
			ones[i] = 1
		}
		err = rc.buildChoosers(ones)
	default:
		err = configError("rarity configuration", fmt.Errorf("unknown repeat policy %d", rc.policy))
	}
	if err != nil {
		return nil, err
	}

	return &rc, nil
}

// buildChoosers prepares one chooser over all items for the first pick, and
// one per item that leaves that item out for every following pick.
func (rc *RarityConfiguration) buildChoosers(weights []int) error {
	var err error
	rc.first, err = newChooser(weights, -1)
	if err != nil {
		return err
	}
	if len(weights) < 2 {
		return nil
	}

	rc.after = make([]*weightedrand.Chooser[int, int], len(weights))
	for i := range weights {
		rc.after[i], err = newChooser(weights, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func newChooser(weights []int, skip int) (*weightedrand.Chooser[int, int], error) {
	choices := make([]weightedrand.Choice[int, int], 0, len(weights))
	for i, weight := range weights {
		if i == skip {
			continue
		}
		choices = append(choices, weightedrand.NewChoice(i, weight))
	}
	return weightedrand.NewChooser(choices...)
}

// GetNext picks the structure for the next pack. Callers must serialize
// calls, the selection and the cursors of the returned structure are
// shared by every pack of the expansion.
func (rc *RarityConfiguration) GetNext() *BoosterStructure {
	chooser := rc.first
	if rc.last >= 0 && rc.after != nil {
		chooser = rc.after[rc.last]
	}

	var i int
	if rc.rng == nil {
		i = chooser.Pick()
	} else {
		i = chooser.PickSource(rc.rng)
	}
	rc.last = i

	if rc.policy == AvoidRepeatEntry {
		return rc.candidates[i]
	}
	return rc.distinct[i]
}

// Len is the number of slots every candidate produces.
func (rc *RarityConfiguration) Len() int {
	return rc.size
}

func (rc *RarityConfiguration) Policy() RepeatPolicy {
	return rc.policy
}

// Candidates returns the candidate list as declared, repetitions included.
func (rc *RarityConfiguration) Candidates() []*BoosterStructure {
	return append([]*BoosterStructure(nil), rc.candidates...)
}

// Weight returns how many times bs is listed among the candidates.
func (rc *RarityConfiguration) Weight(bs *BoosterStructure) int {
	for i := range rc.distinct {
		if rc.distinct[i] == bs {
			return rc.weights[i]
		}
	}
	return 0
}

// Runs returns every distinct run reachable from the candidates.
func (rc *RarityConfiguration) Runs() []*CardRun {
	var out []*CardRun
	seen := map[*CardRun]bool{}
	for _, bs := range rc.distinct {
		for _, run := range bs.Runs() {
			if seen[run] {
				continue
			}
			seen[run] = true
			out = append(out, run)
		}
	}
	return out
}
