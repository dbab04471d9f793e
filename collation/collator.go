// Package collation implements print-sheet booster collation: packs are
// assembled from cyclic print sheets through alternative sheet layouts, so
// that pulls follow the distribution of the physical product instead of a
// uniform pick per rarity.
package collation

import (
	"fmt"
	"sync"
)

// BoosterCollator produces the slot identifiers of one booster pack.
type BoosterCollator interface {
	MakeBooster() []string
}

// Sizer is implemented by collators whose packs always have the same size.
type Sizer interface {
	Size() int
}

// Describer is implemented by collators able to report their layout
// without opening a pack.
type Describer interface {
	Sizer

	// Number of slots per rarity label
	Counts() map[string]int

	// Every sheet used by a rarity label
	RunsByRarity() map[string][]*CardRun
}

// Tier is one rarity group of a pack, for example the first half of the
// commons or the rare slot.
type Tier struct {
	Rarity string
	Config *RarityConfiguration
}

// Collator composes tiers in declared order into full packs. It is safe
// for concurrent use.
type Collator struct {
	mu    sync.Mutex
	tiers []Tier

	size   int
	counts map[string]int
}

func NewCollator(tiers ...Tier) (*Collator, error) {
	if len(tiers) == 0 {
		return nil, configError("collator", ErrEmptyCollator)
	}

	c := Collator{
		tiers:  append([]Tier(nil), tiers...),
		counts: map[string]int{},
	}
	for i, tier := range tiers {
		if tier.Config == nil {
			return nil, configError(fmt.Sprintf("collator tier %d (%s)", i, tier.Rarity), ErrEmptyConfiguration)
		}
		c.size += tier.Config.Len()
		c.counts[tier.Rarity] += tier.Config.Len()
	}
	return &c, nil
}

// MakeBooster returns one pack, tier after tier.
func (c *Collator) MakeBooster() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	booster := make([]string, 0, c.size)
	for _, tier := range c.tiers {
		booster = append(booster, tier.Config.GetNext().MakeRun()...)
	}
	return booster
}

func (c *Collator) Size() int {
	return c.size
}

func (c *Collator) Counts() map[string]int {
	out := make(map[string]int, len(c.counts))
	for rarity, count := range c.counts {
		out[rarity] = count
	}
	return out
}

// Tiers returns the tiers in collation order, for inspection only. The
// configurations are live: calling GetNext on them skips the collator lock
// and moves the sheets of the next booster.
func (c *Collator) Tiers() []Tier {
	return append([]Tier(nil), c.tiers...)
}

func (c *Collator) RunsByRarity() map[string][]*CardRun {
	out := map[string][]*CardRun{}
	seen := map[*CardRun]bool{}
	for _, tier := range c.tiers {
		for _, run := range tier.Config.Runs() {
			if seen[run] {
				continue
			}
			seen[run] = true
			out[tier.Rarity] = append(out[tier.Rarity], run)
		}
	}
	return out
}

type guarded struct {
	mu       sync.Mutex
	collator BoosterCollator
}

// Guard serializes every MakeBooster call of c behind a single lock. The
// returned collator keeps implementing Sizer and Describer when c does.
func Guard(c BoosterCollator) BoosterCollator {
	switch c.(type) {
	case *guarded, *guardedDescriber:
		return c
	}
	g := &guarded{collator: c}
	if _, ok := c.(Describer); ok {
		return &guardedDescriber{g}
	}
	return g
}

func (g *guarded) MakeBooster() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.collator.MakeBooster()
}

// Size returns 0 when the wrapped collator does not report a fixed size.
func (g *guarded) Size() int {
	sizer, ok := g.collator.(Sizer)
	if !ok {
		return 0
	}
	return sizer.Size()
}

type guardedDescriber struct {
	*guarded
}

func (g *guardedDescriber) Counts() map[string]int {
	return g.collator.(Describer).Counts()
}

func (g *guardedDescriber) RunsByRarity() map[string][]*CardRun {
	return g.collator.(Describer).RunsByRarity()
}
