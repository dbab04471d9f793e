// Package sheets opens boosters described by MTGJSON booster data, where
// every product variant lists how many cards are drawn from each weighted
// sheet.
package sheets

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/jmcvetta/randutil"
	"github.com/mroth/weightedrand/v2"
	"golang.org/x/exp/slices"

	"github.com/mtgban/go-mtgcollate/mtgjson"
)

var (
	ErrUnknownBooster = errors.New("booster type not found")
	ErrNoVariants     = errors.New("booster has no variants")
	ErrUnknownSheet   = errors.New("sheet not found")
	ErrEmptySheet     = errors.New("sheet has no usable cards")
	ErrInvalidWeight  = errors.New("weight must be positive")
	ErrSizeMismatch   = errors.New("booster variants have different sizes")
	ErrImpossible     = errors.New("sheet cannot satisfy its constraints")
)

// Pick is one card of a booster and the sheet it came from.
type Pick struct {
	CardId string `json:"uuid"`
	Sheet  string `json:"sheet"`
	Foil   bool   `json:"foil"`
}

type Options struct {
	// Random source for every pick, nil means the global generator
	Source *rand.Rand
}

type sheet struct {
	name string
	foil bool

	fixed []string

	chooser         *weightedrand.Chooser[string, int]
	distinct        int
	allowDuplicates bool
	balanceColors   bool
	// Color of mono colored cards
	colors map[string]string
}

type draw struct {
	sheet *sheet
	count int
}

type variant struct {
	draws  []draw
	weight int
}

// Collator draws boosters of one type. It is safe for concurrent use.
type Collator struct {
	Name string

	mu       sync.Mutex
	rng      *rand.Rand
	variants []variant
	choices  []randutil.Choice
	chooser  *weightedrand.Chooser[int, int]
	size     int
}

// NewFromSet builds the collator for one booster type of set, drawing only
// cards printed in the set itself.
func NewFromSet(set *mtgjson.Set, boosterType string, opts Options) (*Collator, error) {
	booster, found := set.Booster[boosterType]
	if !found {
		return nil, fmt.Errorf("%s %s: %w", set.Code, boosterType, ErrUnknownBooster)
	}
	return New(booster, set.CardsByUUID(), opts)
}

// New builds a collator from MTGJSON booster data. Cards missing from the
// cards map, such as online-only printings, are left out of their sheet.
func New(booster mtgjson.Booster, cards map[string]mtgjson.Card, opts Options) (*Collator, error) {
	if len(booster.Boosters) == 0 {
		return nil, ErrNoVariants
	}

	c := Collator{
		Name: booster.Name,
		rng:  opts.Source,
	}

	sheets := map[string]*sheet{}
	maxDraws := map[string]int{}
	var weightedChoices []weightedrand.Choice[int, int]
	for i, contents := range booster.Boosters {
		if contents.Weight <= 0 {
			return nil, fmt.Errorf("variant %d: %w", i, ErrInvalidWeight)
		}

		// Sheets are always listed in name order
		names := make([]string, 0, len(contents.Contents))
		for name := range contents.Contents {
			names = append(names, name)
		}
		sort.Strings(names)

		var v variant
		v.weight = contents.Weight
		size := 0
		for _, name := range names {
			count := contents.Contents[name]
			if count <= 0 {
				continue
			}
			s, found := sheets[name]
			if !found {
				data, found := booster.Sheets[name]
				if !found {
					return nil, fmt.Errorf("variant %d: %w: %s", i, ErrUnknownSheet, name)
				}
				var err error
				s, err = newSheet(name, data, cards)
				if err != nil {
					return nil, err
				}
				sheets[name] = s
			}
			if s.fixed != nil {
				size += len(s.fixed)
			} else {
				size += count
			}
			if count > maxDraws[name] {
				maxDraws[name] = count
			}
			v.draws = append(v.draws, draw{sheet: s, count: count})
		}

		if i == 0 {
			c.size = size
		} else if size != c.size {
			return nil, fmt.Errorf("variant %d has %d cards instead of %d: %w", i, size, c.size, ErrSizeMismatch)
		}

		c.variants = append(c.variants, v)
		c.choices = append(c.choices, randutil.Choice{
			Weight: contents.Weight,
			Item:   i,
		})
		weightedChoices = append(weightedChoices, weightedrand.NewChoice(i, contents.Weight))
	}

	for name, count := range maxDraws {
		err := sheets[name].check(count)
		if err != nil {
			return nil, err
		}
	}

	var err error
	c.chooser, err = weightedrand.NewChooser(weightedChoices...)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func newSheet(name string, data mtgjson.Sheet, cards map[string]mtgjson.Card) (*sheet, error) {
	s := sheet{
		name:            name,
		foil:            data.Foil,
		allowDuplicates: data.AllowDuplicates,
		balanceColors:   data.BalanceColors,
		colors:          map[string]string{},
	}

	ids := make([]string, 0, len(data.Cards))
	for id := range data.Cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var choices []weightedrand.Choice[string, int]
	for _, id := range ids {
		weight := data.Cards[id]
		if weight <= 0 {
			return nil, fmt.Errorf("sheet %s card %s: %w", name, id, ErrInvalidWeight)
		}
		card, found := cards[id]
		if !found {
			continue
		}
		if len(card.Colors) == 1 {
			s.colors[id] = card.Colors[0]
		}
		if data.Fixed {
			for j := 0; j < weight; j++ {
				s.fixed = append(s.fixed, id)
			}
			continue
		}
		choices = append(choices, weightedrand.NewChoice(id, weight))
	}

	if data.Fixed {
		if len(s.fixed) == 0 {
			return nil, fmt.Errorf("sheet %s: %w", name, ErrEmptySheet)
		}
		return &s, nil
	}
	if len(choices) == 0 {
		return nil, fmt.Errorf("sheet %s: %w", name, ErrEmptySheet)
	}

	var err error
	s.chooser, err = weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", name, err)
	}
	s.distinct = len(choices)
	return &s, nil
}

// check verifies that count cards can always be drawn, so that draws
// terminate.
func (s *sheet) check(count int) error {
	if s.fixed != nil {
		return nil
	}
	if !s.allowDuplicates && s.distinct < count {
		return fmt.Errorf("sheet %s has %d cards for %d draws without duplicates: %w", s.name, s.distinct, count, ErrImpossible)
	}
	if s.balanceColors && count > 4 {
		found := map[string]bool{}
		for _, color := range s.colors {
			found[color] = true
		}
		for _, color := range mtgjson.AllColors {
			if !found[color] {
				return fmt.Errorf("sheet %s has no mono %s card to balance: %w", s.name, color, ErrImpossible)
			}
		}
	}
	return nil
}

func (c *Collator) pickVariant() variant {
	if c.rng != nil {
		return c.variants[c.chooser.PickSource(c.rng)]
	}
	choice, err := randutil.WeightedChoice(c.choices)
	if err != nil {
		return c.variants[c.chooser.Pick()]
	}
	return c.variants[choice.Item.(int)]
}

func (c *Collator) pickCard(s *sheet) string {
	if c.rng != nil {
		return s.chooser.PickSource(c.rng)
	}
	return s.chooser.Pick()
}

// MakePicks opens a booster and reports the sheet of every card.
func (c *Collator) MakePicks() []Pick {
	c.mu.Lock()
	defer c.mu.Unlock()

	picks := make([]Pick, 0, c.size)
	for _, d := range c.pickVariant().draws {
		s := d.sheet

		// Fixed means there is no randomness, just pick the cards as listed
		if s.fixed != nil {
			for _, id := range s.fixed {
				picks = append(picks, Pick{CardId: id, Sheet: s.name, Foil: s.foil})
			}
			continue
		}

		var picked []string
		balanced := map[string]bool{}
		for len(picked) < d.count {
			id := c.pickCard(s)

			// The first five cards of a balanced sheet are one per color
			if s.balanceColors && d.count > 4 && len(picked) < 5 {
				color := s.colors[id]
				if color == "" || balanced[color] {
					continue
				}
				if !s.allowDuplicates && slices.Contains(picked, id) {
					continue
				}
				balanced[color] = true
			} else if !s.allowDuplicates && slices.Contains(picked, id) {
				continue
			}

			picked = append(picked, id)
		}
		for _, id := range picked {
			picks = append(picks, Pick{CardId: id, Sheet: s.name, Foil: s.foil})
		}
	}
	return picks
}

// MakeBooster returns the uuids of the cards of a booster.
func (c *Collator) MakeBooster() []string {
	picks := c.MakePicks()
	booster := make([]string, 0, len(picks))
	for _, pick := range picks {
		booster = append(booster, pick.CardId)
	}
	return booster
}

func (c *Collator) Size() int {
	return c.size
}
