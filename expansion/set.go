package expansion

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mtgban/go-mtgcollate/collation"
	"github.com/mtgban/go-mtgcollate/mtgjson"
)

type LogCallbackFunc func(format string, a ...interface{})

// Factory builds a fresh collator with its own sheets and cursors.
type Factory func(opts collation.Options) (collation.BoosterCollator, error)

type Options struct {
	Code        string
	Name        string
	ReleaseDate time.Time
	Type        string

	Catalog     []CardInfo
	Composition Composition
	Collator    Factory

	// Random source for the collator and for picking variable art, nil
	// means the global generator
	Source *rand.Rand

	LogCallback LogCallbackFunc
}

// Set is an expansion able to open booster packs. It is safe for concurrent
// use.
type Set struct {
	Code        string
	Name        string
	ReleaseDate time.Time
	Type        string
	Composition Composition

	LogCallback LogCallbackFunc

	catalog  []CardInfo
	byNumber map[string]int
	byName   map[string][]int

	mu       sync.Mutex
	rng      *rand.Rand
	factory  Factory
	collator collation.BoosterCollator
}

func (s *Set) printf(format string, a ...interface{}) {
	if s.LogCallback != nil {
		s.LogCallback("["+s.Code+"] "+format, a...)
	}
}

// NewSet builds the collator of an expansion and verifies that it matches
// the catalog and the advertised composition.
func NewSet(opts Options) (*Set, error) {
	code := strings.ToUpper(opts.Code)
	if len(opts.Catalog) == 0 {
		return nil, fmt.Errorf("%s: %w", code, ErrEmptyCatalog)
	}
	if opts.Collator == nil {
		return nil, fmt.Errorf("%s: %w", code, ErrNoCollator)
	}

	set := Set{
		Code:        code,
		Name:        opts.Name,
		ReleaseDate: opts.ReleaseDate,
		Type:        opts.Type,
		Composition: opts.Composition,
		LogCallback: opts.LogCallback,
		catalog:     append([]CardInfo(nil), opts.Catalog...),
		byNumber:    map[string]int{},
		byName:      map[string][]int{},
		factory:     opts.Collator,
	}
	// The collator and the art picks are locked separately
	if opts.Source != nil {
		set.rng = rand.New(rand.NewSource(opts.Source.Int63()))
	}
	for i, card := range set.catalog {
		_, found := set.byNumber[card.Number]
		if found {
			return nil, fmt.Errorf("%s: %w: %s", code, ErrDuplicateNumber, card.Number)
		}
		set.byNumber[card.Number] = i
		key := Normalize(card.Name)
		set.byName[key] = append(set.byName[key], i)
	}

	collator, err := opts.Collator(collation.Options{Source: opts.Source})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", code, err)
	}
	err = set.validate(collator)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", code, err)
	}
	set.collator = collation.Guard(collator)

	set.printf("Loaded %d cards, %d slots per booster", len(set.catalog), opts.Composition.Size())
	return &set, nil
}

func (s *Set) validate(collator collation.BoosterCollator) error {
	describer, ok := collator.(collation.Describer)
	if !ok {
		return s.probe()
	}

	expected := s.Composition.Counts()
	counts := describer.Counts()
	if describer.Size() != s.Composition.Size() || len(counts) != len(expected) {
		return fmt.Errorf("%w: %v vs %v", ErrCompositionMismatch, counts, expected)
	}
	for label, count := range expected {
		if counts[label] != count {
			return fmt.Errorf("%w: %d %s slots, expected %d", ErrCompositionMismatch, counts[label], label, count)
		}
	}

	for label, runs := range describer.RunsByRarity() {
		for _, run := range runs {
			for _, slot := range run.Slots() {
				card, found := s.Card(slot)
				if !found {
					return fmt.Errorf("%w: %s in %s sheet", ErrUnknownSlot, slot, label)
				}
				if card.Rarity.Label() != label {
					return fmt.Errorf("%w: %s in %s sheet", ErrRarityMismatch, card, label)
				}
			}
		}
	}
	return nil
}

// Collators that cannot describe themselves are checked by opening one
// pack from a separate instance, so that the live sheets are untouched.
func (s *Set) probe() error {
	collator, err := s.factory(collation.Options{})
	if err != nil {
		return err
	}
	booster := collator.MakeBooster()
	if len(booster) != s.Composition.Size() {
		return fmt.Errorf("%w: %d slots, expected %d", ErrCompositionMismatch, len(booster), s.Composition.Size())
	}
	for _, slot := range booster {
		_, found := s.Card(slot)
		if !found {
			return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
		}
	}
	return nil
}

// Collator returns the synchronized collator backing the set.
func (s *Set) Collator() collation.BoosterCollator {
	return s.collator
}

// MakeSlots opens a pack and returns its raw slot identifiers. A pack that
// does not match the composition is never returned.
func (s *Set) MakeSlots() ([]string, error) {
	slots := s.collator.MakeBooster()
	if len(slots) != s.Composition.Size() {
		return nil, fmt.Errorf("%s: %w: %d slots, expected %d", s.Code, ErrCompositionMismatch, len(slots), s.Composition.Size())
	}
	return slots, nil
}

// MakeBooster opens a pack and resolves every slot to a printing of the
// catalog. Slots of variable art cards resolve to any of the arts.
func (s *Set) MakeBooster() ([]CardInfo, error) {
	slots, err := s.MakeSlots()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booster := make([]CardInfo, 0, len(slots))
	for _, slot := range slots {
		card, found := s.Card(slot)
		if !found {
			return nil, fmt.Errorf("%s: %w: %s", s.Code, ErrUnknownSlot, slot)
		}
		if card.VariousArt {
			card = s.pickArt(card)
		}
		booster = append(booster, card)
	}
	return booster, nil
}

func (s *Set) pickArt(card CardInfo) CardInfo {
	var arts []int
	for _, i := range s.byName[Normalize(card.Name)] {
		if s.catalog[i].VariousArt {
			arts = append(arts, i)
		}
	}
	if len(arts) < 2 {
		return card
	}
	var n int
	if s.rng == nil {
		n = rand.Intn(len(arts))
	} else {
		n = s.rng.Intn(len(arts))
	}
	return s.catalog[arts[n]]
}

// Card looks up a printing by collector number.
func (s *Set) Card(number string) (CardInfo, bool) {
	i, found := s.byNumber[number]
	if !found {
		return CardInfo{}, false
	}
	return s.catalog[i], true
}

// FindByName returns every printing of a card, ignoring case, accents and
// punctuation.
func (s *Set) FindByName(name string) []CardInfo {
	var out []CardInfo
	for _, i := range s.byName[Normalize(name)] {
		out = append(out, s.catalog[i])
	}
	return out
}

// Catalog returns a copy of the cards, sorted by collector number.
func (s *Set) Catalog() []CardInfo {
	out := append([]CardInfo(nil), s.catalog...)
	sort.SliceStable(out, func(i, j int) bool {
		return LessNumber(out[i].Number, out[j].Number)
	})
	return out
}

// LessNumber orders collector numbers: numeric ones by value, then by
// suffix, anything else after them.
func LessNumber(a, b string) bool {
	var na, nb int
	_, errA := fmt.Sscanf(a, "%d", &na)
	_, errB := fmt.Sscanf(b, "%d", &nb)
	switch {
	case errA == nil && errB == nil && na != nb:
		return na < nb
	case errA == nil && errB != nil:
		return true
	case errA != nil && errB == nil:
		return false
	}
	return a < b
}

// OptionsFromMTGJSON fills the metadata and catalog of an expansion from
// MTGJSON data, leaving the composition and collator to the caller.
func OptionsFromMTGJSON(set *mtgjson.Set) (Options, error) {
	catalog, err := CatalogFromMTGJSON(set)
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", set.Code, err)
	}
	opts := Options{
		Code:    set.Code,
		Name:    set.Name,
		Type:    set.Type,
		Catalog: catalog,
	}
	if set.ReleaseDate != "" {
		opts.ReleaseDate, err = time.Parse("2006-01-02", set.ReleaseDate)
		if err != nil {
			return Options{}, fmt.Errorf("%s: %w", set.Code, err)
		}
	}
	return opts, nil
}
