package collation

import (
	"fmt"
)

// Builder declares the sheets, structures and tiers of one collator by
// name. Runs and structures live once in the builder and are referenced by
// name, so every structure using a sheet shares its cursor.
//
// The first error encountered is kept and returned by Build; later calls
// are no-ops.
type Builder struct {
	opts Options

	runs       map[string]*CardRun
	structures map[string]*BoosterStructure
	tiers      []Tier

	err error
}

func NewBuilder(opts Options) *Builder {
	return &Builder{
		opts:       opts,
		runs:       map[string]*CardRun{},
		structures: map[string]*BoosterStructure{},
	}
}

// Run declares a print sheet.
func (b *Builder) Run(name string, cyclic bool, slots ...string) *Builder {
	if b.err != nil {
		return b
	}
	if _, found := b.runs[name]; found {
		b.err = configError("run "+name, ErrDuplicateName)
		return b
	}
	run, err := NewCardRunWithSource(b.opts.Source, cyclic, slots...)
	if err != nil {
		b.err = fmt.Errorf("run %s: %w", name, err)
		return b
	}
	b.runs[name] = run
	return b
}

// Structure declares a layout as a sequence of run names, one per slot.
func (b *Builder) Structure(name string, runNames ...string) *Builder {
	if b.err != nil {
		return b
	}
	if _, found := b.structures[name]; found {
		b.err = configError("structure "+name, ErrDuplicateName)
		return b
	}
	runs := make([]*CardRun, 0, len(runNames))
	for _, runName := range runNames {
		run, found := b.runs[runName]
		if !found {
			b.err = configError(fmt.Sprintf("structure %s run %s", name, runName), ErrUnknownName)
			return b
		}
		runs = append(runs, run)
	}
	bs, err := NewNamedBoosterStructure(name, runs...)
	if err != nil {
		b.err = err
		return b
	}
	b.structures[name] = bs
	return b
}

// Tier appends a rarity group choosing among the named structures. Repeat
// a name to increase its weight.
func (b *Builder) Tier(rarity string, structureNames ...string) *Builder {
	if b.err != nil {
		return b
	}
	candidates := make([]*BoosterStructure, 0, len(structureNames))
	for _, name := range structureNames {
		bs, found := b.structures[name]
		if !found {
			b.err = configError(fmt.Sprintf("%s tier structure %s", rarity, name), ErrUnknownName)
			return b
		}
		candidates = append(candidates, bs)
	}
	config, err := NewRarityConfigurationWithOptions(b.opts, candidates...)
	if err != nil {
		b.err = fmt.Errorf("%s tier: %w", rarity, err)
		return b
	}
	b.tiers = append(b.tiers, Tier{
		Rarity: rarity,
		Config: config,
	})
	return b
}

func (b *Builder) Build() (*Collator, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewCollator(b.tiers...)
}
