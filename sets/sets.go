// Package sets contains the print sheets of the expansions that can be
// opened, together with their embedded catalogs.
package sets

import (
	"bytes"
	"math/rand"

	"github.com/mtgban/go-mtgcollate/collation"
	"github.com/mtgban/go-mtgcollate/expansion"
	"github.com/mtgban/go-mtgcollate/mtgjson"
)

type Options struct {
	// How rarity configurations avoid repeating the previous layout
	Policy collation.RepeatPolicy

	// Seed for every set of a registry, nil means the global generator
	Source *rand.Rand

	LogCallback expansion.LogCallbackFunc
}

type constructor func(opts Options) (*expansion.Set, error)

var constructors = []constructor{
	Tempest,
}

// Default returns a registry containing every known expansion.
func Default(opts Options) (*expansion.Registry, error) {
	registry := expansion.NewRegistry()
	registry.LogCallback = opts.LogCallback

	for _, newSet := range constructors {
		setOpts := opts
		// Each set gets its own stream, so that sets may be opened in parallel
		if opts.Source != nil {
			setOpts.Source = rand.New(rand.NewSource(opts.Source.Int63()))
		}
		set, err := newSet(setOpts)
		if err != nil {
			return nil, err
		}
		err = registry.Register(set)
		if err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func loadSet(data []byte, composition expansion.Composition, factory expansion.Factory, opts Options) (*expansion.Set, error) {
	set, err := mtgjson.LoadSet(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	setOpts, err := expansion.OptionsFromMTGJSON(set)
	if err != nil {
		return nil, err
	}

	setOpts.Composition = composition
	setOpts.Source = opts.Source
	setOpts.LogCallback = opts.LogCallback
	setOpts.Collator = func(collatorOpts collation.Options) (collation.BoosterCollator, error) {
		collatorOpts.Policy = opts.Policy
		return factory(collatorOpts)
	}
	return expansion.NewSet(setOpts)
}
