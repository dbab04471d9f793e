package sheets

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/mtgban/go-mtgcollate/mtgjson"
)

var testCards = map[string]mtgjson.Card{
	"w":  {Name: "Soltari Foot Soldier", Colors: []string{"W"}},
	"u":  {Name: "Dream Cache", Colors: []string{"U"}},
	"b":  {Name: "Dark Ritual", Colors: []string{"B"}},
	"r":  {Name: "Shock", Colors: []string{"R"}},
	"g":  {Name: "Rampant Growth", Colors: []string{"G"}},
	"wu": {Name: "Soltari Guerrillas", Colors: []string{"W", "U"}},
	"a1": {Name: "Jalum Tome"},
	"l1": {Name: "Forest"},
}

func seeded(seed int64) Options {
	return Options{Source: rand.New(rand.NewSource(seed))}
}

func TestFixedAndWeightedSheets(t *testing.T) {
	booster := mtgjson.Booster{
		Boosters: []mtgjson.BoosterVariant{
			{Contents: map[string]int{"land": 1, "common": 3}, Weight: 1},
		},
		Sheets: map[string]mtgjson.Sheet{
			"common": {Cards: map[string]int{"w": 1, "u": 1, "b": 1, "r": 1}},
			"land":   {Cards: map[string]int{"l1": 2}, Fixed: true, Foil: true},
		},
	}
	collator, err := New(booster, testCards, seeded(1))
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err)
	}
	if collator.Size() != 5 {
		t.Errorf("FAIL: unexpected size %d", collator.Size())
	}

	picks := collator.MakePicks()
	if len(picks) != 5 {
		t.Fatalf("FAIL: booster has %d cards", len(picks))
	}
	for i, pick := range picks {
		if i < 3 && (pick.Sheet != "common" || pick.Foil) {
			t.Errorf("FAIL: pick %d is %v, expected a nonfoil common", i, pick)
		}
		if i >= 3 && (pick.Sheet != "land" || pick.CardId != "l1" || !pick.Foil) {
			t.Errorf("FAIL: pick %d is %v, expected the fixed land", i, pick)
		}
	}
}

func TestNoDuplicates(t *testing.T) {
	booster := mtgjson.Booster{
		Boosters: []mtgjson.BoosterVariant{
			{Contents: map[string]int{"common": 3}, Weight: 1},
		},
		Sheets: map[string]mtgjson.Sheet{
			"common": {Cards: map[string]int{"w": 10, "u": 1, "b": 1}},
		},
	}
	collator, err := New(booster, testCards, seeded(2))
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err)
	}

	for i := 0; i < 500; i++ {
		seen := map[string]bool{}
		for _, id := range collator.MakeBooster() {
			if seen[id] {
				t.Errorf("FAIL: %s picked twice in booster %d", id, i)
				return
			}
			seen[id] = true
		}
	}
}

func TestBalanceColors(t *testing.T) {
	booster := mtgjson.Booster{
		Boosters: []mtgjson.BoosterVariant{
			{Contents: map[string]int{"common": 6}, Weight: 1},
		},
		Sheets: map[string]mtgjson.Sheet{
			"common": {
				Cards:           map[string]int{"w": 1, "u": 1, "b": 1, "r": 1, "g": 1, "wu": 5, "a1": 5},
				BalanceColors:   true,
				AllowDuplicates: true,
			},
		},
	}
	collator, err := New(booster, testCards, seeded(3))
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err)
	}

	for i := 0; i < 500; i++ {
		colors := map[string]bool{}
		for _, id := range collator.MakeBooster()[:5] {
			card := testCards[id]
			if len(card.Colors) != 1 || colors[card.Colors[0]] {
				t.Errorf("FAIL: booster %d is not balanced on %s", i, card.Name)
				return
			}
			colors[card.Colors[0]] = true
		}
	}
}

func TestVariantWeights(t *testing.T) {
	booster := mtgjson.Booster{
		Boosters: []mtgjson.BoosterVariant{
			{Contents: map[string]int{"a": 1}, Weight: 3},
			{Contents: map[string]int{"b": 1}, Weight: 1},
		},
		Sheets: map[string]mtgjson.Sheet{
			"a": {Cards: map[string]int{"w": 1}},
			"b": {Cards: map[string]int{"u": 1}},
		},
	}

	for _, opts := range []Options{seeded(4), {}} {
		collator, err := New(booster, testCards, opts)
		if err != nil {
			t.Fatalf("FAIL: Unexpected error: %s", err)
		}

		const trials = 20000
		count := 0
		for i := 0; i < trials; i++ {
			if collator.MakeBooster()[0] == "w" {
				count++
			}
		}
		ratio := float64(count) / trials
		if math.Abs(ratio-0.75) > 0.05 {
			t.Errorf("FAIL: first variant picked %.3f of the time, expected 0.75", ratio)
		}
	}
}

func TestSeeded(t *testing.T) {
	booster := mtgjson.Booster{
		Boosters: []mtgjson.BoosterVariant{
			{Contents: map[string]int{"common": 4}, Weight: 1},
		},
		Sheets: map[string]mtgjson.Sheet{
			"common": {Cards: map[string]int{"w": 1, "u": 2, "b": 3, "r": 4, "g": 5}, AllowDuplicates: true},
		},
	}
	one, _ := New(booster, testCards, seeded(5))
	two, _ := New(booster, testCards, seeded(5))
	for i := 0; i < 100; i++ {
		b1 := one.MakeBooster()
		b2 := two.MakeBooster()
		for j := range b1 {
			if b1[j] != b2[j] {
				t.Errorf("FAIL: same seed produced different boosters: %v vs %v", b1, b2)
				return
			}
		}
	}
}

func TestNewErrors(t *testing.T) {
	single := func(count int, sheet mtgjson.Sheet) mtgjson.Booster {
		return mtgjson.Booster{
			Boosters: []mtgjson.BoosterVariant{{Contents: map[string]int{"common": count}, Weight: 1}},
			Sheets:   map[string]mtgjson.Sheet{"common": sheet},
		}
	}

	tests := []struct {
		Name    string
		Booster mtgjson.Booster
		Err     error
	}{
		{
			Name: "no variants",
			Err:  ErrNoVariants,
		},
		{
			Name: "unknown sheet",
			Booster: mtgjson.Booster{
				Boosters: []mtgjson.BoosterVariant{{Contents: map[string]int{"rare": 1}, Weight: 1}},
			},
			Err: ErrUnknownSheet,
		},
		{
			Name:    "only missing cards",
			Booster: single(1, mtgjson.Sheet{Cards: map[string]int{"online": 1}}),
			Err:     ErrEmptySheet,
		},
		{
			Name:    "zero card weight",
			Booster: single(1, mtgjson.Sheet{Cards: map[string]int{"w": 0}}),
			Err:     ErrInvalidWeight,
		},
		{
			Name: "zero variant weight",
			Booster: mtgjson.Booster{
				Boosters: []mtgjson.BoosterVariant{{Contents: map[string]int{"common": 1}}},
				Sheets:   map[string]mtgjson.Sheet{"common": {Cards: map[string]int{"w": 1}}},
			},
			Err: ErrInvalidWeight,
		},
		{
			Name: "variants of different size",
			Booster: mtgjson.Booster{
				Boosters: []mtgjson.BoosterVariant{
					{Contents: map[string]int{"common": 1}, Weight: 1},
					{Contents: map[string]int{"common": 2}, Weight: 1},
				},
				Sheets: map[string]mtgjson.Sheet{"common": {Cards: map[string]int{"w": 1, "u": 1}}},
			},
			Err: ErrSizeMismatch,
		},
		{
			Name:    "too few cards without duplicates",
			Booster: single(3, mtgjson.Sheet{Cards: map[string]int{"w": 1, "u": 1}}),
			Err:     ErrImpossible,
		},
		{
			Name:    "missing color to balance",
			Booster: single(5, mtgjson.Sheet{Cards: map[string]int{"w": 1, "u": 1, "b": 1, "r": 1, "a1": 1}, BalanceColors: true, AllowDuplicates: true}),
			Err:     ErrImpossible,
		},
	}

	for _, probe := range tests {
		test := probe
		t.Run(test.Name, func(t *testing.T) {
			t.Parallel()
			_, err := New(test.Booster, testCards, Options{})
			if !errors.Is(err, test.Err) {
				t.Errorf("FAIL: expected %v, got %v", test.Err, err)
			}
		})
	}
}

func TestNewFromSet(t *testing.T) {
	set := &mtgjson.Set{
		Code: "TST",
		Cards: []mtgjson.Card{
			{Name: "Dark Ritual", UUID: "b", Colors: []string{"B"}},
		},
		Booster: map[string]mtgjson.Booster{
			"default": {
				Boosters: []mtgjson.BoosterVariant{{Contents: map[string]int{"common": 1}, Weight: 1}},
				Sheets:   map[string]mtgjson.Sheet{"common": {Cards: map[string]int{"b": 1}}},
			},
		},
	}

	collator, err := NewFromSet(set, "default", Options{})
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err)
	}
	if booster := collator.MakeBooster(); len(booster) != 1 || booster[0] != "b" {
		t.Errorf("FAIL: unexpected booster %v", booster)
	}

	_, err = NewFromSet(set, "collector", Options{})
	if !errors.Is(err, ErrUnknownBooster) {
		t.Errorf("FAIL: expected ErrUnknownBooster, got %v", err)
	}
}
