package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"golang.org/x/exp/slices"

	"github.com/mtgban/go-mtgcollate/collation"
	"github.com/mtgban/go-mtgcollate/expansion"
	"github.com/mtgban/go-mtgcollate/sets"
)

var SetCodeOpt *string

type Entry struct {
	Number string `json:"number"`
	Name   string `json:"name"`

	// How many times the card is printed across the sheets
	Appearances int `json:"appearances"`
}

func compareNumbers(a, b string) int {
	switch {
	case expansion.LessNumber(a, b):
		return -1
	case expansion.LessNumber(b, a):
		return 1
	}
	return 0
}

// List every card that can be found in a booster, by tier, with the number
// of times it appears on the print sheets.
func getListForSet(set *expansion.Set) (map[string][]Entry, error) {
	describer, ok := set.Collator().(collation.Describer)
	if !ok {
		return nil, errors.New("collator cannot list its sheets")
	}

	result := map[string][]Entry{}
	for label, runs := range describer.RunsByRarity() {
		dedup := map[string]int{}
		for _, run := range runs {
			for _, slot := range run.Slots() {
				dedup[slot]++
			}
		}

		var numbers []string
		for number := range dedup {
			numbers = append(numbers, number)
		}
		slices.SortFunc(numbers, compareNumbers)

		for _, number := range numbers {
			card, found := set.Card(number)
			if !found {
				return nil, fmt.Errorf("%s not found in %s", number, set.Code)
			}
			result[label] = append(result[label], Entry{
				Number:      number,
				Name:        card.Name,
				Appearances: dedup[number],
			})
		}
	}

	return result, nil
}

func main() {
	SetCodeOpt = flag.String("s", "", "Set code to choose")

	flag.Parse()

	if *SetCodeOpt == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	os.Exit(run())
}

func run() int {
	registry, err := sets.Default(sets.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	set, err := registry.Get(*SetCodeOpt)
	if err != nil {
		fmt.Fprintln(os.Stderr, *SetCodeOpt, "not found")
		return 1
	}

	result, err := getListForSet(set)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	err = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
		set.Code: result,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}
