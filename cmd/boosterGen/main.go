package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"

	"github.com/mtgban/go-mtgcollate/collation"
	"github.com/mtgban/go-mtgcollate/config"
	"github.com/mtgban/go-mtgcollate/dataio"
	"github.com/mtgban/go-mtgcollate/mtgjson"
	"github.com/mtgban/go-mtgcollate/sets"
	"github.com/mtgban/go-mtgcollate/sheets"
)

var SetCodeOpt *string
var NumberOfBoosters *int
var BoosterTypeOpt *string
var AllPrintingsOpt *string
var SeedOpt *int64
var FormatOpt *string
var PolicyOpt *string
var ListOpt *bool
var VerboseOpt *bool

func policy() (collation.RepeatPolicy, error) {
	switch *PolicyOpt {
	case "structure":
		return collation.AvoidRepeatStructure, nil
	case "entry":
		return collation.AvoidRepeatEntry, nil
	}
	return 0, fmt.Errorf("unknown policy %s", *PolicyOpt)
}

// Open boosters from the print sheets of a known expansion
func collatedPacks(cfg config.Config, rng *rand.Rand) ([]Pack, error) {
	repeatPolicy, err := policy()
	if err != nil {
		return nil, err
	}
	opts := sets.Options{
		Policy: repeatPolicy,
		Source: rng,
	}
	if *VerboseOpt {
		opts.LogCallback = log.Printf
	}

	registry, err := sets.Default(opts)
	if err != nil {
		return nil, err
	}
	if *ListOpt {
		for _, set := range registry.Sets() {
			fmt.Printf("%s\t%s\t%s\t%d cards\n", set.Code, set.Name, set.ReleaseDate.Format("2006-01-02"), set.Composition.Size())
		}
		return nil, nil
	}

	set, err := registry.Get(*SetCodeOpt)
	if err != nil {
		return nil, err
	}

	var packs []Pack
	for i := 0; i < *NumberOfBoosters; i++ {
		booster, err := set.MakeBooster()
		if err != nil {
			return nil, err
		}

		pack := Pack{
			Id:      uuid.NewString(),
			SetCode: set.Code,
		}
		for _, card := range booster {
			pack.Cards = append(pack.Cards, Card{
				Number: card.Number,
				Name:   card.Name,
				Rarity: card.Rarity.String(),
			})
		}
		packs = append(packs, pack)
	}
	return packs, nil
}

// Open boosters following the sheets published by MTGJSON
func sheetPacks(cfg config.Config, rng *rand.Rand) ([]Pack, error) {
	allprintingsPath := *AllPrintingsOpt
	if allprintingsPath == "" {
		allprintingsPath = cfg.AllPrintingsPath
	}

	store := dataio.New(cfg.Storage)
	reader, err := store.Open(context.Background(), allprintingsPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	allprints, err := mtgjson.LoadAllPrintings(reader)
	if err != nil {
		return nil, err
	}
	if *VerboseOpt {
		log.Printf("Loaded %d sets from AllPrintings %s", len(allprints.Data), allprints.Meta.Version)
	}

	set, found := allprints.Data[strings.ToUpper(*SetCodeOpt)]
	if !found {
		return nil, fmt.Errorf("%s not found", *SetCodeOpt)
	}
	if set.Booster == nil {
		return nil, fmt.Errorf("%s does not have booster information", set.Code)
	}
	booster, found := set.Booster[*BoosterTypeOpt]
	if !found {
		return nil, fmt.Errorf("booster type %s not found for %s", *BoosterTypeOpt, set.Code)
	}

	// Sheets may contain printings from other sets
	cards := map[string]mtgjson.Card{}
	for _, other := range allprints.Data {
		for id, card := range other.CardsByUUID() {
			cards[id] = card
		}
	}

	collator, err := sheets.New(booster, cards, sheets.Options{Source: rng})
	if err != nil {
		return nil, err
	}

	var packs []Pack
	for i := 0; i < *NumberOfBoosters; i++ {
		pack := Pack{
			Id:      uuid.NewString(),
			SetCode: set.Code,
		}
		for _, pick := range collator.MakePicks() {
			co := cards[pick.CardId]
			pack.Cards = append(pack.Cards, Card{
				Number: co.Number,
				Name:   co.Name,
				Rarity: co.Rarity,
				Sheet:  pick.Sheet,
				Foil:   pick.Foil,
				UUID:   pick.CardId,

				Finish:    finish(co, pick),
				Treatment: treatment(co),
			})
		}
		packs = append(packs, pack)
	}
	return packs, nil
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	seed := *SeedOpt
	if seed == 0 {
		seed = cfg.Seed
	}
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}

	var packs []Pack
	useSheets := *AllPrintingsOpt != "" || (cfg.AllPrintingsPath != "" && *BoosterTypeOpt != "")
	if useSheets && !*ListOpt {
		if *BoosterTypeOpt == "" {
			*BoosterTypeOpt = "default"
		}
		packs, err = sheetPacks(cfg, rng)
	} else {
		packs, err = collatedPacks(cfg, rng)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *ListOpt {
		return 0
	}

	err = writePacks(os.Stdout, packs, *FormatOpt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func main() {
	SetCodeOpt = flag.String("s", "", "Set code to choose")
	NumberOfBoosters = flag.Int("n", 1, "Number of boosters to generate")
	BoosterTypeOpt = flag.String("t", "", "Type of booster to pick from MTGJSON sheets (default/set/collector/...)")
	AllPrintingsOpt = flag.String("a", "", "Load AllPrintings file path or url, enables MTGJSON sheets")
	SeedOpt = flag.Int64("seed", 0, "Seed for reproducible boosters")
	FormatOpt = flag.String("format", "text", "Output format (text/json/csv/ndjson)")
	PolicyOpt = flag.String("policy", "structure", "How print sheet layouts avoid repeating (structure/entry)")
	ListOpt = flag.Bool("l", false, "List the expansions with print sheets")
	VerboseOpt = flag.Bool("v", false, "Log progress to stderr")

	flag.Parse()

	if *SetCodeOpt == "" && !*ListOpt {
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *NumberOfBoosters < 1 {
		fmt.Fprintln(os.Stderr, "at least one booster is needed")
		os.Exit(1)
	}

	os.Exit(run())
}
