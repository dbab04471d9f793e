package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/scizorman/go-ndjson"

	"github.com/mtgban/go-mtgcollate/collation"
	"github.com/mtgban/go-mtgcollate/config"
	"github.com/mtgban/go-mtgcollate/dataio"
	"github.com/mtgban/go-mtgcollate/expansion"
	"github.com/mtgban/go-mtgcollate/sets"
	"github.com/mtgban/go-mtgcollate/simulate"
)

var SetCodeOpt *string
var NumberOfBoosters *int
var ConcurrencyOpt *int
var OutputOpt *string
var FormatOpt *string
var PolicyOpt *string
var SeedOpt *int64

type Output struct {
	SetCode string           `json:"set_code"`
	Name    string           `json:"name"`
	Policy  string           `json:"policy"`
	Report  *simulate.Report `json:"report"`
}

// One line per slot, for ndjson
type slotLine struct {
	SetCode string `json:"set_code"`
	Name    string `json:"name"`
	Rarity  string `json:"rarity"`
	simulate.SlotCount
}

func writeReport(w io.Writer, set *expansion.Set, policy collation.RepeatPolicy, report *simulate.Report, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(&Output{
			SetCode: set.Code,
			Name:    set.Name,
			Policy:  policy.String(),
			Report:  report,
		})
	case "ndjson":
		var lines []slotLine
		for _, slot := range report.Slots {
			card, _ := set.Card(slot.Slot)
			lines = append(lines, slotLine{
				SetCode:   set.Code,
				Name:      card.Name,
				Rarity:    card.Rarity.String(),
				SlotCount: slot,
			})
		}
		output, err := ndjson.Marshal(lines)
		if err != nil {
			return err
		}
		_, err = w.Write(output)
		return err
	}
	return errors.New("invalid format")
}

// Remote objects are only committed on Close, so the writer is closed on
// every path and the first error is kept.
func saveReport(ctx context.Context, store *dataio.Store, path string, set *expansion.Set, policy collation.RepeatPolicy, report *simulate.Report, format string) (err error) {
	if format != "json" && format != "ndjson" {
		return errors.New("invalid format")
	}

	writer, err := store.Create(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		cerr := writer.Close()
		if err == nil {
			err = cerr
		}
	}()

	return writeReport(writer, set, policy, report, format)
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var policy collation.RepeatPolicy
	switch *PolicyOpt {
	case "structure":
		policy = collation.AvoidRepeatStructure
	case "entry":
		policy = collation.AvoidRepeatEntry
	default:
		fmt.Fprintln(os.Stderr, "unknown policy", *PolicyOpt)
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

	registry, err := sets.Default(sets.Options{
		Policy:      policy,
		Source:      rng,
		LogCallback: log.Printf,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	set, err := registry.Get(*SetCodeOpt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	concurrency := *ConcurrencyOpt
	if concurrency == 0 {
		concurrency = cfg.MaxConcurrency
	}
	sim := simulate.Simulator{
		Packs:       *NumberOfBoosters,
		Concurrency: concurrency,
		Size:        set.Composition.Size(),
		LogCallback: log.Printf,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	report, err := sim.Run(ctx, set.Collator())
	if errors.Is(err, simulate.ErrShortPack) {
		color.Red("%s", err)
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *OutputOpt == "-" {
		err = writeReport(os.Stdout, set, policy, report, *FormatOpt)
	} else {
		err = saveReport(ctx, dataio.New(cfg.Storage), *OutputOpt, set, policy, report, *FormatOpt)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *OutputOpt != "-" {
		color.Green("Report for %s saved to %s", set.Code, *OutputOpt)
	}

	return 0
}

func main() {
	SetCodeOpt = flag.String("s", "", "Set code to simulate")
	NumberOfBoosters = flag.Int("n", simulate.DefaultPacks, "Number of boosters to open")
	ConcurrencyOpt = flag.Int("j", 0, "Number of concurrent openers (defaults to MAX_CONCURRENCY)")
	OutputOpt = flag.String("o", "-", "Output path, local or gs:// or b2://, compressed when ending in .xz or .bz2")
	FormatOpt = flag.String("format", "json", "Output format (json/ndjson)")
	PolicyOpt = flag.String("policy", "structure", "How print sheet layouts avoid repeating (structure/entry)")
	SeedOpt = flag.Int64("seed", 0, "Seed for reproducible boosters")

	flag.Parse()

	if *SetCodeOpt == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	os.Exit(run())
}
