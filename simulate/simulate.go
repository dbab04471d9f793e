// Package simulate opens large numbers of boosters to measure how often
// every slot comes up.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/mtgban/go-mtgcollate/collation"
)

const (
	DefaultPacks       = 10000
	DefaultConcurrency = 8

	// How often progress is reported
	progressStep = 10000
)

var (
	ErrShortPack = errors.New("booster size differs from the expected size")
	ErrNoPacks   = errors.New("no packs to open")
)

type LogCallbackFunc func(format string, a ...interface{})

type Simulator struct {
	LogCallback LogCallbackFunc

	// Number of boosters to open, DefaultPacks when zero
	Packs int

	// Number of goroutines opening packs, DefaultConcurrency when zero
	Concurrency int

	// Expected booster size, when zero it is taken from the collator if
	// it reports one, or from the first pack
	Size int
}

type SlotCount struct {
	Slot  string `json:"slot"`
	Count int    `json:"count"`

	// Average copies per booster
	Rate float64 `json:"rate"`
}

type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type Report struct {
	Packs    int `json:"packs"`
	Size     int `json:"size"`
	Distinct int `json:"distinct"`

	// Slot pull counts, most frequent first
	Slots []SlotCount `json:"slots"`

	// Distribution of the pull counts across slots
	Pulls Summary `json:"pulls"`

	// Distribution of repeated slots within a booster
	Duplicates Summary `json:"duplicates"`

	// Slot counts per tier, when the collator describes itself
	Tiers map[string]int `json:"tiers,omitempty"`

	Elapsed time.Duration `json:"elapsed"`
}

type packResult struct {
	index int
	slots []string
}

func (sim *Simulator) printf(format string, a ...interface{}) {
	if sim.LogCallback != nil {
		sim.LogCallback("[SIM] "+format, a...)
	}
}

// Run opens the configured number of boosters from collator, from several
// goroutines at once, and summarizes the pulls. Every booster that does not
// have the expected size is reported through ErrShortPack, along with the
// partial report.
func (sim *Simulator) Run(ctx context.Context, collator collation.BoosterCollator) (*Report, error) {
	packs := sim.Packs
	if packs == 0 {
		packs = DefaultPacks
	}
	if packs < 0 {
		return nil, ErrNoPacks
	}
	concurrency := sim.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	collator = collation.Guard(collator)

	report := Report{
		Packs: packs,
		Size:  sim.Size,
	}
	if report.Size == 0 {
		sizer, ok := collator.(collation.Sizer)
		if ok {
			report.Size = sizer.Size()
		}
	}
	describer, ok := collator.(collation.Describer)
	if ok {
		report.Tiers = describer.Counts()
	}

	start := time.Now()

	var wg sync.WaitGroup
	repeatsChannel := make(chan int)
	channel := make(chan packResult)

	for j := 0; j < concurrency; j++ {
		wg.Add(1)
		go func() {
			for i := range repeatsChannel {
				channel <- packResult{
					index: i,
					slots: collator.MakeBooster(),
				}
			}
			wg.Done()
		}()
	}

	go func() {
	loop:
		for j := 0; j < packs; j++ {
			select {
			case <-ctx.Done():
				break loop
			case repeatsChannel <- j:
			}
		}
		close(repeatsChannel)

		wg.Wait()
		close(channel)
	}()

	counts := map[string]int{}
	var duplicates []float64
	var shortPacks []int
	opened := 0
	for result := range channel {
		opened++
		if opened%progressStep == 0 {
			sim.printf("Opened %d/%d packs", opened, packs)
		}

		if report.Size == 0 {
			report.Size = len(result.slots)
		}
		if len(result.slots) != report.Size {
			shortPacks = append(shortPacks, result.index)
		}

		seen := map[string]bool{}
		dupes := 0
		for _, slot := range result.slots {
			counts[slot]++
			if seen[slot] {
				dupes++
			}
			seen[slot] = true
		}
		duplicates = append(duplicates, float64(dupes))
	}
	report.Packs = opened
	report.Elapsed = time.Since(start)

	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	var pulls []float64
	for slot, count := range counts {
		report.Slots = append(report.Slots, SlotCount{
			Slot:  slot,
			Count: count,
			Rate:  float64(count) / float64(opened),
		})
		pulls = append(pulls, float64(count))
	}
	sort.Slice(report.Slots, func(i, j int) bool {
		if report.Slots[i].Count == report.Slots[j].Count {
			return report.Slots[i].Slot < report.Slots[j].Slot
		}
		return report.Slots[i].Count > report.Slots[j].Count
	})
	report.Distinct = len(report.Slots)

	report.Pulls, err = summarize(pulls)
	if err != nil {
		return nil, err
	}
	report.Duplicates, err = summarize(duplicates)
	if err != nil {
		return nil, err
	}

	sim.printf("Opened %d packs with %d distinct slots in %v", opened, report.Distinct, report.Elapsed)

	if len(shortPacks) > 0 {
		sort.Ints(shortPacks)
		return &report, fmt.Errorf("%w: %d packs, first one is #%d", ErrShortPack, len(shortPacks), shortPacks[0])
	}
	return &report, nil
}

func summarize(values []float64) (Summary, error) {
	var summary Summary
	if len(values) == 0 {
		return summary, nil
	}

	var err error
	summary.Mean, err = stats.Mean(values)
	if err != nil {
		return summary, err
	}
	summary.Median, err = stats.Median(values)
	if err != nil {
		return summary, err
	}
	summary.StdDev, err = stats.StandardDeviation(values)
	if err != nil {
		return summary, err
	}
	summary.Min, err = stats.Min(values)
	if err != nil {
		return summary, err
	}
	summary.Max, err = stats.Max(values)
	if err != nil {
		return summary, err
	}
	return summary, nil
}

// Rate returns the average copies per booster of slot.
func (r *Report) Rate(slot string) float64 {
	for _, count := range r.Slots {
		if count.Slot == slot {
			return count.Rate
		}
	}
	return 0
}
