package simulate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/mtgban/go-mtgcollate/collation"
)

func newCollator(t *testing.T) collation.BoosterCollator {
	t.Helper()

	var commons []string
	for i := 1; i <= 10; i++ {
		commons = append(commons, fmt.Sprintf("c%d", i))
	}
	collator, err := collation.NewBuilder(collation.Options{}).
		Run("C", true, commons...).
		Run("R", false, "r1", "r2").
		Structure("C5", "C", "C", "C", "C", "C").
		Structure("R1", "R").
		Tier("common", "C5").
		Tier("rare", "R1").
		Build()
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err)
	}
	return collator
}

func TestRun(t *testing.T) {
	var logs int32
	sim := Simulator{
		Packs:       2000,
		Concurrency: 4,
		LogCallback: func(format string, a ...interface{}) {
			atomic.AddInt32(&logs, 1)
		},
	}

	report, err := sim.Run(context.Background(), newCollator(t))
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err)
	}
	if report.Packs != 2000 || report.Size != 6 || report.Distinct != 12 {
		t.Errorf("FAIL: unexpected report %d packs %d slots %d distinct", report.Packs, report.Size, report.Distinct)
	}
	if report.Tiers["common"] != 5 || report.Tiers["rare"] != 1 {
		t.Errorf("FAIL: unexpected tiers %v", report.Tiers)
	}

	// Whole passes of the common sheet, every common shows up equally
	for i := 1; i <= 10; i++ {
		slot := fmt.Sprintf("c%d", i)
		if report.Rate(slot) != 0.5 {
			t.Errorf("FAIL: %s has rate %.3f, expected 0.5", slot, report.Rate(slot))
		}
	}
	if math.Abs(report.Rate("r1")-0.5) > 0.001 {
		t.Errorf("FAIL: r1 has rate %.3f, expected 0.5", report.Rate("r1"))
	}
	if report.Duplicates.Max != 0 {
		t.Errorf("FAIL: boosters contain duplicates")
	}
	if report.Pulls.Mean != 1000 {
		t.Errorf("FAIL: unexpected mean pulls %.1f", report.Pulls.Mean)
	}
	if atomic.LoadInt32(&logs) == 0 {
		t.Errorf("FAIL: nothing was logged")
	}
}

// uneven opens one short booster every hundred.
type uneven struct {
	count int
}

func (u *uneven) MakeBooster() []string {
	u.count++
	if u.count%100 == 0 {
		return []string{"a"}
	}
	return []string{"a", "b"}
}

func TestRunShortPack(t *testing.T) {
	sim := Simulator{
		Packs: 1000,
		Size:  2,
	}
	report, err := sim.Run(context.Background(), &uneven{})
	if !errors.Is(err, ErrShortPack) {
		t.Errorf("FAIL: expected ErrShortPack, got %v", err)
	}
	if report == nil || report.Packs != 1000 {
		t.Errorf("FAIL: partial report missing")
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := Simulator{Packs: 1000}
	_, err := sim.Run(ctx, newCollator(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("FAIL: expected context.Canceled, got %v", err)
	}
}

func TestRunNoPacks(t *testing.T) {
	sim := Simulator{Packs: -1}
	_, err := sim.Run(context.Background(), newCollator(t))
	if !errors.Is(err, ErrNoPacks) {
		t.Errorf("FAIL: expected ErrNoPacks, got %v", err)
	}
}
