package collation

import (
	"fmt"
	"math/rand"
)

// CardRun is one physical print sheet: an ordered, immutable list of slot
// identifiers walked by an internal cursor.
//
// A cyclic run starts from its first slot and returns the slots in the
// declared order, wrapping around at the end. A non-cyclic run starts at a
// random position and moves by a random stride coprime to its length, so
// the whole sheet is still returned once before any slot repeats.
type CardRun struct {
	slots  []string
	cyclic bool

	cursor int
	stride int
}

// NewCardRun builds a run using the default random source.
func NewCardRun(cyclic bool, slots ...string) (*CardRun, error) {
	return NewCardRunWithSource(nil, cyclic, slots...)
}

// NewCardRunWithSource builds a run, drawing the starting point and stride of
// non-cyclic runs from rng. A nil rng uses the global generator.
func NewCardRunWithSource(rng *rand.Rand, cyclic bool, slots ...string) (*CardRun, error) {
	if len(slots) == 0 {
		return nil, configError("card run", ErrEmptyRun)
	}
	for i, slot := range slots {
		if slot == "" {
			return nil, configError(fmt.Sprintf("card run position %d", i), ErrEmptySlot)
		}
	}

	run := CardRun{
		slots:  append([]string(nil), slots...),
		cyclic: cyclic,
		stride: 1,
	}
	if !cyclic {
		run.cursor = intN(rng, len(run.slots))
		run.stride = pickStride(rng, len(run.slots))
	}
	return &run, nil
}

// Next returns the slot under the cursor and advances it.
func (run *CardRun) Next() string {
	slot := run.slots[run.cursor]
	run.cursor = (run.cursor + run.stride) % len(run.slots)
	return slot
}

// MakeRun draws a single slot, for runs used directly as a structure.
func (run *CardRun) MakeRun() []string {
	return []string{run.Next()}
}

func (run *CardRun) Len() int {
	return len(run.slots)
}

func (run *CardRun) Cyclic() bool {
	return run.cyclic
}

// Slots returns a copy of the sheet in declared order.
func (run *CardRun) Slots() []string {
	return append([]string(nil), run.slots...)
}

// pickStride returns a random step in [1, n) coprime with n, or 1 when
// the run is too short to have a choice.
func pickStride(rng *rand.Rand, n int) int {
	if n <= 2 {
		return 1
	}
	var strides []int
	for s := 1; s < n; s++ {
		if gcd(s, n) == 1 {
			strides = append(strides, s)
		}
	}
	return strides[intN(rng, len(strides))]
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}
