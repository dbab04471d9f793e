package collation

import (
	"fmt"
)

// BoosterStructure is a fixed recipe of draws producing one contiguous
// segment of a pack. Runs are shared references: listing the same run
// several times draws several consecutive slots from that sheet, and sibling
// structures built on the same runs advance the same cursors.
type BoosterStructure struct {
	Name string

	runs []*CardRun
}

func NewBoosterStructure(runs ...*CardRun) (*BoosterStructure, error) {
	return NewNamedBoosterStructure("", runs...)
}

func NewNamedBoosterStructure(name string, runs ...*CardRun) (*BoosterStructure, error) {
	component := "booster structure"
	if name != "" {
		component += " " + name
	}
	if len(runs) == 0 {
		return nil, configError(component, ErrEmptyStructure)
	}
	for i, run := range runs {
		if run == nil {
			return nil, configError(fmt.Sprintf("%s position %d", component, i), ErrEmptyStructure)
		}
	}

	return &BoosterStructure{
		Name: name,
		runs: append([]*CardRun(nil), runs...),
	}, nil
}

// MakeRun draws one slot from each run occurrence, in declared order.
func (bs *BoosterStructure) MakeRun() []string {
	out := make([]string, 0, len(bs.runs))
	for _, run := range bs.runs {
		out = append(out, run.Next())
	}
	return out
}

// Len is the number of slots produced by every MakeRun call.
func (bs *BoosterStructure) Len() int {
	return len(bs.runs)
}

// Runs returns the distinct runs of the structure, in order of first use.
func (bs *BoosterStructure) Runs() []*CardRun {
	var out []*CardRun
	seen := map[*CardRun]bool{}
	for _, run := range bs.runs {
		if seen[run] {
			continue
		}
		seen[run] = true
		out = append(out, run)
	}
	return out
}

func (bs *BoosterStructure) String() string {
	if bs.Name != "" {
		return bs.Name
	}
	return fmt.Sprintf("structure(%d)", len(bs.runs))
}
