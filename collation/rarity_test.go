package collation

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

const frequencyTrials = 100000
const frequencyTolerance = 0.05

func structures(t *testing.T, names ...string) map[string]*BoosterStructure {
	t.Helper()

	a, _ := NewCardRun(true, numbered("a", 60)...)
	b, _ := NewCardRun(true, numbered("b", 60)...)
	out := map[string]*BoosterStructure{}
	for _, name := range names {
		var runs []*CardRun
		for _, r := range name {
			if r == 'A' {
				runs = append(runs, a)
			} else {
				runs = append(runs, b)
			}
		}
		bs, err := NewNamedBoosterStructure(name, runs...)
		if err != nil {
			t.Fatalf("FAIL: Unexpected error: %s", err)
		}
		out[name] = bs
	}
	return out
}

func frequencies(rc *RarityConfiguration, trials int) (map[*BoosterStructure]float64, int) {
	counts := map[*BoosterStructure]int{}
	repeats := 0
	var last *BoosterStructure
	for i := 0; i < trials; i++ {
		bs := rc.GetNext()
		if bs == last {
			repeats++
		}
		last = bs
		counts[bs]++
	}
	out := map[*BoosterStructure]float64{}
	for bs, count := range counts {
		out[bs] = float64(count) / float64(trials)
	}
	return out, repeats
}

func TestRarityConfigurationNoImmediateRepeat(t *testing.T) {
	s := structures(t, "AAAABB", "AAABBB", "BBBAAA", "BBBBAA")
	rc, err := NewRarityConfigurationWithOptions(Options{
		Source: rand.New(rand.NewSource(1)),
	}, s["AAAABB"], s["AAABBB"], s["AAABBB"], s["BBBAAA"], s["BBBAAA"], s["BBBBAA"])
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err)
	}

	_, repeats := frequencies(rc, 5000)
	if repeats != 0 {
		t.Errorf("FAIL: the same structure was picked twice in a row %d times", repeats)
	}
}

func TestRarityConfigurationSingleCandidate(t *testing.T) {
	s := structures(t, "AAA")
	rc, err := NewRarityConfiguration(s["AAA"])
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err)
	}
	for i := 0; i < 100; i++ {
		if rc.GetNext() != s["AAA"] {
			t.Errorf("FAIL: single candidate configuration returned something else")
			return
		}
	}
}

func TestRarityConfigurationWeights(t *testing.T) {
	s := structures(t, "AAAABB", "AAABBB", "BBBAAA", "BBBBAA")
	rc, err := NewRarityConfiguration(s["AAAABB"], s["AAABBB"], s["AAABBB"], s["BBBAAA"], s["BBBAAA"], s["BBBBAA"])
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err)
	}

	expected := map[string]int{"AAAABB": 1, "AAABBB": 2, "BBBAAA": 2, "BBBBAA": 1}
	for name, weight := range expected {
		if rc.Weight(s[name]) != weight {
			t.Errorf("FAIL: %s has weight %d, expected %d", name, rc.Weight(s[name]), weight)
		}
	}
	if len(rc.Candidates()) != 6 {
		t.Errorf("FAIL: candidate list was not preserved")
	}
	if rc.Len() != 6 {
		t.Errorf("FAIL: configuration size is %d", rc.Len())
	}
}

func TestRarityConfigurationFrequencies(t *testing.T) {
	tests := []struct {
		Name       string
		Policy     RepeatPolicy
		Candidates []string
	}{
		{
			Name:       "sheet pairings by structure",
			Policy:     AvoidRepeatStructure,
			Candidates: []string{"AAAABB", "AAABBB", "AAABBB", "BBBAAA", "BBBAAA", "BBBBAA"},
		},
		{
			Name:       "uniform layouts by structure",
			Policy:     AvoidRepeatStructure,
			Candidates: []string{"AAABB", "BBBAA", "AABBB", "BBAAA"},
		},
		{
			Name:       "sheet pairings by entry",
			Policy:     AvoidRepeatEntry,
			Candidates: []string{"AAAABB", "AAABBB", "AAABBB", "BBBAAA", "BBBAAA", "BBBBAA"},
		},
		{
			Name:       "four to one by entry",
			Policy:     AvoidRepeatEntry,
			Candidates: []string{"AAB", "AAB", "AAB", "AAB", "BBA"},
		},
	}

	for _, probe := range tests {
		test := probe
		t.Run(test.Name, func(t *testing.T) {
			t.Parallel()

			s := structures(t, test.Candidates...)
			var candidates []*BoosterStructure
			for _, name := range test.Candidates {
				candidates = append(candidates, s[name])
			}
			rc, err := NewRarityConfigurationWithOptions(Options{
				Policy: test.Policy,
				Source: rand.New(rand.NewSource(int64(42+len(test.Name)))),
			}, candidates...)
			if err != nil {
				t.Fatalf("FAIL: Unexpected error: %s", err)
			}

			freqs, _ := frequencies(rc, frequencyTrials)
			for name, bs := range s {
				target := float64(rc.Weight(bs)) / float64(len(candidates))
				if math.Abs(freqs[bs]-target) > frequencyTolerance {
					t.Errorf("FAIL: %s picked %.3f of the time, expected %.3f", name, freqs[bs], target)
				}
			}
		})
	}
}

func TestRarityConfigurationFourToOneByEntry(t *testing.T) {
	s := structures(t, "X", "Y")
	x, y := s["X"], s["Y"]
	rc, err := NewRarityConfigurationWithOptions(Options{
		Policy: AvoidRepeatEntry,
		Source: rand.New(rand.NewSource(3)),
	}, x, x, x, x, y)
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err)
	}

	var last *BoosterStructure
	xCount := 0
	for i := 0; i < frequencyTrials; i++ {
		bs := rc.GetNext()
		if bs == y && last == y {
			t.Errorf("FAIL: the single Y entry was picked twice in a row")
			return
		}
		if bs == x {
			xCount++
		}
		last = bs
	}
	ratio := float64(xCount) / frequencyTrials
	if math.Abs(ratio-0.8) > frequencyTolerance {
		t.Errorf("FAIL: X picked %.3f of the time, expected 0.8", ratio)
	}
}

// With identity exclusion a 4:1 list can only alternate, the weights cannot
// be honored once X may not follow X.
func TestRarityConfigurationFourToOneByStructure(t *testing.T) {
	s := structures(t, "X", "Y")
	x, y := s["X"], s["Y"]
	rc, err := NewRarityConfiguration(x, x, x, x, y)
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err)
	}

	last := rc.GetNext()
	for i := 0; i < 1000; i++ {
		bs := rc.GetNext()
		if bs == last {
			t.Errorf("FAIL: %s repeated at trial %d", bs, i)
			return
		}
		last = bs
	}
}

func TestRarityConfigurationErrors(t *testing.T) {
	_, err := NewRarityConfiguration()
	if !errors.Is(err, ErrEmptyConfiguration) {
		t.Errorf("FAIL: expected ErrEmptyConfiguration, got %v", err)
	}

	s := structures(t, "AAB", "AABB")
	_, err = NewRarityConfiguration(s["AAB"], s["AABB"])
	if !errors.Is(err, ErrSlotCountMismatch) {
		t.Errorf("FAIL: expected ErrSlotCountMismatch, got %v", err)
	}

	_, err = NewRarityConfiguration(s["AAB"], nil)
	if !errors.Is(err, ErrEmptyStructure) {
		t.Errorf("FAIL: expected ErrEmptyStructure, got %v", err)
	}

	_, err = NewRarityConfigurationWithOptions(Options{Policy: RepeatPolicy(9)}, s["AAB"])
	if err == nil {
		t.Errorf("FAIL: unknown policy was accepted")
	}
}
