package expansion

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry keeps track of the expansions that can be opened, keyed by
// their uppercase code.
type Registry struct {
	LogCallback LogCallbackFunc

	mu   sync.RWMutex
	sets map[string]*Set
}

// Return an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		sets: map[string]*Set{},
	}
}

func (r *Registry) printf(format string, a ...interface{}) {
	if r.LogCallback != nil {
		r.LogCallback("[REG] "+format, a...)
	}
}

// Add a Set to the registry, failing if its code is already taken
func (r *Registry) Register(set *Set) error {
	if set == nil {
		return ErrNilSet
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, found := r.sets[set.Code]
	if found {
		return fmt.Errorf("%w: %s", ErrDuplicateExpansion, set.Code)
	}
	r.sets[set.Code] = set
	r.printf("Registered %s (%s)", set.Code, set.Name)
	return nil
}

// Return the Set with a matching code, in any case
func (r *Registry) Get(code string) (*Set, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, found := r.sets[strings.ToUpper(code)]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExpansion, code)
	}
	return set, nil
}

// Return the sorted list of registered codes
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.sets))
	for code := range r.sets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Return a new slice containing all the sets registered, by release date
func (r *Registry) Sets() []*Set {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sets := make([]*Set, 0, len(r.sets))
	for _, set := range r.sets {
		sets = append(sets, set)
	}
	sort.Slice(sets, func(i, j int) bool {
		if sets[i].ReleaseDate.Equal(sets[j].ReleaseDate) {
			return sets[i].Code < sets[j].Code
		}
		return sets[i].ReleaseDate.Before(sets[j].ReleaseDate)
	})
	return sets
}

// Open a pack of the expansion with the given code
func (r *Registry) MakeBooster(code string) ([]CardInfo, error) {
	set, err := r.Get(code)
	if err != nil {
		return nil, err
	}
	return set.MakeBooster()
}
