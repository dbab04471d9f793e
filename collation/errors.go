package collation

import (
	"errors"
	"fmt"
)

var ErrEmptyRun = errors.New("card run has no slots")
var ErrEmptySlot = errors.New("empty slot identifier")
var ErrEmptyStructure = errors.New("booster structure has no runs")
var ErrEmptyConfiguration = errors.New("rarity configuration has no candidates")
var ErrSlotCountMismatch = errors.New("candidates produce a different number of slots")
var ErrEmptyCollator = errors.New("collator has no tiers")
var ErrUnknownName = errors.New("unknown name")
var ErrDuplicateName = errors.New("name already defined")

// ConfigError reports which component of a collation setup is invalid.
// It unwraps to one of the sentinel errors of this package.
type ConfigError struct {
	Component string
	Err       error
}

func (err *ConfigError) Error() string {
	return fmt.Sprintf("collation: %s: %s", err.Component, err.Err.Error())
}

func (err *ConfigError) Unwrap() error {
	return err.Err
}

func configError(component string, err error) error {
	return &ConfigError{
		Component: component,
		Err:       err,
	}
}
