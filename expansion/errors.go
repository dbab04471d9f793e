package expansion

import "errors"

var (
	ErrUnknownRarity       = errors.New("unknown rarity")
	ErrEmptyCatalog        = errors.New("empty catalog")
	ErrDuplicateNumber     = errors.New("duplicate collector number")
	ErrNoCollator          = errors.New("missing collator")
	ErrCompositionMismatch = errors.New("collator does not match booster composition")
	ErrUnknownSlot         = errors.New("slot not found in catalog")
	ErrRarityMismatch      = errors.New("slot rarity does not match its tier")
	ErrUnknownExpansion    = errors.New("unknown expansion")
	ErrDuplicateExpansion  = errors.New("expansion already registered")
	ErrNilSet              = errors.New("nil set")
)
