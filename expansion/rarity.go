package expansion

import (
	"fmt"
	"strings"

	"github.com/mtgban/go-mtgcollate/mtgjson"
)

type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Mythic
	Land
	Special
	Bonus
)

var rarityNames = []string{
	Common:   mtgjson.RarityCommon,
	Uncommon: mtgjson.RarityUncommon,
	Rare:     mtgjson.RarityRare,
	Mythic:   mtgjson.RarityMythic,
	Land:     "land",
	Special:  mtgjson.RaritySpecial,
	Bonus:    mtgjson.RarityBonus,
}

func (r Rarity) String() string {
	if r < 0 || int(r) >= len(rarityNames) {
		return fmt.Sprintf("Rarity(%d)", int(r))
	}
	return rarityNames[r]
}

// ParseRarity accepts the lowercase MTGJSON names, in any case, and the
// single letter abbreviations used on card lists.
func ParseRarity(str string) (Rarity, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	switch str {
	case "c":
		return Common, nil
	case "u":
		return Uncommon, nil
	case "r":
		return Rare, nil
	case "m":
		return Mythic, nil
	case "l", "basic land":
		return Land, nil
	case "s", "timeshifted":
		return Special, nil
	case "b":
		return Bonus, nil
	}
	for i, name := range rarityNames {
		if name == str {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRarity, str)
}

// Label is the tier name a card of this rarity is collated under. Rare and
// mythic cards share the rare slot.
func (r Rarity) Label() string {
	switch r {
	case Mythic:
		return Rare.String()
	case Bonus:
		return Special.String()
	}
	return r.String()
}

func (r Rarity) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(data []byte) error {
	rarity, err := ParseRarity(string(data))
	if err != nil {
		return err
	}
	*r = rarity
	return nil
}
