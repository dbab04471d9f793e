package expansion

import (
	"fmt"
	"strings"

	"github.com/mtgban/go-mtgcollate/mtgjson"
)

// CardInfo is one printing of an expansion catalog. Number is the collector
// number and doubles as the slot identifier used by print sheets.
type CardInfo struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Rarity Rarity `json:"rarity"`

	// The printing is one of several interchangeable arts of the same card
	VariousArt bool `json:"variousArt,omitempty"`
}

// CardInfo implements the Stringer interface
func (ci CardInfo) String() string {
	return fmt.Sprintf("%s (%s) [%s]", ci.Name, ci.Number, ci.Rarity)
}

// Composition is the advertised content of a booster, by rarity.
type Composition struct {
	Lands     int `json:"lands"`
	Commons   int `json:"commons"`
	Uncommons int `json:"uncommons"`
	// Rares and mythics together
	Rares int `json:"rares"`
}

func (c Composition) Size() int {
	return c.Lands + c.Commons + c.Uncommons + c.Rares
}

// Counts returns the number of slots per tier label, omitting empty tiers.
func (c Composition) Counts() map[string]int {
	out := map[string]int{}
	for label, count := range map[string]int{
		Land.Label():     c.Lands,
		Common.Label():   c.Commons,
		Uncommon.Label(): c.Uncommons,
		Rare.Label():     c.Rares,
	} {
		if count > 0 {
			out[label] = count
		}
	}
	return out
}

// CatalogFromMTGJSON converts the cards of an MTGJSON set. Only the front
// face of multi-faced cards is kept, and basic lands are moved to the Land
// rarity.
func CatalogFromMTGJSON(set *mtgjson.Set) ([]CardInfo, error) {
	var catalog []CardInfo
	for _, card := range set.Cards {
		if card.Side != "" && card.Side != "a" {
			continue
		}

		rarity, err := ParseRarity(card.Rarity)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", card, err)
		}
		if card.IsBasicLand() {
			rarity = Land
		}

		// Both faces share a name, as with some double-faced printings
		name := card.Name
		if card.IsDFCSameName() {
			name = name[:strings.Index(name, " // ")]
		}

		catalog = append(catalog, CardInfo{
			Name:       name,
			Number:     card.Number,
			Rarity:     rarity,
			VariousArt: len(card.Variations) > 0,
		})
	}
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	return catalog, nil
}
