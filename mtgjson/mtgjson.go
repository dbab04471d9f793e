// Package mtgjson contains the subset of the MTGJSON v5 data model used to
// describe expansions, their cards and their booster sheets.
package mtgjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"
)

type Sheet struct {
	AllowDuplicates bool           `json:"allowDuplicates"`
	BalanceColors   bool           `json:"balanceColors"`
	Cards           map[string]int `json:"cards"`
	Fixed           bool           `json:"fixed"`
	Foil            bool           `json:"foil"`
	TotalWeight     int            `json:"totalWeight"`
}

type BoosterVariant struct {
	Contents map[string]int `json:"contents"`
	Weight   int            `json:"weight"`
}

type Booster struct {
	Boosters            []BoosterVariant `json:"boosters"`
	BoostersTotalWeight int              `json:"boostersTotalWeight"`
	Sheets              map[string]Sheet `json:"sheets"`
	Name                string           `json:"name"`
}

type Set struct {
	BaseSetSize   int    `json:"baseSetSize"`
	Block         string `json:"block"`
	Code          string `json:"code"`
	Cards         []Card `json:"cards"`
	IsFoilOnly    bool   `json:"isFoilOnly"`
	IsNonFoilOnly bool   `json:"isNonFoilOnly"`
	IsOnlineOnly  bool   `json:"isOnlineOnly"`
	KeyruneCode   string `json:"keyruneCode"`
	Name          string `json:"name"`
	ParentCode    string `json:"parentCode"`
	ReleaseDate   string `json:"releaseDate"`
	TotalSetSize  int    `json:"totalSetSize"`
	Type          string `json:"type"`

	Booster map[string]Booster `json:"booster"`
}

type Card struct {
	Artist        string   `json:"artist"`
	BorderColor   string   `json:"borderColor"`
	Colors        []string `json:"colors"`
	ColorIdentity []string `json:"colorIdentity"`
	Finishes      []string `json:"finishes"`
	IsAlternative bool     `json:"isAlternative"`
	IsOnlineOnly  bool     `json:"isOnlineOnly"`
	IsPromo       bool     `json:"isPromo"`
	Layout        string   `json:"layout"`
	Name          string   `json:"name"`
	Number        string   `json:"number"`
	PromoTypes    []string `json:"promoTypes"`
	Rarity        string   `json:"rarity"`
	SetCode       string   `json:"setCode"`
	Side          string   `json:"side"`
	Supertypes    []string `json:"supertypes"`
	Types         []string `json:"types"`
	UUID          string   `json:"uuid"`
	Variations    []string `json:"variations"`
}

// Card implements the Stringer interface
func (c Card) String() string {
	return fmt.Sprintf("%s|%s|%s", c.Name, c.SetCode, c.Number)
}

type Meta struct {
	Date    string `json:"date"`
	Version string `json:"version"`
}

type AllPrintings struct {
	Data map[string]*Set `json:"data"`
	Meta Meta            `json:"meta"`
}

// SetFile is the layout of the single-set files, such as TMP.json.
type SetFile struct {
	Data *Set `json:"data"`
	Meta Meta `json:"meta"`
}

const (
	RarityCommon   = "common"
	RarityUncommon = "uncommon"
	RarityRare     = "rare"
	RarityMythic   = "mythic"
	RaritySpecial  = "special"
	RarityBonus    = "bonus"

	FinishNonfoil = "nonfoil"
	FinishFoil    = "foil"
	FinishEtched  = "etched"

	PromoTypeBoosterfun = "boosterfun"
	PromoTypeSerialized = "serialized"

	SupertypeBasic = "Basic"

	ColorWhite = "W"
	ColorBlue  = "U"
	ColorBlack = "B"
	ColorRed   = "R"
	ColorGreen = "G"
)

var AllColors = []string{
	ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen,
}

func LoadAllPrintings(r io.Reader) (payload AllPrintings, err error) {
	err = json.NewDecoder(r).Decode(&payload)
	if err == nil && len(payload.Data) == 0 {
		err = errors.New("empty AllPrintings file")
	}
	return
}

func LoadSet(r io.Reader) (*Set, error) {
	var payload SetFile
	err := json.NewDecoder(r).Decode(&payload)
	if err != nil {
		return nil, err
	}
	if payload.Data == nil || len(payload.Data.Cards) == 0 {
		return nil, errors.New("empty set file")
	}
	return payload.Data, nil
}

func (c *Card) HasFinish(fi string) bool {
	return slices.Contains(c.Finishes, fi)
}

func (c *Card) HasPromoType(pt string) bool {
	return slices.Contains(c.PromoTypes, pt)
}

func (c *Card) IsBasicLand() bool {
	return slices.Contains(c.Supertypes, SupertypeBasic) && slices.Contains(c.Types, "Land")
}

// Check if a dual-faced card has the same for both faces
func (c *Card) IsDFCSameName() bool {
	idx := strings.Index(c.Name, " // ")
	if idx < 0 {
		return false
	}
	left := c.Name[:idx]
	right := c.Name[idx+4:]
	return left == right
}

// Cards are looked up by uuid in booster sheets, this returns the
// index of the set for that purpose, skipping any extra face.
func (s *Set) CardsByUUID() map[string]Card {
	out := make(map[string]Card, len(s.Cards))
	for _, card := range s.Cards {
		if card.Side != "" && card.Side != "a" {
			continue
		}
		out[card.UUID] = card
	}
	return out
}
