package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/scizorman/go-ndjson"

	"github.com/mtgban/go-mtgcollate/mtgjson"
	"github.com/mtgban/go-mtgcollate/sheets"
)

type Card struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
	Sheet  string `json:"sheet,omitempty"`
	Foil   bool   `json:"foil,omitempty"`
	UUID   string `json:"uuid,omitempty"`

	// Only known for cards from MTGJSON sheets
	Finish    string `json:"finish,omitempty"`
	Treatment string `json:"treatment,omitempty"`
}

type Pack struct {
	Id      string `json:"id"`
	SetCode string `json:"set_code"`
	Cards   []Card `json:"cards"`
}

// One line per card, for ndjson
type flatCard struct {
	PackId   string `json:"pack_id"`
	SetCode  string `json:"set_code"`
	Position int    `json:"position"`
	Card
}

// Etched sheets are named after the finish, as in "etchedRareMythic"
func finish(card mtgjson.Card, pick sheets.Pick) string {
	switch {
	case !pick.Foil:
		return mtgjson.FinishNonfoil
	case strings.Contains(strings.ToLower(pick.Sheet), mtgjson.FinishEtched) && card.HasFinish(mtgjson.FinishEtched):
		return mtgjson.FinishEtched
	}
	return mtgjson.FinishFoil
}

func treatment(card mtgjson.Card) string {
	for _, promoType := range []string{mtgjson.PromoTypeSerialized, mtgjson.PromoTypeBoosterfun} {
		if card.HasPromoType(promoType) {
			return promoType
		}
	}
	return ""
}

var rarityColors = map[string]*color.Color{
	"uncommon": color.New(color.FgCyan),
	"rare":     color.New(color.FgYellow),
	"mythic":   color.New(color.FgRed, color.Bold),
	"land":     color.New(color.FgGreen),
	"special":  color.New(color.FgMagenta),
}

func writePacks(w io.Writer, packs []Pack, format string) error {
	switch format {
	case "text":
		return writeText(w, packs)
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(packs)
	case "csv":
		return writeCSV(w, packs)
	case "ndjson":
		return writeNDJSON(w, packs)
	}
	return errors.New("invalid format")
}

func writeText(w io.Writer, packs []Pack) error {
	for _, pack := range packs {
		fmt.Fprintf(w, "%s %s\n", pack.SetCode, pack.Id)
		for _, card := range pack.Cards {
			line := fmt.Sprintf("%s\t%s\t%s", card.Number, card.Name, card.Rarity)
			if card.Sheet != "" {
				line = card.Sheet + "\t" + line
			}
			if card.Foil {
				label := card.Finish
				if label == "" {
					label = mtgjson.FinishFoil
				}
				line += "\t" + label
			}
			if card.Treatment != "" {
				line += "\t" + card.Treatment
			}
			c, found := rarityColors[card.Rarity]
			if found {
				line = c.Sprint(line)
			}
			_, err := fmt.Fprintln(w, line)
			if err != nil {
				return err
			}
		}
		fmt.Fprintln(w, "-------------")
	}
	return nil
}

var csvHeader = []string{"Pack Id", "Set Code", "Position", "Number", "Name", "Rarity", "Sheet", "Foil", "UUID", "Finish", "Treatment"}

func writeCSV(w io.Writer, packs []Pack) error {
	csvWriter := csv.NewWriter(w)
	err := csvWriter.Write(csvHeader)
	if err != nil {
		return err
	}
	for _, pack := range packs {
		for i, card := range pack.Cards {
			err = csvWriter.Write([]string{
				pack.Id,
				pack.SetCode,
				strconv.Itoa(i + 1),
				card.Number,
				card.Name,
				card.Rarity,
				card.Sheet,
				strconv.FormatBool(card.Foil),
				card.UUID,
				card.Finish,
				card.Treatment,
			})
			if err != nil {
				return err
			}
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func writeNDJSON(w io.Writer, packs []Pack) error {
	var flat []flatCard
	for _, pack := range packs {
		for i, card := range pack.Cards {
			flat = append(flat, flatCard{
				PackId:   pack.Id,
				SetCode:  pack.SetCode,
				Position: i + 1,
				Card:     card,
			})
		}
	}

	output, err := ndjson.Marshal(flat)
	if err != nil {
		return err
	}
	_, err = w.Write(output)
	return err
}
