package model

import "github.com/shopspring/decimal"

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
	trillion = decimal.NewFromInt(1_000_000_000_000)
)

// StatView 面板展示用
type StatView struct {
	Name       string `json:"name"`
	Population string `json:"population"`
	GDP        string `json:"gdp"`
	FlagURL    string `json:"flagUrl"`
}

func (s CountryStat) View() StatView {
	return StatView{
		Name:       s.Name,
		Population: Abbrev(s.Population),
		GDP:        "$" + Abbrev(s.GDP),
		FlagURL:    s.FlagURL,
	}
}

// Abbrev 1400000000 -> 1.4B, 26500000000000 -> 26.5T
func Abbrev(d decimal.Decimal) string {
	units := []struct {
		div    decimal.Decimal
		suffix string
	}{
		{trillion, "T"},
		{billion, "B"},
		{million, "M"},
		{thousand, "K"},
	}
	abs := d.Abs()
	for _, u := range units {
		if abs.GreaterThanOrEqual(u.div) {
			return d.Div(u.div).Round(1).String() + u.suffix
		}
	}
	return d.String()
}
