package usecase

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatBRL renders v as Brazilian currency, e.g. "R$ 1.234,56".
func FormatBRL(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return message.NewPrinter(language.BrazilianPortuguese).Sprintf("R$ %.2f", f)
}

func FormatDateBR(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}
