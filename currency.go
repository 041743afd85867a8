package refdata

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// CurrencyCode is an ISO 4217 currency code, or GBX.
type CurrencyCode string

// Currencies with a daily ECB reference rate, plus EUR and GBX.
const (
	EUR CurrencyCode = "EUR"
	USD CurrencyCode = "USD"
	JPY CurrencyCode = "JPY"
	BGN CurrencyCode = "BGN"
	CZK CurrencyCode = "CZK"
	DKK CurrencyCode = "DKK"
	GBP CurrencyCode = "GBP"
	HUF CurrencyCode = "HUF"
	PLN CurrencyCode = "PLN"
	RON CurrencyCode = "RON"
	SEK CurrencyCode = "SEK"
	CHF CurrencyCode = "CHF"
	ISK CurrencyCode = "ISK"
	NOK CurrencyCode = "NOK"
	TRY CurrencyCode = "TRY"
	AUD CurrencyCode = "AUD"
	BRL CurrencyCode = "BRL"
	CAD CurrencyCode = "CAD"
	CNY CurrencyCode = "CNY"
	HKD CurrencyCode = "HKD"
	IDR CurrencyCode = "IDR"
	ILS CurrencyCode = "ILS"
	INR CurrencyCode = "INR"
	KRW CurrencyCode = "KRW"
	MXN CurrencyCode = "MXN"
	MYR CurrencyCode = "MYR"
	NZD CurrencyCode = "NZD"
	PHP CurrencyCode = "PHP"
	SGD CurrencyCode = "SGD"
	THB CurrencyCode = "THB"
	ZAR CurrencyCode = "ZAR"

	// GBX is the penny sterling, 1/100 of GBP. It is not an ISO 4217 code but
	// London listed securities are commonly quoted in it.
	GBX CurrencyCode = "GBX"
)

// minorUnitScale is the number of GBX in one GBP.
const minorUnitScale = 100

// Currencies returns the currencies that have a daily ECB reference rate against EUR.
func Currencies() []CurrencyCode {
	return []CurrencyCode{
		USD, JPY, BGN, CZK, DKK, GBP, GBX, HUF, PLN, RON, SEK, CHF, ISK, NOK, TRY,
		AUD, BRL, CAD, CNY, HKD, IDR, ILS, INR, KRW, MXN, MYR, NZD, PHP, SGD, THB, ZAR,
	}
}

// ParseCurrencyCode parses and validates a currency code. Lower case is accepted.
func ParseCurrencyCode(s string) (CurrencyCode, error) {
	code := CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
	if code == GBX {
		return code, nil
	}
	if len(code) != 3 || money.GetCurrency(string(code)) == nil {
		return "", fmt.Errorf("invalid currency code %q: not an ISO 4217 code", s)
	}
	return code, nil
}

// IsMinorUnit reports whether c is a synthetic minor unit code (GBX).
func (c CurrencyCode) IsMinorUnit() bool { return c == GBX }

// Major returns the currency c is a subdivision of, and how many c make one of it.
//
// For regular currencies it returns c itself and 1.
func (c CurrencyCode) Major() (major CurrencyCode, scale int64) {
	if c == GBX {
		return GBP, minorUnitScale
	}
	return c, 1
}

// Symbol returns the usual symbol of the currency, or its code if unknown.
func (c CurrencyCode) Symbol() string {
	if c == GBX {
		return "p"
	}
	if cur := money.GetCurrency(string(c)); cur != nil && cur.Grapheme != "" {
		return cur.Grapheme
	}
	return string(c)
}

func (c CurrencyCode) String() string { return string(c) }
