package refdata

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SecurityType tells which kind of instrument a Security is.
type SecurityType int

const (
	Stock SecurityType = iota + 1
	// ETF covers exchange traded funds and mutual funds alike.
	ETF
)

func (t SecurityType) String() string {
	switch t {
	case Stock:
		return "Stock"
	case ETF:
		return "ETF"
	default:
		return fmt.Sprintf("SecurityType(%d)", int(t))
	}
}

// ParseSecurityType parses "Stock" or "ETF", case insensitive.
func ParseSecurityType(s string) (SecurityType, error) {
	switch strings.ToLower(s) {
	case "stock":
		return Stock, nil
	case "etf":
		return ETF, nil
	default:
		return 0, fmt.Errorf("unknown security type %q", s)
	}
}

func (t SecurityType) MarshalText() ([]byte, error) {
	if t != Stock && t != ETF {
		return nil, fmt.Errorf("cannot marshal %v", t)
	}
	return []byte(t.String()), nil
}

func (t *SecurityType) UnmarshalText(text []byte) error {
	v, err := ParseSecurityType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Security describes a financial instrument.
//
// It is either a Stock, or an ETF for which we know whether distributions are
// reinvested (accumulating) or paid out (distributing). Securities are values and
// can be compared with ==.
type Security struct {
	typ          SecurityType
	name         string
	accumulating bool // only meaningful for ETF
}

// NewStock returns the Stock variant.
func NewStock(name string) Security {
	return Security{typ: Stock, name: name}
}

// NewETF returns the ETF variant.
func NewETF(name string, accumulating bool) Security {
	return Security{typ: ETF, name: name, accumulating: accumulating}
}

// Type returns the variant of the security.
func (s Security) Type() SecurityType { return s.typ }

// Name returns the display name of the security.
func (s Security) Name() string { return s.name }

// Accumulating reports whether distributions are reinvested.
//
// ok is false for a Stock, where the notion does not exist.
func (s Security) Accumulating() (accumulating, ok bool) {
	if s.typ != ETF {
		return false, false
	}
	return s.accumulating, true
}

// IsZero reports whether s is the zero Security.
func (s Security) IsZero() bool { return s == Security{} }

func (s Security) String() string {
	if acc, ok := s.Accumulating(); ok {
		policy := "distributing"
		if acc {
			policy = "accumulating"
		}
		return fmt.Sprintf("%s (%s, %s)", s.name, s.typ, policy)
	}
	return fmt.Sprintf("%s (%s)", s.name, s.typ)
}

// MarshalJSON encodes the variant as {"type","name"} and adds "accumulating" for ETF only.
// An empty name is omitted.
func (s Security) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("type", s.typ)
	w.Optional("name", s.name)
	if acc, ok := s.Accumulating(); ok {
		w.Append("accumulating", acc)
	}
	return w.MarshalJSON()
}

func (s *Security) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type         SecurityType `json:"type"`
		Name         string       `json:"name"`
		Accumulating *bool        `json:"accumulating"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch aux.Type {
	case Stock:
		if aux.Accumulating != nil {
			return fmt.Errorf("a Stock cannot have an accumulating attribute")
		}
		*s = NewStock(aux.Name)
	case ETF:
		if aux.Accumulating == nil {
			return fmt.Errorf("an ETF requires an accumulating attribute")
		}
		*s = NewETF(aux.Name, *aux.Accumulating)
	default:
		return fmt.Errorf("missing security type")
	}
	return nil
}

// isinRegex checks for the basic structure: 2 letters, 9 alphanumeric, 1 digit.
var isinRegex = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// ValidateISIN checks if a string is a validly formatted ISIN.
// It returns nil if valid, or a descriptive error if invalid.
func ValidateISIN(isin string) error {
	if len(isin) != 12 {
		return fmt.Errorf("invalid length: must be 12 characters, got %d", len(isin))
	}

	if !isinRegex.MatchString(isin) {
		return fmt.Errorf("invalid format: must be 2 uppercase letters, 9 alphanumeric chars, and 1 digit")
	}

	// Letters are expanded to two digits (A=10 ... Z=35).
	var numericStr strings.Builder
	for _, char := range isin[:11] {
		if char >= 'A' && char <= 'Z' {
			numericStr.WriteString(strconv.Itoa(int(char - 'A' + 10)))
		} else {
			numericStr.WriteRune(char)
		}
	}

	// Luhn, doubling from the rightmost digit.
	sum := 0
	double := true
	digits := numericStr.String()
	for i := len(digits) - 1; i >= 0; i-- {
		digit := int(digits[i] - '0')
		if double {
			digit *= 2
		}
		sum += digit/10 + digit%10
		double = !double
	}

	want := (10 - sum%10) % 10
	got := int(isin[11] - '0')
	if want != got {
		return fmt.Errorf("invalid check digit: expected %d, got %d", want, got)
	}
	return nil
}
