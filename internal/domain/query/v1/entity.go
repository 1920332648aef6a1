package v1

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Type represents the aggregate a query asks for.
type Type string

const (
	// TypeCount counts distinct taker trades in range.
	TypeCount Type = "C"
	// TypeBuy counts distinct taker buy trades in range.
	TypeBuy Type = "B"
	// TypeSell counts distinct taker sell trades in range.
	TypeSell Type = "S"
	// TypeVolume sums USD volume over every fill in range.
	TypeVolume Type = "V"
)

// ParseType parses the single-letter query type from the input stream.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeCount, TypeBuy, TypeSell, TypeVolume:
		return t, nil
	default:
		return "", fmt.Errorf("invalid query type: %s", s)
	}
}

// Query represents one range-aggregate request. The matching predicate for a
// fill is Start < fill.Timestamp <= End.
type Query struct {
	Type  Type
	Start int64
	End   int64
}

// Result holds the computed aggregate for a query. Count is meaningful for
// C/B/S, Volume for V.
type Result struct {
	Type   Type
	Count  int64
	Volume decimal.Decimal
}

// Value formats the result the way the output stream expects: a plain
// integer for counts, a decimal string for volume.
func (r *Result) Value() string {
	if r.Type == TypeVolume {
		return r.Volume.String()
	}
	return strconv.FormatInt(r.Count, 10)
}
