package reporting

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsedAmount is the result of interpreting a monetary field.
// OK is false when nothing numeric could be extracted; Value is then zero.
type ParsedAmount struct {
	Value decimal.Decimal
	OK    bool
}

var amountLiteral = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)`)

// NormalizeAmount returns the best-effort numeric value of a monetary field.
// Unparseable input yields zero; use ParseAmount to tell the two apart.
func NormalizeAmount(v any) decimal.Decimal {
	return ParseAmount(v).Value
}

// ParseAmount interprets v, which is either numeric already or a string that
// may carry currency symbols, thousands separators or other noise.
func ParseAmount(v any) ParsedAmount {
	switch x := v.(type) {
	case nil:
		return ParsedAmount{}
	case decimal.Decimal:
		return ParsedAmount{Value: x, OK: true}
	case *decimal.Decimal:
		if x == nil {
			return ParsedAmount{}
		}
		return ParsedAmount{Value: *x, OK: true}
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return ParsedAmount{Value: decimal.NewFromInt(int64(x)), OK: true}
	case int8:
		return ParsedAmount{Value: decimal.NewFromInt(int64(x)), OK: true}
	case int16:
		return ParsedAmount{Value: decimal.NewFromInt(int64(x)), OK: true}
	case int32:
		return ParsedAmount{Value: decimal.NewFromInt(int64(x)), OK: true}
	case int64:
		return ParsedAmount{Value: decimal.NewFromInt(x), OK: true}
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return fromUint(uint64(x))
	case uint16:
		return fromUint(uint64(x))
	case uint32:
		return fromUint(uint64(x))
	case uint64:
		return fromUint(x)
	case json.Number:
		if d, err := decimal.NewFromString(x.String()); err == nil {
			return ParsedAmount{Value: d, OK: true}
		}
		return parseAmountString(x.String())
	case string:
		return parseAmountString(x)
	case []byte:
		return parseAmountString(string(x))
	}
	return ParsedAmount{}
}

func fromFloat(f float64) ParsedAmount {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ParsedAmount{}
	}
	return ParsedAmount{Value: decimal.NewFromFloat(f), OK: true}
}

func fromUint(u uint64) ParsedAmount {
	d, err := decimal.NewFromString(strconv.FormatUint(u, 10))
	if err != nil {
		return ParsedAmount{}
	}
	return ParsedAmount{Value: d, OK: true}
}

// parseAmountString drops everything except digits, '.' and '-', then reads
// the longest leading numeric literal: "$1,234.56" -> 1234.56, "1.2.3" -> 1.2.
func parseAmountString(s string) ParsedAmount {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)

	literal := amountLiteral.FindString(cleaned)
	if literal == "" {
		return ParsedAmount{}
	}
	literal = strings.TrimSuffix(literal, ".")
	if strings.HasPrefix(literal, "-.") {
		literal = "-0" + literal[1:]
	} else if strings.HasPrefix(literal, ".") {
		literal = "0" + literal
	}

	d, err := decimal.NewFromString(literal)
	if err != nil {
		return ParsedAmount{}
	}
	return ParsedAmount{Value: d, OK: true}
}
