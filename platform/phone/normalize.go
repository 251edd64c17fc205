// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	defaultRegion = "BD"

	// MinUsableLength is the shortest normalized number treated as a real contact.
	MinUsableLength = 10

	countryTrunkPrefix = "880"
	countryPrefix      = "88"
	localLength        = 10
)

// Normalize canonicalizes a raw phone value (string, number or nil) into the
// local 11-digit form, e.g. "+880 1711-112222" -> "01711112222".
// It is a best-effort heuristic and never fails; inputs that cannot be
// repaired come back shorter than MinUsableLength.
func Normalize(raw any) string {
	digits := digitsOnly(stringify(raw))
	if digits == "" {
		return ""
	}

	// Stripped until no country prefix remains, so Normalize(Normalize(x)) == Normalize(x).
	for {
		if strings.HasPrefix(digits, countryTrunkPrefix) {
			digits = digits[len(countryTrunkPrefix):]
		} else if strings.HasPrefix(digits, countryPrefix) {
			digits = digits[len(countryPrefix):]
		} else {
			break
		}
	}

	if len(digits) == localLength {
		digits = "0" + digits
	}

	return digits
}

// IsUsable reports whether a normalized number is long enough to key a contact.
func IsUsable(normalized string) bool {
	return len(normalized) >= MinUsableLength
}

// ToE164 validates a normalized local number and formats it to E.164.
// The second return value is false when the number is not a valid BD number.
func ToE164(normalized string) (string, bool) {
	if !IsUsable(normalized) {
		return "", false
	}

	number, err := phonenumbers.Parse(normalized, defaultRegion)
	if err != nil {
		return "", false
	}

	if !phonenumbers.IsValidNumber(number) {
		return "", false
	}

	return phonenumbers.Format(number, phonenumbers.E164), true
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
