// Package phonemask renders Russian phone numbers in the "+7 (XXX) XXX-XX-XX"
// display mask while the user is still typing.
package phonemask

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	maxDigits     = 11
	displayPrefix = "+7 "
	region        = "RU"
)

// Digits returns only the ASCII decimal digits of raw.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch >= '0' && ch <= '9' {
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// DigitCount reports how many digits raw contains.
func DigitCount(raw string) int {
	return len(Digits(raw))
}

// Format applies the progressive mask to raw. Segments are only emitted once
// at least one of their digits has been typed, so a partial number like "99"
// renders as "+7 (99" without the closing parenthesis.
//
// A leading 7 or 8 is treated as the country code and dropped, which also
// means a local number that genuinely starts with 7 or 8 loses that digit.
func Format(raw string) string {
	digits := Digits(raw)
	if digits == "" {
		return ""
	}
	national := nationalDigits(digits)

	var b strings.Builder
	b.WriteString(displayPrefix)
	n := len(national)
	if n > 0 {
		b.WriteString("(")
		b.WriteString(national[:min(3, n)])
	}
	if n >= 4 {
		b.WriteString(") ")
		b.WriteString(national[3:min(6, n)])
	}
	if n >= 7 {
		b.WriteString("-")
		b.WriteString(national[6:min(8, n)])
	}
	if n >= 9 {
		b.WriteString("-")
		b.WriteString(national[8:min(10, n)])
	}
	return b.String()
}

// nationalDigits caps raw at 11 digits and strips a leading 7 or 8.
func nationalDigits(raw string) string {
	digits := Digits(raw)
	if len(digits) > maxDigits {
		digits = digits[:maxDigits]
	}
	if digits != "" && (digits[0] == '7' || digits[0] == '8') {
		digits = digits[1:]
	}
	return digits
}

// E164 parses raw as a Russian number and returns it in E.164 form. It is
// meant for tel: links in the admin panel and has no influence on Format.
func E164(raw string) (string, bool) {
	national := nationalDigits(raw)
	if national == "" {
		return "", false
	}
	num, err := phonenumbers.Parse("+7"+national, region)
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}
