// Package locale parses the locale-formatted date and currency strings the
// external analysis service returns, e.g. "20 Februari 2025" and
// "Rp 4.338.283.000,00". Parsing is table-driven over an explicit set of
// supported locales; unrecognized input is a typed failure, never a silent
// fallback.
package locale

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
)

var (
	// ErrUnparseableDate is returned when no supported locale matches.
	ErrUnparseableDate = errors.New("unparseable date")
	// ErrUnparseableCurrency is returned when no supported locale matches.
	ErrUnparseableCurrency = errors.New("unparseable currency")
)

// Locale describes the date and currency conventions of one supported locale.
type Locale struct {
	Tag              language.Tag
	Months           map[string]time.Month
	CurrencyPrefixes []string
	GroupSep         rune
	DecimalSep       rune
}

var indonesian = Locale{
	Tag: language.Indonesian,
	Months: map[string]time.Month{
		"januari": time.January, "februari": time.February, "maret": time.March,
		"april": time.April, "mei": time.May, "juni": time.June,
		"juli": time.July, "agustus": time.August, "september": time.September,
		"oktober": time.October, "november": time.November, "desember": time.December,
	},
	CurrencyPrefixes: []string{"Rp", "IDR"},
	GroupSep:         '.',
	DecimalSep:       ',',
}

var english = Locale{
	Tag: language.English,
	Months: map[string]time.Month{
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June,
		"july": time.July, "august": time.August, "september": time.September,
		"october": time.October, "november": time.November, "december": time.December,
	},
	CurrencyPrefixes: []string{"$", "USD", "Rp", "IDR"},
	GroupSep:         ',',
	DecimalSep:       '.',
}

// Supported is the explicit locale table, in match order.
var Supported = []Locale{indonesian, english}

// ParseDate parses a locale-formatted date such as "20 Februari 2025".
// ISO dates (2006-01-02) are accepted regardless of locale.
func ParseDate(raw string) (time.Time, error) {
	t, _, err := DetectDate(raw)
	return t, err
}

// DetectDate parses like ParseDate and also reports which locale's
// conventions matched. ISO input carries no locale signal and reports
// language.Und.
func DetectDate(raw string) (time.Time, language.Tag, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, language.Und, fmt.Errorf("%w: empty input", ErrUnparseableDate)
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, language.Und, nil
	}

	fields := strings.Fields(s)
	if len(fields) != 3 {
		return time.Time{}, language.Und, fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, language.Und, fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil || year < 1000 {
		return time.Time{}, language.Und, fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
	}

	monthName := strings.ToLower(fields[1])
	for _, loc := range Supported {
		if month, ok := loc.Months[monthName]; ok {
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), loc.Tag, nil
		}
	}
	return time.Time{}, language.Und, fmt.Errorf("%w: unknown month in %q", ErrUnparseableDate, raw)
}

// ParseCurrency parses a locale-formatted monetary string and returns the
// whole-unit amount, e.g. "Rp 4.338.283.000,00" -> 4338283000. Fractional
// units are discarded.
func ParseCurrency(raw string) (int64, error) {
	v, _, err := DetectCurrency(raw)
	return v, err
}

// DetectCurrency parses like ParseCurrency and also reports which locale's
// conventions matched. Bare digit strings carry no locale signal and report
// language.Und.
func DetectCurrency(raw string) (int64, language.Tag, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, language.Und, fmt.Errorf("%w: empty input", ErrUnparseableCurrency)
	}

	if isDigits(s) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, language.Und, fmt.Errorf("%w: %q", ErrUnparseableCurrency, raw)
		}
		return v, language.Und, nil
	}

	for _, loc := range Supported {
		if v, ok := parseCurrencyAs(s, loc); ok {
			return v, loc.Tag, nil
		}
	}
	return 0, language.Und, fmt.Errorf("%w: %q", ErrUnparseableCurrency, raw)
}

func parseCurrencyAs(s string, loc Locale) (int64, bool) {
	trimmed := s
	matched := false
	for _, prefix := range loc.CurrencyPrefixes {
		if strings.HasPrefix(strings.ToUpper(trimmed), strings.ToUpper(prefix)) {
			trimmed = strings.TrimSpace(trimmed[len(prefix):])
			matched = true
			break
		}
	}
	if trimmed == "" {
		return 0, false
	}

	// A bare number is only accepted when a currency marker matched or the
	// string contains this locale's separators; otherwise another locale
	// could mis-read the grouping.
	if !matched && !strings.ContainsRune(trimmed, loc.GroupSep) && !strings.ContainsRune(trimmed, loc.DecimalSep) {
		if isDigits(trimmed) {
			v, err := strconv.ParseInt(trimmed, 10, 64)
			return v, err == nil
		}
		return 0, false
	}

	// Discard the fractional part, if any.
	if idx := strings.LastIndexByte(trimmed, byte(loc.DecimalSep)); idx >= 0 {
		frac := trimmed[idx+1:]
		if len(frac) <= 2 && isDigits(frac) {
			trimmed = trimmed[:idx]
		}
	}

	intPart := strings.ReplaceAll(trimmed, string(loc.GroupSep), "")
	intPart = strings.TrimSpace(intPart)
	if !isDigits(intPart) {
		return 0, false
	}
	v, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
