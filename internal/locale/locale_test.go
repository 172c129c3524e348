package locale

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"20 Februari 2025", time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)},
		{"1 Agustus 2024", time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)},
		{"20 February 2025", time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)},
		{"2025-02-20", time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDateRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "soon", "20 Smarch 2025", "2025 Februari 20 extra"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrUnparseableDate) {
			t.Errorf("ParseDate(%q): expected ErrUnparseableDate, got %v", in, err)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"Rp 4.338.283.000,00", 4338283000},
		{"Rp4.338.283.000", 4338283000},
		{"IDR 1.500.000", 1500000},
		{"$1,234.56", 1234},
		{"1,234,567", 1234567},
		{"2500000", 2500000},
	}
	for _, tc := range cases {
		got, err := ParseCurrency(tc.in)
		if err != nil {
			t.Errorf("ParseCurrency(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCurrency(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseCurrencyRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "four million", "Rp banyak"} {
		if _, err := ParseCurrency(in); !errors.Is(err, ErrUnparseableCurrency) {
			t.Errorf("ParseCurrency(%q): expected ErrUnparseableCurrency, got %v", in, err)
		}
	}
}

func TestDetectReportsMatchedLocale(t *testing.T) {
	cases := []struct {
		in   string
		want language.Tag
	}{
		{"20 Februari 2025", language.Indonesian},
		{"20 February 2025", language.English},
		{"2025-02-20", language.Und},
	}
	for _, tc := range cases {
		_, tag, err := DetectDate(tc.in)
		if err != nil {
			t.Errorf("DetectDate(%q): %v", tc.in, err)
			continue
		}
		if tag != tc.want {
			t.Errorf("DetectDate(%q) tag = %v, want %v", tc.in, tag, tc.want)
		}
	}

	currencies := []struct {
		in   string
		want language.Tag
	}{
		{"Rp 4.338.283.000,00", language.Indonesian},
		{"$1,234.56", language.English},
		{"2500000", language.Und},
	}
	for _, tc := range currencies {
		_, tag, err := DetectCurrency(tc.in)
		if err != nil {
			t.Errorf("DetectCurrency(%q): %v", tc.in, err)
			continue
		}
		if tag != tc.want {
			t.Errorf("DetectCurrency(%q) tag = %v, want %v", tc.in, tag, tc.want)
		}
	}
}
