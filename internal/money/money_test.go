package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"123.45", 12345},
		{"0.01", 1},
		{"100", 10000},
		{"0", 0},
		{"-42.50", -4250},
		{"999999.99", 99999999},
		{"1.5", 150},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "12.345", "0.001", "1,50"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestFromDecimal(t *testing.T) {
	got, err := FromDecimal(decimal.NewFromFloat(12.34))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1234 {
		t.Errorf("expected 1234, got %d", got)
	}

	if _, err := FromDecimal(decimal.RequireFromString("0.005")); err == nil {
		t.Error("expected sub-cent error")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{12345, "123.45"},
		{1, "0.01"},
		{0, "0.00"},
		{-4250, "-42.50"},
		{10000, "100.00"},
	}
	for _, tc := range cases {
		if got := Format(tc.in); got != tc.want {
			t.Errorf("Format(%d): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 12345, -987654} {
		got, err := Parse(Format(cents))
		if err != nil {
			t.Fatalf("round trip %d: %v", cents, err)
		}
		if got != cents {
			t.Errorf("round trip %d: got %d", cents, got)
		}
	}
}
