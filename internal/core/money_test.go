package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"0", "0.00", true},
		{"1.005", "1.01", true}, // half away from zero
		{"1.004", "1.00", true},
		{" 2.50 ", "2.50", true},
		{"100000000000000000", "100000000000000000.00", true},
		{"-1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1e3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestParseRate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"1", true},
		{"0.9", true},
		{"1,0825", true},
		{"0.000001", true},
		{"0", false},
		{"-0.5", false},
		{"x", false},
	}
	for _, tc := range cases {
		_, err := ParseRate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("%q expected ErrInvalidRate, got %v", tc.in, err)
		}
	}
}

func TestMoneyConvert(t *testing.T) {
	cases := []struct {
		amount, rate, want string
	}{
		{"100", "0.9", "90.00"},
		{"4.5", "1", "4.50"},
		{"10.00", "1.0825", "10.83"},
		{"19.99", "0.333", "6.66"},
		{"0", "3", "0.00"},
	}
	for _, tc := range cases {
		got := MustMoney(tc.amount).Convert(decimal.RequireFromString(tc.rate))
		if got.String() != tc.want {
			t.Fatalf("%s * %s = %s, want %s", tc.amount, tc.rate, got, tc.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	var m Money
	for in, want := range map[string]string{
		`4.5`:      "4.50",
		`"12.345"`: "12.35",
		`100`:      "100.00",
		`null`:     "0.00",
	} {
		if err := json.Unmarshal([]byte(in), &m); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if m.String() != want {
			t.Fatalf("unmarshal %s: got %s want %s", in, m, want)
		}
	}
	if err := json.Unmarshal([]byte(`"abc"`), &m); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		amount, code, want string
	}{
		{"4.5", "USD", "$4.50"},
		{"1234.5", "usd", "$1,234.50"},
		{"12", "XYZ", "12.00 XYZ"},
		{"92233720368547758.07", "USD", "$92,233,720,368,547,758.07"}, // largest int64 in cents
		{"92233720368547758.08", "USD", "92233720368547758.08 USD"},
		{"100000000000000000", "USD", "100000000000000000.00 USD"},
	}
	for _, tc := range cases {
		if got := MustMoney(tc.amount).Format(tc.code); got != tc.want {
			t.Fatalf("Format(%s, %s) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}

	// a total of large records must never wrap around to a negative figure
	big, err := ParseAmount("90000000000000000")
	if err != nil {
		t.Fatal(err)
	}
	if got := big.Add(big).Format("USD"); got != "180000000000000000.00 USD" {
		t.Fatalf("large total formatted as %q", got)
	}
}
