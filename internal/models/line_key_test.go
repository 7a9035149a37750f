package models

import "testing"

func TestLineKeyRoundTrip(t *testing.T) {
	cases := []struct {
		name      string
		productID string
		unitLabel string
	}{
		{name: "plain", productID: "p-100", unitLabel: "250g"},
		{name: "separator in id", productID: "kaju_katli", unitLabel: "500g"},
		{name: "separator in unit", productID: "ladoo", unitLabel: "box_of_12"},
		{name: "percent", productID: "100%_pure", unitLabel: "1%"},
		{name: "empty unit", productID: "p-1", unitLabel: ""},
		{name: "unicode", productID: "జిలేబి", unitLabel: "1 kg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key := NewLineKey(tc.productID, tc.unitLabel)
			parsed, err := ParseLineKey(key.String())
			if err != nil {
				t.Fatalf("parse %q failed: %v", key.String(), err)
			}
			if parsed != key {
				t.Fatalf("round trip mismatch: want %+v got %+v", key, parsed)
			}
		})
	}
}

func TestLineKeyDistinctPairsDistinctStrings(t *testing.T) {
	a := NewLineKey("a_b", "c")
	b := NewLineKey("a", "b_c")
	if a.String() == b.String() {
		t.Fatalf("distinct pairs must not share a key string: %s", a.String())
	}
}

func TestParseLineKeyRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "no-separator", "a_b_c", "_250g", "%zz_1kg"} {
		if _, err := ParseLineKey(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}
