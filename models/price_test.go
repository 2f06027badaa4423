package models

import (
	"testing"
	"time"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		in      string
		want    Rating
		wantErr bool
	}{
		{in: "83", want: 83},
		{in: "90", want: 90},
		{in: "82", wantErr: true},
		{in: "91", wantErr: true},
		{in: "eighty", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseRating(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRating(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRating(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPriceValue(t *testing.T) {
	var zero PriceValue
	if zero.IsKnown() {
		t.Error("zero PriceValue should be unknown")
	}
	if zero != Unknown() {
		t.Error("zero PriceValue should equal Unknown()")
	}

	coins, ok := Known(0).Get()
	if !ok || coins != 0 {
		t.Errorf("Known(0).Get() = %d, %v; want 0, true", coins, ok)
	}
	if Known(1500).String() != "1500" || Unknown().String() != "unknown" {
		t.Error("unexpected String() output")
	}
}

func TestRatingSampleAt(t *testing.T) {
	s := RatingSample{Known(1), Unknown()}
	if s.At(0) != Known(1) {
		t.Errorf("At(0) = %v", s.At(0))
	}
	for _, i := range []int{-1, 1, 2, 10} {
		if s.At(i).IsKnown() {
			t.Errorf("At(%d) = %v, want unknown", i, s.At(i))
		}
	}
}

func TestSnapshot(t *testing.T) {
	snap := NewSnapshot(time.Now())
	snap.Prices[90] = Known(100000)
	snap.Prices[83] = Unknown()
	snap.Prices[85] = Known(2000)

	if snap.KnownCount() != 2 {
		t.Errorf("KnownCount() = %d, want 2", snap.KnownCount())
	}
	coins := snap.Coins()
	if len(coins) != 2 || coins[90] != 100000 {
		t.Errorf("Coins() = %v", coins)
	}
	if snap.Price(84).IsKnown() {
		t.Error("missing rating should be unknown")
	}
	sorted := snap.SortedRatings()
	if len(sorted) != 3 || sorted[0] != 83 || sorted[2] != 90 {
		t.Errorf("SortedRatings() = %v", sorted)
	}
}
