package price

import (
	"testing"

	"github.com/dtnitsch/sbc-prices/models"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.PriceValue
	}{
		{name: "integer k", text: "15k", want: models.Known(15000)},
		{name: "upper K", text: "15K", want: models.Known(15000)},
		{name: "decimal k", text: "15.5k", want: models.Known(15500)},
		{name: "comma decimal k", text: "15,5k", want: models.Known(15500)},
		{name: "space before k", text: "15 k", want: models.Known(15000)},
		{name: "k wins over grouping", text: "1.234k", want: models.Known(1234)},
		{name: "k wins over earlier digits", text: "2 items 15k", want: models.Known(15000)},
		{name: "fraction truncated", text: "15.5555k", want: models.Known(15555)},
		{name: "comma grouping", text: "1,500", want: models.Known(1500)},
		{name: "dot grouping", text: "1.500", want: models.Known(1500)},
		{name: "multi group", text: "12.345.678", want: models.Known(12345678)},
		{name: "first grouped match only", text: "1,500 or 2,600", want: models.Known(1500)},
		{name: "plain digits", text: "950", want: models.Known(950)},
		{name: "first digit run", text: "price 950 was 1000", want: models.Known(950)},
		{name: "surrounding text", text: "  ps 1,250 coins ", want: models.Known(1250)},
		{name: "empty", text: "", want: models.Unknown()},
		{name: "no digits", text: "no digits here", want: models.Unknown()},
		{name: "lone k", text: "k", want: models.Unknown()},
		{name: "overflowing digits", text: "99999999999999999999", want: models.Unknown()},
		{name: "overflowing k", text: "9999999999999999k", want: models.Unknown()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.text); got != tt.want {
				t.Errorf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractText_Nil(t *testing.T) {
	if got := ExtractText(nil); got.IsKnown() {
		t.Errorf("ExtractText(nil) = %v, want unknown", got)
	}

	text := "15k"
	if got := ExtractText(&text); got != models.Known(15000) {
		t.Errorf("ExtractText(%q) = %v, want 15000", text, got)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	for _, text := range []string{"15.5k", "1,500", "abc", ""} {
		first := Extract(text)
		for i := 0; i < 3; i++ {
			if got := Extract(text); got != first {
				t.Errorf("Extract(%q) changed between calls: %v then %v", text, first, got)
			}
		}
	}
}
