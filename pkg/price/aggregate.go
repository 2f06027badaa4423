package price

import (
	"github.com/dtnitsch/sbc-prices/models"
	"github.com/shopspring/decimal"
)

// Window is the half-open range of sample positions averaged for a rating.
type Window struct {
	From, To int
}

// WindowFor returns the sample positions that feed the price of rating.
//
// 90 takes position 0 at face value. 89 averages positions 0-2. Everything
// else averages positions 1-4; position 0 of those blocks is a different
// listing tier and is never comparable.
func WindowFor(rating models.Rating) Window {
	switch rating {
	case 90:
		return Window{From: 0, To: 1}
	case 89:
		return Window{From: 0, To: 3}
	default:
		return Window{From: 1, To: models.MaxSampleSize}
	}
}

// Aggregate reduces a rating sample to one price: the mean of the known values
// inside the rating's window, rounded half to even. Unknown when the window
// holds no known value. Positions past the end of the sample count as unknown.
func Aggregate(rating models.Rating, sample models.RatingSample) models.PriceValue {
	w := WindowFor(rating)

	sum := decimal.Zero
	n := int64(0)
	for i := w.From; i < w.To; i++ {
		if coins, ok := sample.At(i).Get(); ok {
			sum = sum.Add(decimal.NewFromInt(coins))
			n++
		}
	}
	if n == 0 {
		return models.Unknown()
	}
	return models.Known(sum.Div(decimal.NewFromInt(n)).RoundBank(0).IntPart())
}
