package logger

import (
	"github.com/dtnitsch/sbc-prices/models"
)

// PriceObserver logs every extracted value at debug level and every
// aggregated rating price at info level.
type PriceObserver struct {
	entry *Entry
}

func NewPriceObserver(l *Log) *PriceObserver {
	return &PriceObserver{entry: l.WithComponent("price")}
}

func (o *PriceObserver) ValueExtracted(rating models.Rating, position int, text *string, value models.PriceValue) {
	raw := "<absent>"
	if text != nil {
		raw = *text
	}
	o.entry.WithFields(Fields{
		"rating":   int(rating),
		"position": position,
		"text":     raw,
		"value":    value.String(),
	}).Debug("price value extracted")
}

func (o *PriceObserver) RatingAggregated(rating models.Rating, sample models.RatingSample, result models.PriceValue) {
	values := make([]string, len(sample))
	for i, v := range sample {
		values[i] = v.String()
	}
	o.entry.WithFields(Fields{
		"rating": int(rating),
		"sample": values,
		"price":  result.String(),
	}).Info("rating price calculated")
}
