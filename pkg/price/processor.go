package price

import (
	"time"

	"github.com/dtnitsch/sbc-prices/models"
)

// Observer is notified as texts are turned into prices. Implementations must
// not affect the result; they exist for logging.
type Observer interface {
	ValueExtracted(rating models.Rating, position int, text *string, value models.PriceValue)
	RatingAggregated(rating models.Rating, sample models.RatingSample, result models.PriceValue)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) ValueExtracted(models.Rating, int, *string, models.PriceValue)       {}
func (NopObserver) RatingAggregated(models.Rating, models.RatingSample, models.PriceValue) {}

// Processor runs the extractor and the aggregator over scraped texts.
type Processor struct {
	observer Observer
}

func NewProcessor(observer Observer) *Processor {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Processor{observer: observer}
}

// Sample extracts up to MaxSampleSize values from texts, keeping page order.
func (p *Processor) Sample(rating models.Rating, texts []*string) models.RatingSample {
	if len(texts) > models.MaxSampleSize {
		texts = texts[:models.MaxSampleSize]
	}
	sample := make(models.RatingSample, len(texts))
	for i, text := range texts {
		sample[i] = ExtractText(text)
		p.observer.ValueExtracted(rating, i, text, sample[i])
	}
	return sample
}

// Price extracts and aggregates the texts scraped for one rating.
func (p *Processor) Price(rating models.Rating, texts []*string) models.PriceValue {
	sample := p.Sample(rating, texts)
	result := Aggregate(rating, sample)
	p.observer.RatingAggregated(rating, sample, result)
	return result
}

// Snapshot prices every tracked rating. Ratings with no texts are unknown.
func (p *Processor) Snapshot(ts time.Time, texts map[models.Rating][]*string) models.Snapshot {
	snap := models.NewSnapshot(ts)
	for _, rating := range models.Ratings {
		snap.Prices[rating] = p.Price(rating, texts[rating])
	}
	return snap
}
