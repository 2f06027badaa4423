// Package parser reads the raw price texts for each rating out of the
// cheapest-by-rating page.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/sbc-prices/models"
	"github.com/dtnitsch/sbc-prices/pkg/logger"
)

const (
	ColumnSelector = ".stc-player-column.xs-column.hide-not-ps"
	PriceSelector  = ".platform-price-wrapper-small"
)

// ErrNoColumns means the page carried none of the rating columns, usually a
// layout change or a blocked request.
var ErrNoColumns = errors.New("no rating columns found on page")

// selectors probed when the main one misses, logged to help spot layout changes
var fallbackSelectors = []string{
	".stc-player-column",
	".player-column",
	".xs-column",
	"[class*='player']",
	"[class*='stc']",
}

type Parser struct {
	log *logger.Entry
}

func NewParser(log *logger.Log) *Parser {
	return &Parser{log: log.WithComponent("parser")}
}

// PriceTexts returns, for every tracked rating, the trimmed text of the first
// five price wrappers inside that rating's column. A rating whose column is
// missing maps to an empty slice.
func (p *Parser) PriceTexts(doc *goquery.Document) (map[models.Rating][]*string, error) {
	columns := doc.Find(ColumnSelector)
	if columns.Length() == 0 {
		p.logFallbacks(doc)
		return nil, ErrNoColumns
	}
	p.log.WithFields(logger.Fields{"columns": columns.Length()}).Debug("rating columns found")

	out := make(map[models.Rating][]*string, len(models.Ratings))
	for _, rating := range models.Ratings {
		column := findColumn(columns, rating)
		if column == nil {
			p.log.WithFields(logger.Fields{"rating": int(rating)}).Warn("no column for rating")
			out[rating] = []*string{}
			continue
		}
		out[rating] = priceTexts(column)
		p.log.WithFields(logger.Fields{
			"rating":   int(rating),
			"wrappers": len(out[rating]),
		}).Debug("price wrappers read")
	}
	return out, nil
}

// findColumn returns the first column whose text holds rating as a whole word,
// so 83 does not match 183 or 835.
func findColumn(columns *goquery.Selection, rating models.Rating) *goquery.Selection {
	pattern := regexp.MustCompile(fmt.Sprintf(`\b%d\b`, int(rating)))

	var found *goquery.Selection
	columns.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if pattern.MatchString(strings.TrimSpace(s.Text())) {
			found = s
			return false
		}
		return true
	})
	return found
}

func priceTexts(column *goquery.Selection) []*string {
	wrappers := column.Find(PriceSelector)
	texts := make([]*string, 0, models.MaxSampleSize)
	wrappers.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= models.MaxSampleSize {
			return false
		}
		text := strings.TrimSpace(s.Text())
		texts = append(texts, &text)
		return true
	})
	return texts
}

func (p *Parser) logFallbacks(doc *goquery.Document) {
	fields := logger.Fields{"selector": ColumnSelector}
	for _, sel := range fallbackSelectors {
		if n := doc.Find(sel).Length(); n > 0 {
			fields[sel] = n
		}
	}
	p.log.WithFields(fields).Error("rating columns not found")
}
