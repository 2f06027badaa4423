// Package price turns scraped price text into coin values and reduces the
// per-rating samples into a single representative price.
package price

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/shopspring/decimal"
)

var (
	// 15k, 15.5k, 15,5 K
	kSuffixPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*[kK]`)
	// 1,500 or 12.345.678
	groupedPattern = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})+`)
	digitsPattern  = regexp.MustCompile(`\d+`)

	separatorStripper = strings.NewReplacer(".", "", ",", "")

	thousand = decimal.NewFromInt(1000)
	maxCoins = decimal.NewFromInt(math.MaxInt64)
)

// ExtractText is Extract for text that may be absent. A nil text is unknown.
func ExtractText(text *string) models.PriceValue {
	if text == nil {
		return models.Unknown()
	}
	return Extract(*text)
}

// Extract parses a coin amount out of free text. k-suffixed numbers win over
// everything else in the string, then the first thousands-grouped numeral,
// then the first run of digits. Anything unparseable, including values that
// overflow int64, is unknown.
func Extract(text string) models.PriceValue {
	if m := kSuffixPattern.FindStringSubmatch(text); m != nil {
		return parseKSuffix(m[1])
	}
	if m := groupedPattern.FindString(text); m != "" {
		return parseCoins(separatorStripper.Replace(m))
	}
	if m := digitsPattern.FindString(text); m != "" {
		return parseCoins(m)
	}
	return models.Unknown()
}

// parseKSuffix multiplies the number in front of a k by 1000, truncating any
// fraction left over ("15.5555k" is 15555).
func parseKSuffix(number string) models.PriceValue {
	d, err := decimal.NewFromString(strings.Replace(number, ",", ".", 1))
	if err != nil {
		return models.Unknown()
	}
	coins := d.Mul(thousand).Truncate(0)
	if coins.GreaterThan(maxCoins) {
		return models.Unknown()
	}
	return models.Known(coins.IntPart())
}

func parseCoins(digits string) models.PriceValue {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return models.Unknown()
	}
	return models.Known(n)
}
