package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// First amount in the text: "$10.99", "1,299.00", "3.49 /lb".
	rePrice = regexp.MustCompile(`\$?\s*(\d+(?:,\d{3})*(?:\.\d+)?)`)
	// Multi-buy labels: "2 for $5.00", "3/$10".
	reMultiBuy = regexp.MustCompile(`(?i)(?:^|[^$\d.,])(\d+)\s*(?:for\s*\$?|/\s*\$)\s*(\d+(?:,\d{3})*(?:\.\d+)?)`)
)

// parsePrice extracts a unit price from text such as "$10.99" or "10.99 /lb".
// Multi-buy labels are divided out, and ranges ("$3.99 - $5.99") yield the
// lower bound. The bool is false when no amount can be read.
func parsePrice(priceStr string) (float64, bool) {
	s := strings.TrimSpace(priceStr)

	if m := reMultiBuy.FindStringSubmatch(s); m != nil {
		qty, err := strconv.Atoi(m[1])
		if err != nil || qty <= 0 {
			return 0, false
		}
		total, ok := parseAmount(m[2])
		if !ok {
			return 0, false
		}
		return total / float64(qty), true
	}

	m := rePrice.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return parseAmount(m[1])
}

func parseAmount(s string) (float64, bool) {
	price, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || price < 0 {
		return 0, false
	}
	return price, true
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
