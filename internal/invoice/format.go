package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders d in rupees with two decimals and Indian digit
// grouping, e.g. ₹1,23,456.50.
func FormatCurrency(d decimal.Decimal) string {
	return "₹" + FormatAmount(d)
}

// FormatAmount is FormatCurrency without the symbol.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	return sign + groupIndian(whole) + "." + frac
}

// groupIndian puts a comma before the last three digits and then every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
