package utils

import (
	"fmt"
	"math"
	"strings"
)

// Round2 rounds x to 2 decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// FormatBRL renders a monetary value in the regional convention: period as
// thousands separator, comma as decimal separator, always two decimals.
// Presentation only; computation keeps full precision.
func FormatBRL(x float64) string {
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}
	s := fmt.Sprintf("%.2f", x)
	intPart, decPart, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}
	return fmt.Sprintf("R$ %s%s,%s", sign, grouped.String(), decPart)
}
