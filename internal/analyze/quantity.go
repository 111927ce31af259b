package analyze

import (
	"regexp"
	"strconv"
	"strings"
)

// quantityPattern matches the usual stack notation, e.g. "x5" or "X 12".
var quantityPattern = regexp.MustCompile(`(?i)x\s*(\d+)`)

// ParseQuantity extracts a stack quantity from a slot hint. The "xN"
// notation wins; otherwise the last standalone integer token counts.
// Hints without either yield 1.
func ParseQuantity(hintText string) int {
	if m := quantityPattern.FindStringSubmatch(hintText); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}

	qty := 1
	for _, field := range strings.Fields(hintText) {
		if n, err := strconv.Atoi(field); err == nil && n > 0 {
			qty = n
		}
	}
	return qty
}
