package parser

import (
	"net/url"
	"strconv"
	"strings"
)

// The point-of-sale app encodes everything into query strings, so all
// matching is search-anywhere and case-insensitive. asciiLower keeps byte
// offsets identical to the input so captured values can be sliced from the
// original string with their case intact.
func asciiLower(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// findDigits locates the first occurrence of marker (in an already lowered
// string) that is immediately followed by at least one decimal digit, and
// returns the position of the marker and the full digit run.
func findDigits(lowered, marker string) (int, string) {
	off := 0
	for {
		i := strings.Index(lowered[off:], marker)
		if i < 0 {
			return -1, ""
		}
		i += off
		j := i + len(marker)
		k := j
		for k < len(lowered) && lowered[k] >= '0' && lowered[k] <= '9' {
			k++
		}
		if k > j {
			return i, lowered[j:k]
		}
		off = i + 1
	}
}

// findLastDigits is findDigits scanning from the end: the last occurrence
// of marker immediately followed by at least one decimal digit wins.
func findLastDigits(lowered, marker string) (int, string) {
	end := len(lowered)
	for {
		i := strings.LastIndex(lowered[:end], marker)
		if i < 0 {
			return -1, ""
		}
		j := i + len(marker)
		k := j
		for k < len(lowered) && lowered[k] >= '0' && lowered[k] <= '9' {
			k++
		}
		if k > j {
			return i, lowered[j:k]
		}
		end = i
	}
}

// matchTableQuantity scans a lowered tail for "mesa=<id>" followed later by
// "quant=<digits>". When parameters repeat, the last "mesa=" that still has
// a "quant=" digit run after it wins, and so does the last such "quant=".
// Returns the table id bounds (relative to s) and the quantity digits.
func matchTableQuantity(s string) (tableStart, tableEnd int, quantity string, ok bool) {
	mi := strings.LastIndex(s, "mesa=")
	for mi >= 0 {
		vstart := mi + len("mesa=")
		vend := len(s)
		if amp := strings.IndexByte(s[vstart:], '&'); amp >= 0 {
			vend = vstart + amp
		}
		if vend > vstart {
			// The quantity must come after at least one character of
			// table id.
			if qi, digits := findLastDigits(s[vstart+1:], "quant="); qi >= 0 {
				qAbs := vstart + 1 + qi
				if qAbs < vend {
					vend = qAbs
				}
				return vstart, vend, digits, true
			}
		}
		mi = strings.LastIndex(s[:mi], "mesa=")
	}
	return 0, 0, "", false
}

// matchOrder matches the product-placement URL shape: a "nomeprod=" value
// captured non-greedily up to the first '&' that is still followed by a
// "mesa=" table id and a "quant=" digit run. Values keep the original case.
func matchOrder(rawURL string) (product, table, quantity string, ok bool) {
	lowered := asciiLower(rawURL)
	ni := strings.Index(lowered, "nomeprod=")
	if ni < 0 {
		return "", "", "", false
	}
	pstart := ni + len("nomeprod=")
	// Product must be at least one character long.
	for off := pstart + 1; off <= len(lowered); {
		amp := strings.IndexByte(lowered[off:], '&')
		if amp < 0 {
			return "", "", "", false
		}
		pend := off + amp
		tail := pend + 1
		if ts, te, q, found := matchTableQuantity(lowered[tail:]); found {
			return rawURL[pstart:pend], rawURL[tail+ts : tail+te], q, true
		}
		off = pend + 1
	}
	return "", "", "", false
}

// matchRegistration matches the table-opening URL shape
// "/connect.php?mesa=<id>&id=". The id must be non-empty and immediately
// followed by "&id=".
func matchRegistration(rawURL string) (table string, ok bool) {
	const marker = "/connect.php?mesa="
	lowered := asciiLower(rawURL)
	i := strings.Index(lowered, marker)
	for i >= 0 {
		vstart := i + len(marker)
		if amp := strings.IndexByte(lowered[vstart:], '&'); amp > 0 &&
			strings.HasPrefix(lowered[vstart+amp:], "&id=") {
			return rawURL[vstart : vstart+amp], true
		}
		next := strings.Index(lowered[vstart:], marker)
		if next < 0 {
			break
		}
		i = vstart + next
	}
	return "", false
}

// matchDeleteID scans a POST body for "delete=<digits>".
func matchDeleteID(body string) (string, bool) {
	if _, digits := findDigits(asciiLower(body), "delete="); digits != "" {
		return digits, true
	}
	return "", false
}

// refererTable pulls the table id out of a referring page URL. The capture
// app always emits "mesa=" in exactly this case, so the lookup is
// case-sensitive.
func refererTable(referer string) string {
	i := strings.Index(referer, "mesa=")
	if i < 0 {
		return ""
	}
	vstart := i + len("mesa=")
	vend := len(referer)
	if amp := strings.IndexByte(referer[vstart:], '&'); amp >= 0 {
		vend = vstart + amp
	}
	if vend == vstart {
		return ""
	}
	return formDecode(referer[vstart:vend])
}

// formDecode applies form decoding ('+' as space, percent-escapes). A
// malformed escape keeps the input verbatim instead of dropping the record.
func formDecode(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// parseProductField splits a decoded "nomeprod" value into product name and
// unit price. The price rides behind a literal "R$" marker in the regional
// convention (dot thousands separator, decimal comma). Any failure falls
// back to the raw undecoded field with a zero price.
func parseProductField(raw string) (string, float64) {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw, 0
	}
	if !strings.Contains(decoded, "R$") {
		return strings.TrimSpace(decoded), 0
	}
	parts := strings.SplitN(decoded, "R$", 2)
	v := strings.ReplaceAll(parts[1], ".", "")
	v = strings.ReplaceAll(v, ",", ".")
	v = strings.ReplaceAll(v, " ", "")
	price, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return raw, 0
	}
	return strings.TrimSpace(parts[0]), price
}

// isDigits reports whether s is non-empty and all decimal digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
