package resolver

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var ones = []string{"", "one", "two", "three", "four", "five", "six", "seven",
	"eight", "nine", "ten", "eleven", "twelve", "thirteen", "fourteen",
	"fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}

var tens = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty",
	"seventy", "eighty", "ninety"}

// spellSmall spells 1-99, hyphenating compound tens ("twenty-one").
func spellSmall(n int) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + "-" + ones[n%10]
}

// buildWordTable maps spelled-out number surface forms to their decimal
// string. It covers 1-100 (with hyphenated and spaced 21-99 compounds) and
// 100/200/300 compounds in "and"-joined, "and"-stripped and fully hyphenated
// forms ("one hundred and five", "one hundred five", "one-hundred-and-five",
// "one-hundred-five").
func buildWordTable() map[string]string {
	table := make(map[string]string, 1024)

	for n := 1; n <= 19; n++ {
		table[ones[n]] = strconv.Itoa(n)
	}
	for t := 2; t <= 9; t++ {
		table[tens[t]] = strconv.Itoa(t * 10)
		for o := 1; o <= 9; o++ {
			v := strconv.Itoa(t*10 + o)
			table[tens[t]+"-"+ones[o]] = v
			table[tens[t]+" "+ones[o]] = v
		}
	}
	table["hundred"] = "100"

	for h := 1; h <= 3; h++ {
		base := ones[h] + " hundred"
		v := strconv.Itoa(h * 100)
		table[base] = v
		table[base+" and"] = v
		for j := 1; j <= 99; j++ {
			v := strconv.Itoa(h*100 + j)
			joined := base + " and " + spellSmall(j)
			stripped := base + " " + spellSmall(j)
			table[joined] = v
			table[stripped] = v
			table[strings.ReplaceAll(joined, " ", "-")] = v
			table[strings.ReplaceAll(stripped, " ", "-")] = v
		}
	}
	return table
}

type numberMatcher struct {
	table     map[string]string
	chapterRe *regexp.Regexp
	prefixRe  *regexp.Regexp
}

// matcher is process-wide and immutable after construction; safe to share
// across concurrent resolver calls.
var matcher = sync.OnceValue(func() *numberMatcher {
	table := buildWordTable()

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	// Longest alternative first so "twenty-one" wins over "twenty".
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	words := strings.Join(keys, "|")

	const keyword = `C\s*H\s*A\s*P\s*T\s*E\s*R`
	number := `(\d+|\b(?:` + words + `)\b)`

	return &numberMatcher{
		table:     table,
		chapterRe: regexp.MustCompile(`(?i)(?:` + keyword + `|^)\s*` + number + `\.?`),
		prefixRe:  regexp.MustCompile(`(?i)^(?:` + keyword + `)?\s*(?:\d+|\b(?:` + words + `)\b)\.?\s*`),
	}
})

// normalizeNumber converts a captured chapter number (digits or word form)
// to its decimal string.
func (m *numberMatcher) normalizeNumber(s string) string {
	if v, ok := m.table[strings.ToLower(s)]; ok {
		return v
	}
	return s
}
