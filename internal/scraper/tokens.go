package scraper

import (
	"regexp"
	"strconv"
)

// MemoryTokens holds RAM and storage capacities parsed from free text,
// normalized to a bare "<n>GB" form.
type MemoryTokens struct {
	RAM     []string
	Storage []string
}

var (
	ramGBPattern    = regexp.MustCompile(`(?i)(\d{1,2})\s*GB\s*RAM`)
	ramPrefixedGB   = regexp.MustCompile(`(?i)RAM\s*(\d{1,2})\s*GB`)
	storageGBSuffix = regexp.MustCompile(`(?i)(\d{2,3})\s*GB(\s*RAM)?`)
	storageTB       = regexp.MustCompile(`(?i)(\d)\s*TB`)
	digitsPattern   = regexp.MustCompile(`\d+`)
)

// ParseMemoryTokens extracts RAM and storage capacity tokens from text, which
// is expected to be the title and feature list concatenated. TB values are
// converted to GB so storage uses a single unit.
func ParseMemoryTokens(text string) MemoryTokens {
	var ram, storage []string

	ramMatches := ramGBPattern.FindAllString(text, -1)
	if len(ramMatches) == 0 {
		ramMatches = ramPrefixedGB.FindAllString(text, -1)
	}
	for _, m := range ramMatches {
		if n := digitsPattern.FindString(m); n != "" {
			ram = append(ram, n+"GB")
		}
	}

	// Two-or-three digit GB values not attributed to RAM are storage sizes.
	found := false
	for _, m := range storageGBSuffix.FindAllStringSubmatch(text, -1) {
		if m[2] != "" {
			continue // "<n>GB RAM" belongs to the RAM dimension
		}
		storage = append(storage, m[1]+"GB")
		found = true
	}
	if !found {
		for _, m := range storageTB.FindAllStringSubmatch(text, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil {
				storage = append(storage, strconv.Itoa(n*1024)+"GB")
			}
		}
	}

	return MemoryTokens{
		RAM:     uniq(ram),
		Storage: uniq(storage),
	}
}
