package scrape

import (
	"regexp"
	"strings"
	"time"
)

// Review dates show up in wildly different shapes across storefronts
// ("Reviewed in the United States on January 1, 2020", "Jan-01-20",
// "1/1/2020", ISO timestamps from review APIs). Extract a candidate
// substring first, then try the known layouts.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`on\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`), // on January 1, 2020
	regexp.MustCompile(`(\d{1,2}\s+[A-Za-z]+\s+\d{4})`),       // 1 January 2020
	regexp.MustCompile(`([A-Za-z]+\s+\d{1,2},\s+\d{4})`),      // January 1, 2020
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`),             // 01/01/2020
	regexp.MustCompile(`(\d{1,2}-[A-Za-z]{3}-\d{2,4})`),       // 1-Jan-20 or 1-Jan-2020
	regexp.MustCompile(`([A-Za-z]{3}-\d{1,2}-\d{2})`),         // Jan-01-20 (eBay)
	regexp.MustCompile(`([A-Za-z]+\s+\d{4})`),                 // January 2020
}

var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"January 2006",
	"01/02/2006",
	"1/2/2006",
	"2-Jan-06",
	"2-Jan-2006",
	"Jan-2-06",
	"Jan-02-06",
}

// parseReviewDate extracts a timestamp from free-form review date text.
// Returns nil when nothing parses; an unknown date is not an error.
func parseReviewDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// API timestamps first.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}

	for _, re := range datePatterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, m[1]); err == nil {
				return &t
			}
		}
	}
	return nil
}
