package scrape

import (
	"testing"
	"time"
)

func TestParseReviewDate(t *testing.T) {
	cases := []struct {
		in   string
		want string // "" means nil expected
	}{
		{"Reviewed in the United States on January 5, 2023", "2023-01-05"},
		{"5 January 2023", "2023-01-05"},
		{"January 5, 2023", "2023-01-05"},
		{"01/05/2023", "2023-01-05"},
		{"5-Jan-23", "2023-01-05"},
		{"Jan-05-23", "2023-01-05"},
		{"January 2023", "2023-01-01"},
		{"2023-01-05", "2023-01-05"},
		{"2023-01-05T10:30:00", "2023-01-05"},
		{"2023-01-05T10:30:00Z", "2023-01-05"},
		{"yesterday", ""},
		{"", ""},
	}
	for _, tc := range cases {
		got := parseReviewDate(tc.in)
		if tc.want == "" {
			if got != nil {
				t.Errorf("parseReviewDate(%q) = %v, want nil", tc.in, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("parseReviewDate(%q) = nil, want %s", tc.in, tc.want)
			continue
		}
		if got.Format(time.DateOnly) != tc.want {
			t.Errorf("parseReviewDate(%q) = %s, want %s", tc.in, got.Format(time.DateOnly), tc.want)
		}
	}
}
