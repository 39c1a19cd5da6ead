package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	NeedsVolunteers = "Volunteers needed"
	NeedsDonations  = "Donations requested"
	NeedsItemDrive  = "Item drive"
)

var (
	ratingBase         = decimal.RequireFromString("3.8")
	ratingWebsiteBonus = decimal.RequireFromString("0.3")
	ratingMissionBonus = decimal.RequireFromString("0.2")
	ratingMin          = decimal.Zero
	ratingMax          = decimal.NewFromInt(5)
)

// longMissionThreshold is the mission length (in characters) above which the
// seeded rating gets the mission bonus.
const longMissionThreshold = 60

// InferNeeds derives a needs label from mission text. Rules are checked in
// fixed priority order and the first match wins; no match yields "".
func InferNeeds(cause string) string {
	s := strings.ToLower(cause)
	switch {
	case strings.Contains(s, "volunteer"):
		return NeedsVolunteers
	case strings.Contains(s, "donation") || strings.Contains(s, "donate"):
		return NeedsDonations
	case strings.Contains(s, "drive") && (strings.Contains(s, "food") || strings.Contains(s, "clothes")):
		return NeedsItemDrive
	default:
		return ""
	}
}

// SeedRating returns the default rating for a record that supplies none.
func SeedRating(website, cause string) decimal.Decimal {
	r := ratingBase
	if website != "" {
		r = r.Add(ratingWebsiteBonus)
	}
	if utf8.RuneCountInString(cause) > longMissionThreshold {
		r = r.Add(ratingMissionBonus)
	}
	return decimal.Min(r, ratingMax)
}

// ResolveRating parses a supplied rating, falling back to SeedRating when the
// value is empty or not a number. Parsed values are clamped to [0, 5].
func ResolveRating(raw, website, cause string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SeedRating(website, cause)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return SeedRating(website, cause)
	}
	return decimal.Max(ratingMin, decimal.Min(v, ratingMax))
}

// FormatRating renders a rating with one decimal place, e.g. "4.1". The
// value is rounded as the nearest float64, so a supplied "2.25" becomes "2.2"
// just as printf-style formatting of the parsed number would render it.
func FormatRating(r decimal.Decimal) string {
	return strconv.FormatFloat(r.InexactFloat64(), 'f', 1, 64)
}
