// Package domain models nonprofit directory records and the rules used to
// normalize them.
//
// # Input
//
// Exports arrive as loosely structured tables: spreadsheets saved as CSV,
// scraped listings, or hand-maintained workbooks. Column names vary between
// sources ("org_name", "Organization", "nonprofit") and columns may be missing
// or reordered. [MapColumns] resolves each canonical [Field] to a column index
// through a fixed alias table; headers that match nothing simply leave the
// field absent.
//
// # Normalization
//
//	Phone:   10 digits after stripping punctuation -> "DDD-DDD-DDDD"
//	EIN:     2 digits, optional "-" or " ", 7 digits -> "DD-DDDDDDD"
//	Website: bare host -> "https://" + host
//	State:   first two characters, uppercased
//
// Values that cannot be parsed confidently are passed through trimmed rather
// than discarded.
//
// # Inference
//
// When a record carries no "needs" value, one is derived from the mission text
// by keyword, in this priority order:
//
//	"volunteer"                      -> "Volunteers needed"
//	"donation" or "donate"           -> "Donations requested"
//	"drive" and ("food" or "clothes") -> "Item drive"
//
// When no numeric rating is supplied, one is seeded: 3.8 base, +0.3 with a
// website, +0.2 when the mission text exceeds 60 characters, capped at 5.0.
//
// # Geocoding
//
// Coordinates are looked up by a free-text query built from the street
// address, city, state, and the fixed country "USA" (see [GeocodeQuery]).
// Providers implement [Geocoder]; caching and rate limiting live in the
// pipeline package.
package domain
