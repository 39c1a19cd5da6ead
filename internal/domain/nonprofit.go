package domain

import "errors"

var (
	// ErrInputNotFound is returned when the input path does not exist.
	ErrInputNotFound = errors.New("input file not found")

	// ErrEmptyInput is returned when the input has no header row.
	ErrEmptyInput = errors.New("empty input")
)

// OutputHeader is the fixed column order of the normalized table.
var OutputHeader = []string{
	"name", "ein", "cause", "city", "state", "website", "phone", "rating", "needs", "lat", "lng",
}

// RawRow is one data row of the input table, addressed by column index.
type RawRow []string

// Table is the extracted input: its header row plus data rows in file order.
type Table struct {
	Source string
	Header []string
	Rows   []RawRow
}

// Nonprofit is the normalized output record. Every field is a string so the
// record maps one-to-one onto a row of the output table.
type Nonprofit struct {
	Name    string `json:"name"`
	EIN     string `json:"ein"`
	Cause   string `json:"cause"`
	City    string `json:"city"`
	State   string `json:"state"`
	Website string `json:"website"`
	Phone   string `json:"phone"`
	Rating  string `json:"rating"`
	Needs   string `json:"needs"`
	Lat     string `json:"lat"`
	Lng     string `json:"lng"`
}

// Values returns the record's fields in OutputHeader order.
func (n Nonprofit) Values() []string {
	return []string{
		n.Name, n.EIN, n.Cause, n.City, n.State, n.Website, n.Phone, n.Rating, n.Needs, n.Lat, n.Lng,
	}
}

// Key identifies the record downstream: the EIN when known, else the name.
func (n Nonprofit) Key() string {
	if n.EIN != "" {
		return n.EIN
	}
	return n.Name
}
