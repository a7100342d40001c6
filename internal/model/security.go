// Package model defines the core data types flowing through the conversion pipeline.
package model

// Token is one word extracted from a document page together with its position.
// X is the horizontal offset of the word's left edge and Top its vertical position,
// both in page units measured from the top-left corner.
type Token struct {
	Text string
	X    float64
	Top  float64
}

// Line is one reconstructed visual row of a page.
type Line struct {
	Text string
	Top  float64
	Page int
}

// Tag is the structural classification of a reconstructed line.
type Tag int

const (
	// TagNoise marks headers, page breaks, wrapped text and anything else that is not a record.
	TagNoise Tag = iota
	// TagData marks a line that carries a security record.
	TagData
)

func (t Tag) String() string {
	switch t {
	case TagData:
		return "Data"
	case TagNoise:
		return "Noise"
	default:
		return "Unknown"
	}
}

// ClassifiedLine is a Line with exactly one tag.
type ClassifiedLine struct {
	Line
	Tag Tag
}

// SecurityRecord is one row of the securities list.
type SecurityRecord struct {
	Identity    string // Concatenated identity slices (CUSIP)
	Flag        string // Option flag, usually "*" or empty
	Name        string // Issuer name
	Description string // Issuer description
	Status      string // Added/deleted marker, may be empty
}

// SheetHeader is the header row written before any record.
var SheetHeader = []string{"Identity", "Flag", "Name", "Description", "Status"}

// Row returns the record's fields in SheetHeader order.
func (r SecurityRecord) Row() []string {
	return []string{r.Identity, r.Flag, r.Name, r.Description, r.Status}
}

// Map returns the record keyed by SheetHeader names.
func (r SecurityRecord) Map() map[string]any {
	row := r.Row()
	m := make(map[string]any, len(row))
	for i, name := range SheetHeader {
		m[name] = row[i]
	}
	return m
}
