package testutil

import (
	"github.com/Veraticus/thirteenf/internal/model"
)

// Column offsets, in points, of the securities list at a 6 point pitch.
const (
	xIdentity1   = 0
	xIdentity2   = 42
	xIdentity3   = 60
	xFlag        = 72
	xName        = 90
	xDescription = 258
	xStatus      = 378
)

// TokenSource is an in-memory pipeline.TokenSource.
type TokenSource struct {
	failures map[int]error
	pages    [][]model.Token
}

// NewTokenSource creates a source with one token slice per page.
func NewTokenSource(pages ...[]model.Token) *TokenSource {
	return &TokenSource{pages: pages, failures: make(map[int]error)}
}

// Fail makes PageTokens return err for the given 1-based page.
func (s *TokenSource) Fail(page int, err error) {
	s.failures[page] = err
}

// NumPages implements pipeline.TokenSource.
func (s *TokenSource) NumPages() int {
	return len(s.pages)
}

// PageTokens implements pipeline.TokenSource.
func (s *TokenSource) PageTokens(page int) ([]model.Token, error) {
	if err := s.failures[page]; err != nil {
		return nil, err
	}
	return s.pages[page-1], nil
}

// ScenarioTokens returns the unordered tokens of a single record row.
func ScenarioTokens() []model.Token {
	return []model.Token{
		{Text: "ABCDEF", X: 0, Top: 10.2},
		{Text: "12", X: 42, Top: 10.2},
		{Text: "3", X: 60, Top: 10.2},
		{Text: "*", X: 72, Top: 10.2},
		{Text: "Acme Corp", X: 90, Top: 10.2},
		{Text: "Widgets", X: 258, Top: 10.2},
		{Text: "Active", X: 378, Top: 10.2},
	}
}

// Security is one row of a synthetic securities list page.
type Security struct {
	Identity    [3]string
	Flag        string
	Name        string
	Description string
	Status      string
}

// Record returns the record the parser is expected to produce for s.
func (s Security) Record() model.SecurityRecord {
	return model.SecurityRecord{
		Identity:    s.Identity[0] + s.Identity[1] + s.Identity[2],
		Flag:        s.Flag,
		Name:        s.Name,
		Description: s.Description,
		Status:      s.Status,
	}
}

// Tokens lays out s on the row at top, in reverse column order.
func (s Security) Tokens(top float64) []model.Token {
	cols := []struct {
		text string
		x    float64
	}{
		{s.Status, xStatus},
		{s.Description, xDescription},
		{s.Name, xName},
		{s.Flag, xFlag},
		{s.Identity[2], xIdentity3},
		{s.Identity[1], xIdentity2},
		{s.Identity[0], xIdentity1},
	}

	var tokens []model.Token
	for _, c := range cols {
		if c.text == "" {
			continue
		}
		tokens = append(tokens, model.Token{Text: c.text, X: c.x, Top: top})
	}
	return tokens
}

var listPages = [][]Security{
	{
		{Identity: [3]string{"000360", "20", "6"}, Name: "AAON INC", Description: "COM PAR $0.004"},
		{Identity: [3]string{"000361", "10", "5"}, Flag: "*", Name: "AAR CORP", Description: "COM"},
		{Identity: [3]string{"00081T", "10", "8"}, Name: "ACCO BRANDS CORP", Description: "COM", Status: "ADDED"},
	},
	{
		{Identity: [3]string{"G0083D", "10", "4"}, Flag: "*", Name: "ADIENT PLC", Description: "ORD SHS"},
		{Identity: [3]string{"88160R", "10", "1"}, Name: "TESLA INC", Description: "COM"},
		{Identity: [3]string{"Y2573F", "10", "2"}, Name: "FLEX LTD", Description: "ORD", Status: "DELETED"},
	},
}

// ListSecurities returns the securities printed on synthetic list page i.
func ListSecurities(i int) []Security {
	return listPages[i]
}

// ListPage returns the shuffled tokens of synthetic list page i (0 or 1):
// a run header, a column header, three records, a wrapped description
// and a page footer.
func ListPage(i int) []model.Token {
	tokens := []model.Token{
		{Text: "Page 1", X: 400, Top: 740},
		{Text: "Run Time: 9:38:05 AM", X: 300, Top: 20},
		{Text: "Run Date: 1/7/2021", X: 0, Top: 20},
		{Text: "STATUS", X: xStatus, Top: 50},
		{Text: "ISSUER DESCRIPTION", X: xDescription, Top: 50},
		{Text: "ISSUER NAME", X: xName, Top: 50},
		{Text: "CUSIP NO", X: 0, Top: 50},
	}

	top := 70.0
	for j, sec := range listPages[i] {
		tokens = append(tokens, sec.Tokens(top)...)
		top += 10
		if j == 0 {
			// Description wrapped onto its own row.
			tokens = append(tokens, model.Token{Text: "CL A", X: xDescription, Top: top})
			top += 10
		}
	}

	return tokens
}
