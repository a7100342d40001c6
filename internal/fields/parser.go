// Package fields slices classified data lines into security records.
package fields

import (
	"strings"

	"github.com/Veraticus/thirteenf/internal/model"
)

// Parser slices fixed rune ranges out of a data line.
// It has no re-alignment: drift in the rendered columns yields wrong slices.
type Parser struct {
	layout model.Layout
}

// NewParser creates a parser for the given layout.
func NewParser(l model.Layout) *Parser {
	return &Parser{layout: l}
}

// Parse slices line into a SecurityRecord. Spans past the end of the line
// yield empty or truncated values; Parse never fails.
func (p *Parser) Parse(line string) model.SecurityRecord {
	runes := []rune(strings.TrimSpace(line))
	parts := p.identityParts(runes)

	return model.SecurityRecord{
		Identity:    parts[0] + parts[1] + parts[2],
		Flag:        slice(runes, p.layout.Flag),
		Name:        slice(runes, p.layout.Name),
		Description: slice(runes, p.layout.Description),
		Status:      slice(runes, p.layout.Status),
	}
}

// IdentityParts returns the three trimmed identity slices of line.
func (p *Parser) IdentityParts(line string) [3]string {
	return p.identityParts([]rune(strings.TrimSpace(line)))
}

func (p *Parser) identityParts(runes []rune) [3]string {
	var parts [3]string
	for i, span := range p.layout.Identity {
		parts[i] = slice(runes, span)
	}
	return parts
}

func slice(runes []rune, span model.Span) string {
	if span.Start >= len(runes) {
		return ""
	}
	end := span.End
	if span.ToEOL() || end > len(runes) {
		end = len(runes)
	}
	if end <= span.Start {
		return ""
	}
	return strings.TrimSpace(string(runes[span.Start:end]))
}
