package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLayout is returned when a Layout cannot be used for reconstruction or parsing.
var ErrInvalidLayout = errors.New("invalid layout")

// Span is a half-open rune range [Start, End) of a rendered line.
// A negative End extends the span to the end of the line.
type Span struct {
	Start int
	End   int
}

// ToEOL reports whether the span runs to the end of the line.
func (s Span) ToEOL() bool {
	return s.End < 0
}

func (s Span) String() string {
	if s.ToEOL() {
		return fmt.Sprintf("[%d:]", s.Start)
	}
	return fmt.Sprintf("[%d:%d]", s.Start, s.End)
}

// Layout couples the column pitch used to render lines with the fixed
// offsets used to slice them. Both stages must be given the same Layout.
type Layout struct {
	Identity    [3]Span
	Flag        Span
	Name        Span
	Description Span
	Status      Span
	CharWidth   float64 // Page units per rendered character
	XTolerance  float64 // Max gap between glyphs of one word
}

// DefaultLayout returns the layout of the SEC Official List of Section 13(f) Securities.
func DefaultLayout() Layout {
	return Layout{
		CharWidth:  6,
		XTolerance: 3,
		Identity: [3]Span{
			{Start: 0, End: 6},
			{Start: 7, End: 9},
			{Start: 10, End: 11},
		},
		Flag:        Span{Start: 12, End: 14},
		Name:        Span{Start: 15, End: 43},
		Description: Span{Start: 43, End: 63},
		Status:      Span{Start: 63, End: -1},
	}
}

// Validate checks that the layout is internally consistent.
func (l Layout) Validate() error {
	if !(l.CharWidth > 0) || math.IsInf(l.CharWidth, 0) {
		return fmt.Errorf("%w: char width must be positive, got %v", ErrInvalidLayout, l.CharWidth)
	}
	if l.XTolerance < 0 {
		return fmt.Errorf("%w: x tolerance cannot be negative", ErrInvalidLayout)
	}

	named := []struct {
		name string
		span Span
	}{
		{"identity[0]", l.Identity[0]},
		{"identity[1]", l.Identity[1]},
		{"identity[2]", l.Identity[2]},
		{"flag", l.Flag},
		{"name", l.Name},
		{"description", l.Description},
		{"status", l.Status},
	}
	for _, n := range named {
		if n.span.Start < 0 {
			return fmt.Errorf("%w: %s starts before column 0", ErrInvalidLayout, n.name)
		}
		if !n.span.ToEOL() && n.span.End < n.span.Start {
			return fmt.Errorf("%w: %s %s ends before it starts", ErrInvalidLayout, n.name, n.span)
		}
	}

	// Identity slices must be ordered and disjoint.
	for i := 1; i < len(l.Identity); i++ {
		prev, cur := l.Identity[i-1], l.Identity[i]
		if prev.ToEOL() || cur.Start < prev.End {
			return fmt.Errorf("%w: identity slices %s and %s overlap", ErrInvalidLayout, prev, cur)
		}
	}

	return nil
}
