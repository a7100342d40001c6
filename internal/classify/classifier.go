// Package classify decides whether a reconstructed line carries a record.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/thirteenf/internal/model"
)

// DefaultPattern is the structural signature of the identity and flag columns:
// six alphanumerics, two alphanumerics and one alphanumeric separated by one to
// three whitespace characters.
const DefaultPattern = `\b[A-Za-z0-9]{6}\s{1,3}[A-Za-z0-9]{2}\s{1,3}[A-Za-z0-9]{1}\b`

// Classifier tags a rendered line as data or noise.
// Implementations must be pure functions of the line text.
type Classifier interface {
	Classify(line string) model.Tag
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(line string) model.Tag

// Classify calls f(line).
func (f ClassifierFunc) Classify(line string) model.Tag {
	return f(line)
}

// PatternClassifier tags a line as data when it contains a match of its pattern.
// It accepts false positives when unrelated text happens to fit the shape.
type PatternClassifier struct {
	re *regexp.Regexp
}

// NewPatternClassifier compiles pattern into a classifier.
func NewPatternClassifier(pattern string) (*PatternClassifier, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid classifier pattern %q: %w", pattern, err)
	}
	return &PatternClassifier{re: re}, nil
}

// NewDefaultClassifier returns a classifier for DefaultPattern.
func NewDefaultClassifier() *PatternClassifier {
	return &PatternClassifier{re: regexp.MustCompile(DefaultPattern)}
}

// Classify implements Classifier.
func (c *PatternClassifier) Classify(line string) model.Tag {
	if c.re.MatchString(strings.TrimSpace(line)) {
		return model.TagData
	}
	return model.TagNoise
}

// Pattern returns the source of the compiled pattern.
func (c *PatternClassifier) Pattern() string {
	return c.re.String()
}
