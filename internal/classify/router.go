package classify

import (
	"fmt"

	"github.com/Veraticus/thirteenf/internal/model"
)

// RejectSink receives noise lines unchanged.
type RejectSink interface {
	Reject(line model.Line) error
}

// Router classifies lines and forwards noise to a reject sink.
type Router struct {
	classifier Classifier
	sink       RejectSink
	data       int
	noise      int
}

// NewRouter creates a router. A nil sink discards noise lines.
func NewRouter(classifier Classifier, sink RejectSink) *Router {
	return &Router{classifier: classifier, sink: sink}
}

// Route tags line and, when it is noise, hands it to the reject sink.
// The only error is a failure of the sink itself.
func (r *Router) Route(line model.Line) (model.ClassifiedLine, error) {
	cl := model.ClassifiedLine{Line: line, Tag: r.classifier.Classify(line.Text)}

	if cl.Tag == model.TagData {
		r.data++
		return cl, nil
	}

	r.noise++
	if r.sink != nil {
		if err := r.sink.Reject(line); err != nil {
			return cl, fmt.Errorf("failed to reject line on page %d: %w", line.Page, err)
		}
	}
	return cl, nil
}

// Counts returns the number of data and noise lines routed so far.
func (r *Router) Counts() (data, noise int) {
	return r.data, r.noise
}
