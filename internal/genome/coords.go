package genome

import "fmt"

// MaxWindow is the widest default viewing window, in base pairs.
const MaxWindow = 10000

// Range is a pair of coordinates. Domain ranges are 1-based and inclusive;
// upstream ranges (see ToUpstream) are 0-based and half-open.
type Range struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// ToUpstream converts an inclusive 1-based range to the 0-based half-open
// convention used by the sequence service.
func ToUpstream(r Range) Range {
	return Range{Start: r.Start - 1, End: r.End}
}

// FromUpstream converts a 0-based half-open range back to an inclusive 1-based range.
func FromUpstream(r Range) Range {
	return Range{Start: r.Start + 1, End: r.End}
}

// GeneBounds is the genomic interval of a gene with Min <= Max regardless of strand.
type GeneBounds struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// BoundsOf orders a start/stop pair into bounds.
func BoundsOf(start, stop int64) GeneBounds {
	return GeneBounds{Min: min(start, stop), Max: max(start, stop)}
}

// Span returns Max - Min.
func (b GeneBounds) Span() int64 {
	return b.Max - b.Min
}

// Length returns the number of bases covered by the bounds.
func (b GeneBounds) Length() int64 {
	return b.Max - b.Min + 1
}

// DefaultWindow returns the initial viewing window for a gene: the whole gene
// when it spans at most MaxWindow bases, otherwise the first MaxWindow bases from Min.
func DefaultWindow(b GeneBounds) Range {
	if b.Span() > MaxWindow {
		return Range{Start: b.Min, End: b.Min + MaxWindow}
	}
	return Range{Start: b.Min, End: b.Max}
}

// SequenceResult is the outcome of a sequence fetch. ActualRange is what the
// sequence service reports it served, in its 0-based half-open convention, and
// may differ from the requested range when the service clamps it.
type SequenceResult struct {
	Sequence    string `json:"sequence"`
	ActualRange Range  `json:"actualRange"`
	Error       string `json:"error,omitempty"`
}

// DomainRange returns ActualRange as an inclusive 1-based range.
func (r SequenceResult) DomainRange() Range {
	return FromUpstream(r.ActualRange)
}

// OK reports whether the fetch produced a sequence without error.
func (r SequenceResult) OK() bool {
	return r.Error == ""
}
