package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/vibe-genome/internal/genome"
)

// FASTALineWidth is the number of bases per sequence line.
const FASTALineWidth = 60

// FASTAWriter writes fetched sequences as FASTA records.
type FASTAWriter struct {
	w     *bufio.Writer
	width int
}

// NewFASTAWriter creates a new FASTA writer.
func NewFASTAWriter(w io.Writer) *FASTAWriter {
	return &FASTAWriter{w: bufio.NewWriter(w), width: FASTALineWidth}
}

// Write writes one record. The header names the range actually returned,
// in 1-based inclusive coordinates: ">chr17:7668401-7678401".
func (fw *FASTAWriter) Write(chrom string, res genome.SequenceResult) error {
	if _, err := fmt.Fprintf(fw.w, ">%s:%s\n", genome.NormalizeChrom(chrom), res.DomainRange()); err != nil {
		return err
	}
	seq := res.Sequence
	for len(seq) > 0 {
		n := min(fw.width, len(seq))
		if _, err := fw.w.WriteString(seq[:n] + "\n"); err != nil {
			return err
		}
		seq = seq[n:]
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (fw *FASTAWriter) Flush() error {
	return fw.w.Flush()
}
