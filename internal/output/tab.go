// Package output provides tab-delimited and FASTA formatters for browse results.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-genome/internal/genome"
)

// Column sets for each kind of row.
var (
	AssemblyColumns   = []string{"#Organism", "Genome", "Name", "Source", "Active"}
	ChromosomeColumns = []string{"#Chrom", "Size"}
	GeneColumns       = []string{"#Symbol", "Name", "Chrom", "GeneID", "Description"}
	DetailColumns     = []string{"#Symbol", "Chrom", "GeneID", "Start", "End", "Strand", "Length", "Window", "Organism"}
	LocatedColumns    = []string{"#Symbol", "Chrom", "GeneID", "Start", "End", "Strand", "Name"}
	SequenceColumns   = []string{"#Chrom", "Start", "End", "Sequence"}
)

// TabWriter writes browse results in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer with the given header columns.
func NewTabWriter(w io.Writer, columns []string) *TabWriter {
	return &TabWriter{
		w:       bufio.NewWriter(w),
		columns: columns,
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	return tw.writeRow(tw.columns)
}

// WriteCatalog writes one row per assembly, organisms in catalog order.
func (tw *TabWriter) WriteCatalog(c *genome.Catalog) error {
	for _, org := range c.Organisms {
		for _, a := range c.Assemblies(org) {
			active := "-"
			if a.Active {
				active = "YES"
			}
			if err := tw.writeRow([]string{org, a.ID, a.DisplayName, a.SourceName, active}); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteChromosome writes a single chromosome.
func (tw *TabWriter) WriteChromosome(c genome.Chromosome) error {
	return tw.writeRow([]string{c.Name, strconv.FormatInt(c.Size, 10)})
}

// WriteGene writes a single search hit.
func (tw *TabWriter) WriteGene(g genome.Gene) error {
	return tw.writeRow([]string{dash(g.Symbol), dash(g.Name), dash(g.Chrom), dash(g.GeneID), dash(g.Description)})
}

// WriteDetail writes a gene together with its resolved location. Genes whose
// detail lookup failed get "-" in every location column.
func (tw *TabWriter) WriteDetail(g genome.Gene, d genome.DetailResult) error {
	start, end, strand, length, window, organism := "-", "-", "-", "-", "-", "-"
	if d.Found() {
		start = strconv.FormatInt(d.Bounds.Min, 10)
		end = strconv.FormatInt(d.Bounds.Max, 10)
		length = strconv.FormatInt(d.Bounds.Length(), 10)
		window = d.InitialRange.String()
		if len(d.Detail.GenomicInfo) > 0 {
			strand = dash(d.Detail.GenomicInfo[0].Strand)
		}
		organism = dash(d.Detail.Organism.ScientificName)
	}
	return tw.writeRow([]string{dash(g.Symbol), dash(g.Chrom), dash(g.GeneID), start, end, strand, length, window, organism})
}

// WriteLocated writes a gene with bounds already resolved, as read back from an export.
func (tw *TabWriter) WriteLocated(g genome.Gene, b *genome.GeneBounds, strand string) error {
	start, end := "-", "-"
	if b != nil {
		start = strconv.FormatInt(b.Min, 10)
		end = strconv.FormatInt(b.Max, 10)
	}
	return tw.writeRow([]string{dash(g.Symbol), dash(g.Chrom), dash(g.GeneID), start, end, dash(strand), dash(g.Name)})
}

// WriteSequence writes a fetched sequence on one line with its 1-based served range.
func (tw *TabWriter) WriteSequence(chrom string, res genome.SequenceResult) error {
	r := res.DomainRange()
	return tw.writeRow([]string{
		genome.NormalizeChrom(chrom),
		strconv.FormatInt(r.Start, 10),
		strconv.FormatInt(r.End, 10),
		dash(res.Sequence),
	})
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func (tw *TabWriter) writeRow(values []string) error {
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
