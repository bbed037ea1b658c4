package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-genome/internal/genome"
)

func lines(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf, GeneColumns)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	assert.Equal(t, "#Symbol\tName\tChrom\tGeneID\tDescription\n", buf.String())
}

func TestTabWriter_WriteCatalog(t *testing.T) {
	c := genome.NewCatalog()
	c.Add("Mouse", genome.Assembly{ID: "mm39", DisplayName: "GRCm39", SourceName: "GRCm39", Active: true})
	c.Add("Human", genome.Assembly{ID: "hg38", DisplayName: "GRCh38", SourceName: "GRCh38", Active: true})
	c.Add("Mouse", genome.Assembly{ID: "mm10", DisplayName: "GRCm38", SourceName: "GRCm38"})

	var buf bytes.Buffer
	w := NewTabWriter(&buf, AssemblyColumns)
	require.NoError(t, w.WriteCatalog(c))
	require.NoError(t, w.Flush())

	assert.Equal(t, []string{
		"Mouse\tmm39\tGRCm39\tGRCm39\tYES",
		"Mouse\tmm10\tGRCm38\tGRCm38\t-",
		"Human\thg38\tGRCh38\tGRCh38\tYES",
	}, lines(t, &buf))
}

func TestTabWriter_WriteChromosomeAndGene(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf, ChromosomeColumns)
	require.NoError(t, w.WriteChromosome(genome.Chromosome{Name: "chr1", Size: 248956422}))
	require.NoError(t, w.WriteGene(genome.Gene{Symbol: "TP53", Name: "tumor protein p53", Chrom: "chr17", GeneID: "7157"}))
	require.NoError(t, w.WriteGene(genome.Gene{Symbol: "ORPHAN"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, []string{
		"chr1\t248956422",
		"TP53\ttumor protein p53\tchr17\t7157\t-",
		"ORPHAN\t-\t-\t-\t-",
	}, lines(t, &buf))
}

func TestTabWriter_WriteDetail(t *testing.T) {
	bounds := genome.BoundsOf(7687489, 7668401)
	window := genome.DefaultWindow(bounds)
	found := genome.DetailResult{
		Detail: &genome.GeneDetail{
			GenomicInfo: []genome.GenomicInfo{{ChromStart: 7687489, ChromEnd: 7668401, Strand: "-"}},
			Organism:    genome.Organism{ScientificName: "Homo sapiens"},
		},
		Bounds:       &bounds,
		InitialRange: &window,
	}

	var buf bytes.Buffer
	w := NewTabWriter(&buf, DetailColumns)
	gene := genome.Gene{Symbol: "TP53", Chrom: "chr17", GeneID: "7157"}
	require.NoError(t, w.WriteDetail(gene, found))
	require.NoError(t, w.WriteDetail(genome.Gene{Symbol: "GONE", Chrom: "chr1"}, genome.DetailResult{}))
	require.NoError(t, w.Flush())

	out := lines(t, &buf)
	require.Len(t, out, 2)
	assert.Equal(t, "TP53\tchr17\t7157\t7668401\t7687489\t-\t19089\t7668401-7678401\tHomo sapiens", out[0])
	assert.Equal(t, "GONE\tchr1\t-\t-\t-\t-\t-\t-\t-", out[1])
}

func TestTabWriter_WriteLocatedAndSequence(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf, LocatedColumns)
	require.NoError(t, w.WriteLocated(genome.Gene{Symbol: "TP53", Chrom: "chr17", GeneID: "7157", Name: "tumor protein p53"},
		&genome.GeneBounds{Min: 7668401, Max: 7687489}, "-"))
	require.NoError(t, w.WriteLocated(genome.Gene{Symbol: "X", Chrom: "chr1"}, nil, ""))
	require.NoError(t, w.WriteSequence("1", genome.SequenceResult{Sequence: "ACGT", ActualRange: genome.Range{Start: 999, End: 1003}}))
	require.NoError(t, w.Flush())

	assert.Equal(t, []string{
		"TP53\tchr17\t7157\t7668401\t7687489\t-\ttumor protein p53",
		"X\tchr1\t-\t-\t-\t-\t-",
		"chr1\t1000\t1003\tACGT",
	}, lines(t, &buf))
}
