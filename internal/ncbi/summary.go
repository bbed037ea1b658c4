package ncbi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/inodb/vibe-genome/internal/genome"
)

// Causes reported in genome.DetailResult.Err.
var (
	ErrGeneNotFound     = errors.New("gene not found in summary")
	ErrNoGenomicInfo    = errors.New("gene has no genomic info")
	errSummaryStatus    = errors.New("summary request failed")
	errSummaryMalformed = errors.New("malformed summary response")
)

// SummaryClient fetches gene summaries from NCBI E-utilities.
type SummaryClient struct {
	base
	url string
}

// NewSummaryClient creates a summary client rooted at the E-utilities base URL.
// An empty url selects DefaultEUtilsURL.
func NewSummaryClient(eutilsURL string) *SummaryClient {
	if eutilsURL == "" {
		eutilsURL = DefaultEUtilsURL
	}
	return &SummaryClient{base: newBase(), url: eutilsURL}
}

// esummaryGene is the per-gene document of an esummary db=gene response.
type esummaryGene struct {
	Summary  string `json:"summary"`
	Organism struct {
		ScientificName string `json:"scientificname"`
		CommonName     string `json:"commonname"`
	} `json:"organism"`
	GenomicInfo []struct {
		ChrLoc   string `json:"chrloc"`
		ChrStart int64  `json:"chrstart"`
		ChrStop  int64  `json:"chrstop"`
		Strand   string `json:"strand"`
	} `json:"genomicinfo"`
}

func (g *esummaryGene) toGeneDetail() *genome.GeneDetail {
	d := &genome.GeneDetail{
		Summary: g.Summary,
		Organism: genome.Organism{
			ScientificName: g.Organism.ScientificName,
			CommonName:     g.Organism.CommonName,
		},
		GenomicInfo: make([]genome.GenomicInfo, len(g.GenomicInfo)),
	}
	for i, gi := range g.GenomicInfo {
		strand := gi.Strand
		if strand == "" {
			// esummary encodes minus-strand genes with chrstart > chrstop
			strand = "+"
			if gi.ChrStart > gi.ChrStop {
				strand = "-"
			}
		}
		chrom := ""
		if gi.ChrLoc != "" {
			chrom = genome.NormalizeChrom(gi.ChrLoc)
		}
		d.GenomicInfo[i] = genome.GenomicInfo{
			Chrom:      chrom,
			ChromStart: gi.ChrStart,
			ChromEnd:   gi.ChrStop,
			Strand:     strand,
		}
	}
	return d
}

// FetchGeneDetails looks up a gene by NCBI gene id. It never returns an
// error: on any failure the result's Detail, Bounds and InitialRange are nil
// and Err holds the cause. Only the first genomic location is used for the
// bounds and initial window.
func (c *SummaryClient) FetchGeneDetails(ctx context.Context, geneID string) genome.DetailResult {
	detail, err := c.fetchSummary(ctx, geneID)
	if err != nil {
		c.logger.Warn("gene detail unavailable", zap.String("gene_id", geneID), zap.Error(err))
		return genome.DetailResult{Err: err}
	}

	first := detail.GenomicInfo[0]
	bounds := genome.BoundsOf(first.ChromStart, first.ChromEnd)
	window := genome.DefaultWindow(bounds)

	return genome.DetailResult{
		Detail:       detail,
		Bounds:       &bounds,
		InitialRange: &window,
	}
}

func (c *SummaryClient) fetchSummary(ctx context.Context, geneID string) (*genome.GeneDetail, error) {
	q := url.Values{
		"db":      {"gene"},
		"id":      {geneID},
		"retmode": {"json"},
	}
	resp, err := c.get(ctx, c.url+"/esummary.fcgi", q)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("%w: status %d", errSummaryStatus, resp.StatusCode)
	}

	var data struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %w", errSummaryMalformed, err)
	}

	raw, ok := data.Result[geneID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGeneNotFound, geneID)
	}
	var g esummaryGene
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("%w: %w", errSummaryMalformed, err)
	}
	if len(g.GenomicInfo) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoGenomicInfo, geneID)
	}

	return g.toGeneDetail(), nil
}
