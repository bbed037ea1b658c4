// Package browse ties the genome, gene and sequence services together into
// the operations a genome browser front-end calls.
package browse

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/vibe-genome/internal/genome"
	"github.com/inodb/vibe-genome/internal/ncbi"
	"github.com/inodb/vibe-genome/internal/ucsc"
)

// AssemblyLister lists assemblies and their chromosomes.
type AssemblyLister interface {
	ListGenomes(ctx context.Context) (*genome.Catalog, error)
	ListChromosomes(ctx context.Context, assemblyID string) ([]genome.Chromosome, error)
}

// GeneSearcher searches genes by free text.
type GeneSearcher interface {
	SearchGenes(ctx context.Context, query, assemblyID string) (*genome.SearchResult, error)
}

// DetailFetcher resolves a gene id to its genomic detail.
type DetailFetcher interface {
	FetchGeneDetails(ctx context.Context, geneID string) genome.DetailResult
}

// SequenceFetcher retrieves raw sequence for a 1-based inclusive range.
type SequenceFetcher interface {
	FetchSequence(ctx context.Context, chrom, assemblyID string, start, end int64) genome.SequenceResult
}

// Config selects the upstream endpoints. Empty URLs select each client's default.
type Config struct {
	UCSCURL   string
	SearchURL string
	EUtilsURL string
	Timeout   time.Duration
}

// Service exposes the browsing operations. Every call is an independent
// fetch; a Service holds no per-call state and is safe for concurrent use.
type Service struct {
	assemblies AssemblyLister
	search     GeneSearcher
	details    DetailFetcher
	sequence   SequenceFetcher
	logger     *zap.Logger
}

// NewService creates a service from its backends.
func NewService(assemblies AssemblyLister, search GeneSearcher, details DetailFetcher, sequence SequenceFetcher) *Service {
	return &Service{
		assemblies: assemblies,
		search:     search,
		details:    details,
		sequence:   sequence,
		logger:     zap.NewNop(),
	}
}

// NewFromConfig creates a service backed by the UCSC and NCBI clients.
func NewFromConfig(cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	uc := ucsc.NewClient(cfg.UCSCURL)
	sc := ncbi.NewSearchClient(cfg.SearchURL)
	dc := ncbi.NewSummaryClient(cfg.EUtilsURL)
	if cfg.Timeout > 0 {
		hc := &http.Client{Timeout: cfg.Timeout}
		uc.SetHTTPClient(hc)
		sc.SetHTTPClient(hc)
		dc.SetHTTPClient(hc)
	}
	uc.SetLogger(logger.Named("ucsc"))
	sc.SetLogger(logger.Named("search"))
	dc.SetLogger(logger.Named("summary"))

	s := NewService(uc, sc, dc, uc)
	s.SetLogger(logger)
	return s
}

// SetLogger sets the logger for diagnostic messages.
func (s *Service) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Genomes returns all assemblies grouped by organism.
func (s *Service) Genomes(ctx context.Context) (*genome.Catalog, error) {
	return s.assemblies.ListGenomes(ctx)
}

// Chromosomes returns the primary chromosomes of an assembly in natural order.
func (s *Service) Chromosomes(ctx context.Context, assemblyID string) ([]genome.Chromosome, error) {
	if assemblyID == "" {
		return nil, fmt.Errorf("chromosomes: %w: assembly id", genome.ErrMissingIdentifier)
	}
	return s.assemblies.ListChromosomes(ctx, assemblyID)
}

// SearchGenes searches genes by symbol or name.
func (s *Service) SearchGenes(ctx context.Context, query, assemblyID string) (*genome.SearchResult, error) {
	return s.search.SearchGenes(ctx, query, assemblyID)
}

// BrowseChromosome lists genes on a chromosome by searching for its name and
// keeping only hits located on it. The search cap applies before filtering.
func (s *Service) BrowseChromosome(ctx context.Context, chrom, assemblyID string) (*genome.SearchResult, error) {
	if chrom == "" {
		return nil, fmt.Errorf("browse: %w: chromosome", genome.ErrMissingIdentifier)
	}
	chrom = genome.NormalizeChrom(chrom)

	res, err := s.search.SearchGenes(ctx, chrom, assemblyID)
	if err != nil {
		return nil, err
	}

	kept := make([]genome.Gene, 0, len(res.Results))
	for _, g := range res.Results {
		if g.Chrom == chrom {
			kept = append(kept, g)
		}
	}
	s.logger.Debug("browse chromosome",
		zap.String("chrom", chrom),
		zap.Int("hits", len(res.Results)),
		zap.Int("kept", len(kept)))

	return &genome.SearchResult{Query: res.Query, AssemblyID: res.AssemblyID, Results: kept}, nil
}

// GeneDetails resolves a gene's detail, bounds and initial viewing window.
// An empty id is rejected with ErrMissingIdentifier without calling upstream;
// every other failure is folded into the result.
func (s *Service) GeneDetails(ctx context.Context, geneID string) (genome.DetailResult, error) {
	if geneID == "" {
		return genome.DetailResult{Err: genome.ErrMissingIdentifier}, fmt.Errorf("gene details: %w: gene id", genome.ErrMissingIdentifier)
	}
	return s.details.FetchGeneDetails(ctx, geneID), nil
}

// Sequence fetches the sequence of chrom between start and end (1-based, inclusive).
func (s *Service) Sequence(ctx context.Context, chrom, assemblyID string, start, end int64) genome.SequenceResult {
	return s.sequence.FetchSequence(ctx, chrom, assemblyID, start, end)
}
