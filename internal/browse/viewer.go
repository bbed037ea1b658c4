package browse

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/vibe-genome/internal/genome"
)

// Context keys for the viewer's two request streams.
const (
	keyGene     = "gene"
	keySequence = "sequence"
)

// ViewState is what a gene view currently shows.
type ViewState struct {
	Gene     genome.Gene
	Detail   genome.DetailResult
	Range    genome.Range
	Sequence genome.SequenceResult
}

// Viewer holds the state of a single gene view within one assembly. Opening
// another gene or requesting another range supersedes requests still in
// flight; their responses are dropped rather than applied.
type Viewer struct {
	svc        *Service
	assemblyID string
	gen        Generation

	mu    sync.Mutex
	state ViewState
}

// NewViewer creates a viewer for genes of the given assembly.
func NewViewer(svc *Service, assemblyID string) *Viewer {
	return &Viewer{svc: svc, assemblyID: assemblyID}
}

// State returns a snapshot of the current view.
func (v *Viewer) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Open shows gene: it resolves the gene's detail and then loads the sequence
// of its initial window. It returns ErrSuperseded if another Open started
// before this one finished.
func (v *Viewer) Open(ctx context.Context, gene genome.Gene) (ViewState, error) {
	v.mu.Lock()
	geneTok := v.gen.Next(keyGene)
	seqTok := v.gen.Next(keySequence)
	v.state = ViewState{Gene: gene}
	v.mu.Unlock()

	detail, err := v.svc.GeneDetails(ctx, gene.GeneID)
	if err != nil {
		return v.State(), fmt.Errorf("open %s: %w", gene.Symbol, err)
	}
	v.mu.Lock()
	if !v.gen.Current(geneTok) {
		v.mu.Unlock()
		return ViewState{}, ErrSuperseded
	}
	v.state.Detail = detail
	if v.state.Gene.Chrom == "" && detail.Found() && len(detail.Detail.GenomicInfo) > 0 {
		v.state.Gene.Chrom = detail.Detail.GenomicInfo[0].Chrom
	}
	v.mu.Unlock()

	if detail.InitialRange == nil {
		return v.State(), nil
	}
	return v.loadSequence(ctx, geneTok, seqTok, *detail.InitialRange)
}

// SetRange loads the sequence of [start, end] (1-based, inclusive) for the
// open gene. It returns ErrSuperseded if a newer range or gene was requested
// before this one finished.
func (v *Viewer) SetRange(ctx context.Context, start, end int64) (ViewState, error) {
	geneTok := v.gen.Peek(keyGene)
	seqTok := v.gen.Next(keySequence)
	return v.loadSequence(ctx, geneTok, seqTok, genome.Range{Start: start, End: end})
}

func (v *Viewer) loadSequence(ctx context.Context, geneTok, seqTok Token, r genome.Range) (ViewState, error) {
	v.mu.Lock()
	if !v.gen.Current(geneTok) {
		v.mu.Unlock()
		return ViewState{}, ErrSuperseded
	}
	chrom := v.state.Gene.Chrom
	v.mu.Unlock()

	res := v.svc.Sequence(ctx, chrom, v.assemblyID, r.Start, r.End)

	v.mu.Lock()
	defer v.mu.Unlock()
	// Tokens are issued and checked under v.mu, so a stale result never lands on a newer view.
	if !v.gen.Current(geneTok) || !v.gen.Current(seqTok) {
		v.svc.logger.Debug("dropped stale sequence",
			zap.String("chrom", chrom),
			zap.Stringer("range", r))
		return ViewState{}, ErrSuperseded
	}
	v.state.Range = r
	v.state.Sequence = res
	return v.state, nil
}
