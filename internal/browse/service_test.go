package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-genome/internal/genome"
)

// fakeBackend implements every backend interface from canned data.
type fakeBackend struct {
	mu        sync.Mutex
	searches  []string
	detailIDs []string

	catalog   *genome.Catalog
	chroms    []genome.Chromosome
	genes     []genome.Gene
	searchErr error
	details   map[string]genome.DetailResult

	// gates, when set, are called before answering and may block.
	detailGate func(id string)
	seqGate    func(r genome.Range)
}

func (f *fakeBackend) ListGenomes(ctx context.Context) (*genome.Catalog, error) {
	return f.catalog, nil
}

func (f *fakeBackend) ListChromosomes(ctx context.Context, assemblyID string) ([]genome.Chromosome, error) {
	return f.chroms, nil
}

func (f *fakeBackend) SearchGenes(ctx context.Context, query, assemblyID string) (*genome.SearchResult, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &genome.SearchResult{Query: query, AssemblyID: assemblyID, Results: f.genes}, nil
}

func (f *fakeBackend) FetchGeneDetails(ctx context.Context, geneID string) genome.DetailResult {
	f.mu.Lock()
	f.detailIDs = append(f.detailIDs, geneID)
	f.mu.Unlock()
	if f.detailGate != nil {
		f.detailGate(geneID)
	}
	if r, ok := f.details[geneID]; ok {
		return r
	}
	return genome.DetailResult{Err: errors.New("not found")}
}

func (f *fakeBackend) FetchSequence(ctx context.Context, chrom, assemblyID string, start, end int64) genome.SequenceResult {
	r := genome.Range{Start: start, End: end}
	if f.seqGate != nil {
		f.seqGate(r)
	}
	return genome.SequenceResult{Sequence: chrom + ":" + r.String(), ActualRange: genome.ToUpstream(r)}
}

func newFakeService(f *fakeBackend) *Service {
	return NewService(f, f, f, f)
}

func detailFor(start, stop int64) genome.DetailResult {
	b := genome.BoundsOf(start, stop)
	w := genome.DefaultWindow(b)
	return genome.DetailResult{
		Detail:       &genome.GeneDetail{GenomicInfo: []genome.GenomicInfo{{ChromStart: start, ChromEnd: stop, Strand: "+"}}},
		Bounds:       &b,
		InitialRange: &w,
	}
}

func TestService_Chromosomes(t *testing.T) {
	f := &fakeBackend{chroms: []genome.Chromosome{{Name: "chr1", Size: 10}}}
	svc := newFakeService(f)

	chroms, err := svc.Chromosomes(context.Background(), "hg38")
	require.NoError(t, err)
	assert.Len(t, chroms, 1)

	_, err = svc.Chromosomes(context.Background(), "")
	assert.ErrorIs(t, err, genome.ErrMissingIdentifier)
}

func TestService_BrowseChromosome(t *testing.T) {
	f := &fakeBackend{genes: []genome.Gene{
		{Symbol: "A", Chrom: "chr7"},
		{Symbol: "B", Chrom: "chr17"},
		{Symbol: "C", Chrom: "chr7"},
	}}
	svc := newFakeService(f)

	res, err := svc.BrowseChromosome(context.Background(), "7", "hg38")
	require.NoError(t, err)
	assert.Equal(t, []string{"chr7"}, f.searches)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "A", res.Results[0].Symbol)
	assert.Equal(t, "C", res.Results[1].Symbol)
	assert.Equal(t, "hg38", res.AssemblyID)

	_, err = svc.BrowseChromosome(context.Background(), "", "hg38")
	assert.ErrorIs(t, err, genome.ErrMissingIdentifier)
}

func TestService_BrowseChromosomeError(t *testing.T) {
	f := &fakeBackend{searchErr: genome.ErrUpstreamUnavailable}
	_, err := newFakeService(f).BrowseChromosome(context.Background(), "chr1", "hg38")
	assert.ErrorIs(t, err, genome.ErrUpstreamUnavailable)
}

func TestService_GeneDetailsMissingID(t *testing.T) {
	f := &fakeBackend{}
	svc := newFakeService(f)

	res, err := svc.GeneDetails(context.Background(), "")
	assert.ErrorIs(t, err, genome.ErrMissingIdentifier)
	assert.ErrorIs(t, res.Err, genome.ErrMissingIdentifier)
	assert.False(t, res.Found())
	assert.Empty(t, f.detailIDs, "no upstream call for an empty id")
}

func TestService_ResolveDetails(t *testing.T) {
	f := &fakeBackend{details: map[string]genome.DetailResult{
		"1": detailFor(100, 200),
		"3": detailFor(5000, 1000),
	}}
	svc := newFakeService(f)

	genes := []genome.Gene{
		{Symbol: "ONE", GeneID: "1"},
		{Symbol: "TWO", GeneID: "2"},
		{Symbol: "THREE", GeneID: "3"},
		{Symbol: "NOID"},
	}
	out, err := svc.ResolveDetails(context.Background(), genes, 3)
	require.NoError(t, err)
	require.Len(t, out, 4)

	for i, g := range genes {
		assert.Equal(t, g.Symbol, out[i].Gene.Symbol, "input order preserved")
	}
	assert.True(t, out[0].Detail.Found())
	assert.False(t, out[1].Detail.Found())
	assert.Equal(t, &genome.GeneBounds{Min: 1000, Max: 5000}, out[2].Detail.Bounds)
	assert.ErrorIs(t, out[3].Detail.Err, genome.ErrMissingIdentifier)
	assert.Len(t, f.detailIDs, 3)
}

func TestService_ResolveDetailsEmpty(t *testing.T) {
	out, err := newFakeService(&fakeBackend{}).ResolveDetails(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestService_ResolveDetailsCanceled(t *testing.T) {
	f := &fakeBackend{details: map[string]genome.DetailResult{"1": detailFor(100, 200)}}
	genes := make([]genome.Gene, 20)
	for i := range genes {
		genes[i] = genome.Gene{Symbol: fmt.Sprintf("G%d", i), GeneID: "1"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := newFakeService(f).ResolveDetails(ctx, genes, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out)
}

func TestOrderedCollect(t *testing.T) {
	results := make(chan WorkResult, 4)
	for _, seq := range []int{2, 0, 3, 1} {
		results <- WorkResult{Seq: seq}
	}
	close(results)

	var got []int
	err := OrderedCollect(results, func(r WorkResult) error {
		got = append(got, r.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, got)
}

func TestOrderedCollect_Error(t *testing.T) {
	results := make(chan WorkResult, 3)
	for seq := 0; seq < 3; seq++ {
		results <- WorkResult{Seq: seq}
	}
	close(results)

	stop := errors.New("stop")
	calls := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
