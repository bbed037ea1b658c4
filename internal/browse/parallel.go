package browse

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/vibe-genome/internal/genome"
)

// WorkItem holds a gene waiting for detail resolution.
type WorkItem struct {
	Seq  int
	Gene genome.Gene
}

// WorkResult holds the resolved detail for a single gene.
type WorkResult struct {
	Seq    int
	Gene   genome.Gene
	Detail genome.DetailResult
}

// ParallelDetails resolves work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (s *Service) ParallelDetails(ctx context.Context, items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				res, _ := s.GeneDetails(ctx, item.Gene.GeneID)
				results <- WorkResult{
					Seq:    item.Seq,
					Gene:   item.Gene,
					Detail: res,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// GeneWithDetail pairs a search hit with its resolved detail.
type GeneWithDetail struct {
	Gene   genome.Gene         `json:"gene"`
	Detail genome.DetailResult `json:"detail"`
}

// ResolveDetails resolves the detail of every gene concurrently and returns
// them in input order. Genes without an id carry ErrMissingIdentifier.
// Collection stops with ctx's error once ctx is done; the genes resolved up to
// that point are still returned.
func (s *Service) ResolveDetails(ctx context.Context, genes []genome.Gene, workers int) ([]GeneWithDetail, error) {
	items := make(chan WorkItem, len(genes))
	for i, g := range genes {
		items <- WorkItem{Seq: i, Gene: g}
	}
	close(items)

	out := make([]GeneWithDetail, 0, len(genes))
	err := OrderedCollect(s.ParallelDetails(ctx, items, workers), func(r WorkResult) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Detail.Err != nil {
			s.logger.Debug("detail unresolved",
				zap.String("symbol", r.Gene.Symbol),
				zap.Error(r.Detail.Err))
		}
		out = append(out, GeneWithDetail{Gene: r.Gene, Detail: r.Detail})
		return nil
	})
	return out, err
}
