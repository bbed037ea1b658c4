package ucsc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/inodb/vibe-genome/internal/genome"
)

// ListChromosomes fetches the primary chromosomes of an assembly in natural order.
func (c *Client) ListChromosomes(ctx context.Context, assemblyID string) ([]genome.Chromosome, error) {
	if assemblyID == "" {
		return nil, fmt.Errorf("list chromosomes: %w: assembly id", genome.ErrMissingIdentifier)
	}

	resp, err := c.get(ctx, "/list/chromosomes", url.Values{"genome": {assemblyID}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chromosomes from UCSC API: %w: %w", genome.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("failed to fetch chromosomes from UCSC API: %w: %w", genome.ErrUpstreamUnavailable, statusError(resp))
	}

	var data struct {
		Chromosomes map[string]int64 `json:"chromosomes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("missing chromosomes data: %w: %w", genome.ErrMalformedResponse, err)
	}
	if data.Chromosomes == nil {
		return nil, fmt.Errorf("missing chromosomes data: %w", genome.ErrMalformedResponse)
	}

	chroms := make([]genome.Chromosome, 0, len(data.Chromosomes))
	for name, size := range data.Chromosomes {
		chroms = append(chroms, genome.Chromosome{Name: name, Size: size})
	}
	chroms = genome.FilterChromosomes(chroms)
	genome.SortChromosomes(chroms)

	c.logger.Debug("listed chromosomes",
		zap.String("genome", assemblyID),
		zap.Int("total", len(data.Chromosomes)),
		zap.Int("primary", len(chroms)))
	return chroms, nil
}
