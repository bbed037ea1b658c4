package ucsc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vibe-genome/internal/genome"
)

// sequenceResponse is the getData/sequence payload. Start and End are
// 0-based half-open and pointers so that an absent field can be told apart from 0.
type sequenceResponse struct {
	DNA   string `json:"dna"`
	Start *int64 `json:"start"`
	End   *int64 `json:"end"`
	Error string `json:"error"`
}

// reported returns the range the service says it served, if it said.
func (r *sequenceResponse) reported() (genome.Range, bool) {
	if r.Start == nil || r.End == nil {
		return genome.Range{}, false
	}
	return genome.Range{Start: *r.Start, End: *r.End}, true
}

// FetchSequence retrieves the sequence of chrom between start and end, which
// are 1-based and inclusive. It never returns an error: failures are reported
// in SequenceResult.Error.
//
// ActualRange is always in the service's 0-based half-open convention: the
// range the service reports, verbatim, or the translated request when the
// service reported none.
func (c *Client) FetchSequence(ctx context.Context, chrom, assemblyID string, start, end int64) genome.SequenceResult {
	chrom = genome.NormalizeChrom(chrom)
	requested := genome.Range{Start: start, End: end}
	up := genome.ToUpstream(requested)

	fail := func(actual genome.Range, err error) genome.SequenceResult {
		c.logger.Warn("sequence fetch failed",
			zap.String("genome", assemblyID),
			zap.String("chrom", chrom),
			zap.Stringer("range", requested),
			zap.Error(err))
		return genome.SequenceResult{ActualRange: actual, Error: err.Error()}
	}

	query := url.Values{
		"genome": {assemblyID},
		"chrom":  {chrom},
		"start":  {strconv.FormatInt(up.Start, 10)},
		"end":    {strconv.FormatInt(up.End, 10)},
	}
	resp, err := c.get(ctx, "/getData/sequence", query)
	if err != nil {
		return fail(up, err)
	}
	defer resp.Body.Close()

	var data sequenceResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&data)

	actual, ok := data.reported()
	if !ok {
		actual = up
	}

	switch {
	case data.Error != "":
		return fail(actual, fmt.Errorf("UCSC API error: %s", data.Error))
	case !isSuccess(resp.StatusCode):
		return fail(actual, fmt.Errorf("UCSC API error %d", resp.StatusCode))
	case decodeErr != nil:
		return fail(actual, fmt.Errorf("decode sequence response: %w", decodeErr))
	}

	return genome.SequenceResult{
		Sequence:    strings.ToUpper(data.DNA),
		ActualRange: actual,
	}
}
