package ncbi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vibe-genome/internal/genome"
)

// The search service answers with a positional array rather than an object:
//
//	[count, codes, extraFields, displayRows]
//
// where extraFields maps each requested ef field to an array parallel to the
// result list, and each display row holds the df fields in request order.
const (
	payloadCount   = 0
	payloadFields  = 2
	payloadDisplay = 3
	payloadLen     = 4
)

// Display row columns. These follow the order of displayFields.
const (
	colChrom       = 0
	colMapLocation = 1
	colSymbol      = 2
	colName        = 3
)

var (
	displayFields = []string{"chromosome", "map_location", "Symbol", "description", "type_of_gene"}
	extraFields   = []string{"chromosome", "Symbol", "description", "map_location", "type_of_gene", "GenomicInfo", "GeneID"}
)

// geneIDField is the extra field carrying NCBI gene identifiers.
const geneIDField = "GeneID"

// SearchClient queries the Clinical Tables NCBI gene search.
type SearchClient struct {
	base
	url string
}

// NewSearchClient creates a search client. An empty url selects DefaultSearchURL.
func NewSearchClient(searchURL string) *SearchClient {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &SearchClient{base: newBase(), url: searchURL}
}

// SearchGenes searches genes by symbol or name and returns at most
// genome.MaxSearchResults hits in service order. assemblyID is carried
// through to the result and not sent upstream.
func (c *SearchClient) SearchGenes(ctx context.Context, query, assemblyID string) (*genome.SearchResult, error) {
	q := url.Values{
		"terms": {query},
		"df":    {strings.Join(displayFields, ",")},
		"ef":    {strings.Join(extraFields, ",")},
	}
	resp, err := c.get(ctx, c.url, q)
	if err != nil {
		return nil, fmt.Errorf("NCBI API error: %w: %w", genome.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("NCBI API error: %w: status %d", genome.ErrUpstreamUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("NCBI API error: %w: %w", genome.ErrUpstreamUnavailable, err)
	}

	genes, skipped, err := DecodeSearch(data)
	if err != nil {
		return nil, fmt.Errorf("NCBI API error: %w: %w", genome.ErrMalformedResponse, err)
	}
	for _, e := range skipped {
		c.logger.Debug("skipped search row", zap.String("query", query), zap.Error(e))
	}

	return &genome.SearchResult{
		Query:      query,
		AssemblyID: assemblyID,
		Results:    genes,
	}, nil
}

// RowError describes a display row that could not be mapped to a gene.
type RowError struct {
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// DecodeSearch maps a search payload to genes. At most min(MaxSearchResults,
// count) rows are considered. A row that cannot be decoded is skipped and
// reported in skipped; only a payload that is not a search response at all
// is an error.
//
// Gene identifiers are matched to display rows by index into the GeneID
// extra field. When that array is shorter than the row list the gene is
// returned without an identifier.
func DecodeSearch(data []byte) (genes []genome.Gene, skipped []error, err error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, nil, fmt.Errorf("decode search payload: %w", err)
	}
	if len(payload) < payloadLen {
		return nil, nil, fmt.Errorf("search payload has %d elements, want %d", len(payload), payloadLen)
	}

	var count float64
	if err := json.Unmarshal(payload[payloadCount], &count); err != nil {
		return nil, nil, fmt.Errorf("decode result count: %w", err)
	}
	genes = []genome.Gene{}
	if count <= 0 {
		return genes, nil, nil
	}

	geneIDs := decodeGeneIDs(payload[payloadFields])

	var rows []json.RawMessage
	if err := json.Unmarshal(payload[payloadDisplay], &rows); err != nil {
		return nil, nil, fmt.Errorf("decode display rows: %w", err)
	}

	// Capped as a float; counts beyond the int range must still yield the cap.
	n := genome.MaxSearchResults
	if count < float64(n) {
		n = int(count)
	}
	for i := 0; i < n; i++ {
		if i >= len(rows) {
			continue
		}
		g, err := decodeRow(rows[i])
		if err != nil {
			skipped = append(skipped, &RowError{Index: i, Err: err})
			continue
		}
		if i < len(geneIDs) {
			g.GeneID = scalarString(geneIDs[i])
		}
		genes = append(genes, g)
	}
	return genes, skipped, nil
}

// decodeRow maps one display row by column position. Columns missing from a
// short row decode as empty.
func decodeRow(raw json.RawMessage) (genome.Gene, error) {
	var row []*string
	if err := json.Unmarshal(raw, &row); err != nil {
		return genome.Gene{}, fmt.Errorf("decode display row: %w", err)
	}

	col := func(i int) string {
		if i >= len(row) || row[i] == nil {
			return ""
		}
		return *row[i]
	}
	return genome.Gene{
		Symbol:      col(colSymbol),
		Name:        col(colName),
		Chrom:       genome.NormalizeChrom(col(colChrom)),
		Description: col(colName),
	}, nil
}

// decodeGeneIDs extracts the GeneID column from the extra fields map. A
// missing or malformed column yields no identifiers.
func decodeGeneIDs(raw json.RawMessage) []json.RawMessage {
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return nil
	}
	var ids []json.RawMessage
	if json.Unmarshal(fields[geneIDField], &ids) != nil {
		return nil
	}
	return ids
}

// scalarString renders a JSON string or number as text; anything else is "".
func scalarString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}
