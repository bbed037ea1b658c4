package ucsc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/inodb/vibe-genome/internal/genome"
)

// ucscGenome is one entry of the list/ucscGenomes response.
type ucscGenome struct {
	Organism    string          `json:"organism"`
	Description string          `json:"description"`
	SourceName  string          `json:"sourceName"`
	Active      json.RawMessage `json:"active"`
}

func (g *ucscGenome) toAssembly(id string) genome.Assembly {
	a := genome.Assembly{
		ID:          id,
		DisplayName: g.Description,
		SourceName:  g.SourceName,
		Active:      truthy(g.Active),
	}
	if a.DisplayName == "" {
		a.DisplayName = id
	}
	if a.SourceName == "" {
		a.SourceName = id
	}
	return a
}

// ListGenomes fetches all assemblies known to UCSC grouped by organism.
// Assemblies keep the order in which the API lists them.
func (c *Client) ListGenomes(ctx context.Context) (*genome.Catalog, error) {
	resp, err := c.get(ctx, "/list/ucscGenomes", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data from UCSC API: %w: %w", genome.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("failed to fetch data from UCSC API: %w: %w", genome.ErrUpstreamUnavailable, statusError(resp))
	}

	catalog, err := decodeGenomes(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genomes from UCSC API: %w: %w", genome.ErrMalformedResponse, err)
	}

	c.logger.Debug("listed genomes",
		zap.Int("organisms", len(catalog.Organisms)),
		zap.Int("assemblies", catalog.Len()))
	return catalog, nil
}

// decodeGenomes walks the response token by token so that the per-id map is
// visited in document order rather than Go's randomized map order.
func decodeGenomes(r io.Reader) (*genome.Catalog, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var catalog *genome.Catalog
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if key != "ucscGenomes" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("skip %q: %w", key, err)
			}
			continue
		}
		catalog, err = decodeGenomeMap(dec)
		if err != nil {
			return nil, err
		}
	}
	if catalog == nil {
		return nil, fmt.Errorf("missing ucscGenomes")
	}
	return catalog, nil
}

// decodeGenomeMap reads the {<id>: {...}} object. A null value is reported
// as absent.
func decodeGenomeMap(dec *json.Decoder) (*genome.Catalog, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read ucscGenomes: %w", err)
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("ucscGenomes: expected object, got %v", tok)
	}

	catalog := genome.NewCatalog()
	for dec.More() {
		id, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var g ucscGenome
		if err := dec.Decode(&g); err != nil {
			return nil, fmt.Errorf("decode genome %q: %w", id, err)
		}
		catalog.Add(g.Organism, g.toAssembly(id))
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return catalog, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

// truthy interprets the API's active flag, which is usually 0/1 but may be a bool.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	var n float64
	if json.Unmarshal(raw, &n) == nil {
		return n != 0
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s != "" && s != "0"
	}
	return false
}
