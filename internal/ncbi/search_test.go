package ncbi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-genome/internal/genome"
)

// searchPayload builds a search response with n display rows and ids ids.
func searchPayload(t *testing.T, count float64, n, ids int) []byte {
	t.Helper()
	var rows [][]string
	var geneIDs []string
	for i := 0; i < n; i++ {
		rows = append(rows, []string{
			fmt.Sprint(i%22 + 1), fmt.Sprintf("%dp13.1", i%22+1),
			fmt.Sprintf("GENE%d", i), fmt.Sprintf("gene number %d", i), "protein-coding",
		})
	}
	for i := 0; i < ids; i++ {
		geneIDs = append(geneIDs, fmt.Sprint(1000+i))
	}
	data, err := json.Marshal([]any{count, []string{}, map[string]any{"GeneID": geneIDs}, rows})
	require.NoError(t, err)
	return data
}

func TestDecodeSearch(t *testing.T) {
	data := []byte(`[3, ["7157","7158","7159"],
		{"GeneID": ["7157", 7158, "7159"]},
		[["17","17p13.1","TP53","tumor protein p53","protein-coding"],
		 ["chrX","Xq28","FAKE1","fake gene","ncRNA"],
		 ["7","7q36","SHH","sonic hedgehog signaling molecule","protein-coding"]]]`)

	genes, skipped, err := DecodeSearch(data)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, genes, 3)

	assert.Equal(t, genome.Gene{
		Symbol:      "TP53",
		Name:        "tumor protein p53",
		Chrom:       "chr17",
		Description: "tumor protein p53",
		GeneID:      "7157",
	}, genes[0])
	assert.Equal(t, "chrX", genes[1].Chrom)
	assert.Equal(t, "7158", genes[1].GeneID)
	assert.Equal(t, "chr7", genes[2].Chrom)
	assert.Equal(t, "SHH", genes[2].Symbol)
}

func TestDecodeSearch_Cap(t *testing.T) {
	tests := []struct {
		name  string
		count float64
		rows  int
		want  int
	}{
		{"count above cap", 250, 20, 10},
		{"count equals cap", 10, 10, 10},
		{"count below cap", 3, 3, 3},
		{"count larger than rows", 8, 5, 5},
		{"rows larger than count", 2, 7, 2},
		{"count beyond int range", 1e20, 12, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			genes, _, err := DecodeSearch(searchPayload(t, tt.count, tt.rows, tt.rows))
			require.NoError(t, err)
			assert.Len(t, genes, tt.want)
			for i, g := range genes {
				assert.Equal(t, fmt.Sprintf("GENE%d", i), g.Symbol, "insertion order")
			}
		})
	}
}

func TestDecodeSearch_ZeroCount(t *testing.T) {
	genes, skipped, err := DecodeSearch([]byte(`[0, [], null, []]`))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.NotNil(t, genes)
	assert.Empty(t, genes)
}

func TestDecodeSearch_ShortGeneIDs(t *testing.T) {
	genes, _, err := DecodeSearch(searchPayload(t, 4, 4, 2))
	require.NoError(t, err)
	require.Len(t, genes, 4)
	assert.Equal(t, "1000", genes[0].GeneID)
	assert.Equal(t, "1001", genes[1].GeneID)
	assert.Empty(t, genes[2].GeneID)
	assert.Empty(t, genes[3].GeneID)
}

func TestDecodeSearch_MissingGeneIDField(t *testing.T) {
	data := []byte(`[1, [], {"Symbol": ["BRCA1"]}, [["17","17q21.31","BRCA1","BRCA1 DNA repair associated"]]]`)
	genes, _, err := DecodeSearch(data)
	require.NoError(t, err)
	require.Len(t, genes, 1)
	assert.Empty(t, genes[0].GeneID)
	assert.Equal(t, "BRCA1", genes[0].Symbol)
}

func TestDecodeSearch_SkipsBadRows(t *testing.T) {
	data := []byte(`[4, [], {"GeneID": ["1", "2", "3", "4"]},
		[["1","1p36","A1","alpha one"],
		 "not a row",
		 ["2","2q"],
		 [null,"?","D4","delta four"]]]`)

	genes, skipped, err := DecodeSearch(data)
	require.NoError(t, err)
	require.Len(t, genes, 3)
	assert.Equal(t, "A1", genes[0].Symbol)
	assert.Equal(t, "1", genes[0].GeneID)

	// a short row is kept with its missing columns empty
	assert.Equal(t, genome.Gene{Chrom: "chr2", GeneID: "3"}, genes[1])

	assert.Equal(t, "D4", genes[2].Symbol)
	assert.Equal(t, "4", genes[2].GeneID, "ids stay aligned by row index")
	assert.Empty(t, genes[2].Chrom)

	require.Len(t, skipped, 1)
	var rowErr *RowError
	require.ErrorAs(t, skipped[0], &rowErr)
	assert.Equal(t, 1, rowErr.Index)
}

func TestDecodeSearch_Malformed(t *testing.T) {
	for name, body := range map[string]string{
		"object":    `{"count": 1}`,
		"short":     `[1, [], {}]`,
		"bad count": `["many", [], {}, []]`,
		"bad rows":  `[1, [], {}, {"0": []}]`,
		"not json":  `<html>`,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := DecodeSearch([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestSearchGenes(t *testing.T) {
	payload := searchPayload(t, 42, 10, 10)
	queries := make(chan url.Values, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.Query()
		w.Write(payload)
	}))
	defer srv.Close()

	c := NewSearchClient(srv.URL)
	res, err := c.SearchGenes(context.Background(), "BRCA", "hg38")
	require.NoError(t, err)

	q := <-queries
	assert.Equal(t, "BRCA", q.Get("terms"))
	assert.Equal(t, "chromosome,map_location,Symbol,description,type_of_gene", q.Get("df"))
	assert.Contains(t, q.Get("ef"), "GeneID")

	assert.Equal(t, "BRCA", res.Query)
	assert.Equal(t, "hg38", res.AssemblyID)
	assert.Len(t, res.Results, 10)
}

func TestSearchGenes_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewSearchClient(srv.URL).SearchGenes(context.Background(), "TP53", "hg38")
	require.Error(t, err)
	assert.ErrorIs(t, err, genome.ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "NCBI API error")

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": true}`)
	}))
	defer bad.Close()

	_, err = NewSearchClient(bad.URL).SearchGenes(context.Background(), "TP53", "hg38")
	assert.ErrorIs(t, err, genome.ErrMalformedResponse)
}
