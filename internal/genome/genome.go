// Package genome defines the domain model shared by the genome browsing layer:
// assemblies, chromosomes, genes and the coordinate types used to address them.
package genome

import (
	"errors"
	"strings"
)

// Failure classes surfaced by listing and search calls.
var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrMalformedResponse   = errors.New("malformed upstream response")
	ErrMissingIdentifier   = errors.New("missing identifier")
)

// DefaultOrganism is used when the assembly listing omits an organism.
const DefaultOrganism = "Other"

// Assembly is a genome build as listed by the assembly service.
type Assembly struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	SourceName  string `json:"sourceName"`
	Active      bool   `json:"active"`
}

// Catalog groups assemblies by organism, preserving the order in which
// organisms and assemblies appeared upstream.
type Catalog struct {
	Organisms  []string              `json:"organisms"`
	ByOrganism map[string][]Assembly `json:"genomes"`
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{ByOrganism: make(map[string][]Assembly)}
}

// Add appends an assembly to the organism's sequence. An empty organism is
// filed under DefaultOrganism.
func (c *Catalog) Add(organism string, a Assembly) {
	if organism == "" {
		organism = DefaultOrganism
	}
	if _, ok := c.ByOrganism[organism]; !ok {
		c.Organisms = append(c.Organisms, organism)
	}
	c.ByOrganism[organism] = append(c.ByOrganism[organism], a)
}

// Assemblies returns the assemblies listed for an organism.
func (c *Catalog) Assemblies(organism string) []Assembly {
	return c.ByOrganism[organism]
}

// Only returns a catalog holding just the given organism's assemblies.
func (c *Catalog) Only(organism string) *Catalog {
	out := NewCatalog()
	for _, a := range c.Assemblies(organism) {
		out.Add(organism, a)
	}
	return out
}

// Len returns the total number of assemblies in the catalog.
func (c *Catalog) Len() int {
	n := 0
	for _, as := range c.ByOrganism {
		n += len(as)
	}
	return n
}

// Chromosome is a primary contig of an assembly.
type Chromosome struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Gene is a single gene search hit.
type Gene struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Chrom       string `json:"chrom"`
	Description string `json:"description"`
	GeneID      string `json:"gene_id,omitempty"`
}

// GenomicInfo locates a gene on a chromosome as reported by the summary service.
type GenomicInfo struct {
	Chrom      string `json:"chrom,omitempty"`
	ChromStart int64  `json:"chromStart"`
	ChromEnd   int64  `json:"chromEnd"`
	Strand     string `json:"strand"`
}

// Organism names the species a gene belongs to.
type Organism struct {
	ScientificName string `json:"scientificName"`
	CommonName     string `json:"commonName,omitempty"`
}

// GeneDetail is the summary of a single gene.
type GeneDetail struct {
	GenomicInfo []GenomicInfo `json:"genomicInfo"`
	Summary     string        `json:"summary,omitempty"`
	Organism    Organism      `json:"organism"`
}

// IsReverseStrand reports whether the primary genomic location is on the minus strand.
func (d *GeneDetail) IsReverseStrand() bool {
	return len(d.GenomicInfo) > 0 && d.GenomicInfo[0].Strand == "-"
}

// NormalizeChrom returns the chromosome name with a "chr" prefix.
// Names that already carry the prefix are returned unchanged.
func NormalizeChrom(chrom string) string {
	if chrom == "" || strings.HasPrefix(chrom, "chr") {
		return chrom
	}
	return "chr" + chrom
}

// MaxSearchResults caps the number of genes a search returns.
const MaxSearchResults = 10

// SearchResult is the outcome of a gene search.
type SearchResult struct {
	Query      string `json:"query"`
	AssemblyID string `json:"genome"`
	Results    []Gene `json:"results"`
}

// DetailResult is the outcome of a gene detail lookup. Detail, Bounds and
// InitialRange are either all set or all nil; Err holds the cause when they are nil.
type DetailResult struct {
	Detail       *GeneDetail `json:"geneDetails"`
	Bounds       *GeneBounds `json:"geneBounds"`
	InitialRange *Range      `json:"initialRange"`
	Err          error       `json:"-"`
}

// Found reports whether the lookup produced a gene.
func (r DetailResult) Found() bool {
	return r.Detail != nil
}
