package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-genome/internal/genome"
)

// GeneRow is a gene as exported: the search hit plus its resolved location,
// if the detail lookup succeeded.
type GeneRow struct {
	Gene   genome.Gene
	Bounds *genome.GeneBounds
	Strand string
}

// NewGeneRow builds an export row from a gene and its detail lookup.
func NewGeneRow(g genome.Gene, d genome.DetailResult) GeneRow {
	row := GeneRow{Gene: g}
	if d.Found() {
		row.Bounds = d.Bounds
		if len(d.Detail.GenomicInfo) > 0 {
			row.Strand = d.Detail.GenomicInfo[0].Strand
		}
	}
	return row
}

// WriteCatalog replaces the assemblies table with the catalog's contents.
func (s *Store) WriteCatalog(ctx context.Context, c *genome.Catalog) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM assemblies"); err != nil {
		return fmt.Errorf("clear assemblies: %w", err)
	}

	seen := make(map[string]bool, c.Len())
	return s.appendRows(ctx, "assemblies", func(a *goduckdb.Appender) error {
		ordinal := int32(0)
		for _, org := range c.Organisms {
			for _, asm := range c.Assemblies(org) {
				if seen[asm.ID] {
					continue
				}
				seen[asm.ID] = true
				if err := a.AppendRow(org, ordinal, asm.ID, asm.DisplayName, asm.SourceName, asm.Active); err != nil {
					return fmt.Errorf("append assembly: %w", err)
				}
				ordinal++
			}
		}
		return nil
	})
}

// WriteChromosomes replaces the chromosome list stored for an assembly.
// Order is kept in the ordinal column.
func (s *Store) WriteChromosomes(ctx context.Context, assemblyID string, chroms []genome.Chromosome) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chromosomes WHERE genome=?", assemblyID); err != nil {
		return fmt.Errorf("clear chromosomes: %w", err)
	}
	if len(chroms) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(chroms))
	return s.appendRows(ctx, "chromosomes", func(a *goduckdb.Appender) error {
		for i, c := range chroms {
			if seen[c.Name] {
				continue
			}
			seen[c.Name] = true
			if err := a.AppendRow(assemblyID, int32(i), c.Name, c.Size); err != nil {
				return fmt.Errorf("append chromosome: %w", err)
			}
		}
		return nil
	})
}

type geneKey struct {
	symbol, chrom string
}

// WriteGenes upserts genes for an assembly. Duplicate (symbol, chrom) entries
// are deduplicated before writing, keeping the first.
func (s *Store) WriteGenes(ctx context.Context, assemblyID string, rows []GeneRow) error {
	if len(rows) == 0 {
		return nil
	}

	seen := make(map[geneKey]bool, len(rows))
	deduped := make([]GeneRow, 0, len(rows))
	for _, r := range rows {
		k := geneKey{r.Gene.Symbol, r.Gene.Chrom}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, r)
		}
	}

	for _, r := range deduped {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM genes WHERE genome=? AND symbol=? AND chrom=?",
			assemblyID, r.Gene.Symbol, r.Gene.Chrom); err != nil {
			return fmt.Errorf("replace gene %s: %w", r.Gene.Symbol, err)
		}
	}

	return s.appendRows(ctx, "genes", func(a *goduckdb.Appender) error {
		for _, r := range deduped {
			var start, end any
			if r.Bounds != nil {
				start, end = r.Bounds.Min, r.Bounds.Max
			}
			g := r.Gene
			if err := a.AppendRow(assemblyID, g.Symbol, g.Chrom, g.GeneID, g.Name, g.Description, start, end, r.Strand); err != nil {
				return fmt.Errorf("append gene: %w", err)
			}
		}
		return nil
	})
}

// Assemblies returns the stored catalog in its original order.
func (s *Store) Assemblies(ctx context.Context) (*genome.Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT organism, genome, name, source_name, active
		FROM assemblies ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query assemblies: %w", err)
	}
	defer rows.Close()

	c := genome.NewCatalog()
	for rows.Next() {
		var org string
		var a genome.Assembly
		if err := rows.Scan(&org, &a.ID, &a.DisplayName, &a.SourceName, &a.Active); err != nil {
			return nil, fmt.Errorf("scan assembly: %w", err)
		}
		c.Add(org, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assemblies: %w", err)
	}
	return c, nil
}

// Chromosomes returns the stored chromosomes of an assembly in their original order.
func (s *Store) Chromosomes(ctx context.Context, assemblyID string) ([]genome.Chromosome, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chrom, size FROM chromosomes
		WHERE genome=? ORDER BY ordinal`, assemblyID)
	if err != nil {
		return nil, fmt.Errorf("query chromosomes: %w", err)
	}
	defer rows.Close()

	var chroms []genome.Chromosome
	for rows.Next() {
		var c genome.Chromosome
		if err := rows.Scan(&c.Name, &c.Size); err != nil {
			return nil, fmt.Errorf("scan chromosome: %w", err)
		}
		chroms = append(chroms, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chromosomes: %w", err)
	}
	return chroms, nil
}

// GenesOnChrom returns stored genes of an assembly on one chromosome, by symbol.
func (s *Store) GenesOnChrom(ctx context.Context, assemblyID, chrom string) ([]GeneRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		symbol, chrom, gene_id, name, description, gene_start, gene_end, strand
		FROM genes
		WHERE genome=? AND chrom=?
		ORDER BY symbol`, assemblyID, genome.NormalizeChrom(chrom))
	if err != nil {
		return nil, fmt.Errorf("query genes: %w", err)
	}
	defer rows.Close()

	return scanGeneRows(rows)
}

// LookupGene returns stored genes of an assembly with the given symbol.
func (s *Store) LookupGene(ctx context.Context, assemblyID, symbol string) ([]GeneRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		symbol, chrom, gene_id, name, description, gene_start, gene_end, strand
		FROM genes
		WHERE genome=? AND symbol=?
		ORDER BY chrom`, assemblyID, symbol)
	if err != nil {
		return nil, fmt.Errorf("query gene: %w", err)
	}
	defer rows.Close()

	return scanGeneRows(rows)
}

// scanGeneRows scans rows into GeneRow slices.
func scanGeneRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]GeneRow, error) {
	var out []GeneRow
	for rows.Next() {
		var r GeneRow
		var start, end sql.NullInt64
		var strand sql.NullString
		if err := rows.Scan(
			&r.Gene.Symbol, &r.Gene.Chrom, &r.Gene.GeneID, &r.Gene.Name, &r.Gene.Description,
			&start, &end, &strand,
		); err != nil {
			return nil, fmt.Errorf("scan gene: %w", err)
		}
		if start.Valid && end.Valid {
			r.Bounds = &genome.GeneBounds{Min: start.Int64, Max: end.Int64}
		}
		r.Strand = strand.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genes: %w", err)
	}
	return out, nil
}
