package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-genome/internal/duckdb"
	"github.com/inodb/vibe-genome/internal/genome"
	"github.com/inodb/vibe-genome/internal/output"
)

// dbPath returns --db, falling back to export.db.
func dbPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p
	}
	return viper.GetString("export.db")
}

func newExportCmd(a *app) *cobra.Command {
	var chroms, queries []string

	cmd := &cobra.Command{
		Use:   "export <genome>",
		Short: "Export the catalog, an assembly's chromosomes and genes to DuckDB",
		Long: `Write the assembly catalog and the chromosomes of <genome> to a DuckDB database.
Genes found on each --chrom and by each --query are resolved and written too, so
the export can be queried offline with "vibe-genome query" or any DuckDB client.`,
		Example: `  vibe-genome export hg38 --db hg38.duckdb
  vibe-genome export hg38 --chrom 17 --chrom X --query BRCA`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			assemblyID := args[0]

			store, err := duckdb.Open(dbPath(cmd))
			if err != nil {
				return err
			}
			defer store.Close()

			catalog, err := a.svc.Genomes(ctx)
			if err != nil {
				return err
			}
			if err := store.WriteCatalog(ctx, catalog); err != nil {
				return fmt.Errorf("export catalog: %w", err)
			}

			chromList, err := a.svc.Chromosomes(ctx, assemblyID)
			if err != nil {
				return err
			}
			if err := store.WriteChromosomes(ctx, assemblyID, chromList); err != nil {
				return fmt.Errorf("export chromosomes: %w", err)
			}

			var genes []genome.Gene
			for _, c := range chroms {
				res, err := a.svc.BrowseChromosome(ctx, c, assemblyID)
				if err != nil {
					return err
				}
				genes = append(genes, res.Results...)
			}
			for _, q := range queries {
				res, err := a.svc.SearchGenes(ctx, q, assemblyID)
				if err != nil {
					return err
				}
				genes = append(genes, res.Results...)
			}
			n, err := exportGenes(ctx, a, store, assemblyID, genes)
			if err != nil {
				return err
			}

			a.logger.Info("export complete",
				zap.String("db", store.Path()),
				zap.String("genome", assemblyID),
				zap.Int("assemblies", catalog.Len()),
				zap.Int("chromosomes", len(chromList)),
				zap.Int("genes", n))
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d assemblies, %d chromosomes and %d genes to %s\n",
				catalog.Len(), len(chromList), n, store.Path())
			return nil
		},
	}
	cmd.Flags().String("db", "", "DuckDB file (default: export.db)")
	cmd.Flags().StringArrayVar(&chroms, "chrom", nil, "Also export genes on this chromosome (repeatable)")
	cmd.Flags().StringArrayVar(&queries, "query", nil, "Also export genes matching this search (repeatable)")
	return cmd
}

// exportGenes resolves genes' details and writes them, returning how many were written.
// A gene found by more than one search is looked up once.
func exportGenes(ctx context.Context, a *app, store *duckdb.Store, assemblyID string, genes []genome.Gene) (int, error) {
	seen := make(map[[2]string]bool, len(genes))
	var unique []genome.Gene
	for _, g := range genes {
		k := [2]string{g.Symbol, g.Chrom}
		if !seen[k] {
			seen[k] = true
			unique = append(unique, g)
		}
	}
	if len(unique) == 0 {
		return 0, nil
	}

	resolved, err := a.svc.ResolveDetails(ctx, unique, workerCount())
	if err != nil {
		return 0, err
	}
	rows := make([]duckdb.GeneRow, len(resolved))
	for i, r := range resolved {
		rows[i] = duckdb.NewGeneRow(r.Gene, r.Detail)
	}
	if err := store.WriteGenes(ctx, assemblyID, rows); err != nil {
		return 0, fmt.Errorf("export genes: %w", err)
	}
	return len(rows), nil
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query a DuckDB export offline",
		Example: `  vibe-genome query genes hg38 17 --db hg38.duckdb
  vibe-genome query gene hg38 TP53`,
	}
	cmd.PersistentFlags().String("db", "", "DuckDB file (default: export.db)")

	cmd.AddCommand(&cobra.Command{
		Use:   "genomes",
		Short: "List exported assemblies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *duckdb.Store, w *output.TabWriter) error {
				catalog, err := store.Assemblies(cmd.Context())
				if err != nil {
					return err
				}
				return w.WriteCatalog(catalog)
			}, output.AssemblyColumns)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "chromosomes <genome>",
		Short: "List exported chromosomes of an assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *duckdb.Store, w *output.TabWriter) error {
				chroms, err := store.Chromosomes(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, c := range chroms {
					if err := w.WriteChromosome(c); err != nil {
						return err
					}
				}
				return nil
			}, output.ChromosomeColumns)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "genes <genome> <chrom>",
		Short: "List exported genes on a chromosome",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *duckdb.Store, w *output.TabWriter) error {
				rows, err := store.GenesOnChrom(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return writeRows(w, rows)
			}, output.LocatedColumns)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "gene <genome> <symbol>",
		Short: "Look up an exported gene by symbol",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *duckdb.Store, w *output.TabWriter) error {
				rows, err := store.LookupGene(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					return fmt.Errorf("gene %q not in export", args[1])
				}
				return writeRows(w, rows)
			}, output.LocatedColumns)
		},
	})

	return cmd
}

// withStore opens the export and an output table with the given columns, runs fn
// and flushes.
func withStore(cmd *cobra.Command, fn func(*duckdb.Store, *output.TabWriter) error, columns []string) error {
	store, err := duckdb.Open(dbPath(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	w := output.NewTabWriter(out, columns)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := fn(store, w); err != nil {
		return err
	}
	return w.Flush()
}

func writeRows(w *output.TabWriter, rows []duckdb.GeneRow) error {
	for _, r := range rows {
		if err := w.WriteLocated(r.Gene, r.Bounds, r.Strand); err != nil {
			return err
		}
	}
	return nil
}
