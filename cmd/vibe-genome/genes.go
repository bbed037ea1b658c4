package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-genome/internal/browse"
	"github.com/inodb/vibe-genome/internal/genome"
	"github.com/inodb/vibe-genome/internal/output"
)

// writeGenes writes search hits, resolving their details first when details is set.
func writeGenes(ctx context.Context, a *app, out io.Writer, genes []genome.Gene, details bool) error {
	if !details {
		w := output.NewTabWriter(out, output.GeneColumns)
		if err := w.WriteHeader(); err != nil {
			return err
		}
		for _, g := range genes {
			if err := w.WriteGene(g); err != nil {
				return err
			}
		}
		return w.Flush()
	}

	w := output.NewTabWriter(out, output.DetailColumns)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	resolved, err := a.svc.ResolveDetails(ctx, genes, workerCount())
	if err != nil {
		return err
	}
	for _, r := range resolved {
		if err := w.WriteDetail(r.Gene, r.Detail); err != nil {
			return err
		}
	}
	return w.Flush()
}

func newSearchCmd(a *app) *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search genes by symbol or name (top 10 hits)",
		Example: `  vibe-genome search TP53
  vibe-genome search kinase --details --workers 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.SearchGenes(cmd.Context(), args[0], assemblyFlag(cmd))
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(cmd)
			if err != nil {
				return err
			}
			defer closeOut()

			return writeGenes(cmd.Context(), a, out, res.Results, details)
		},
	}
	cmd.Flags().String("genome", "", "Assembly the search is for (default: browse.genome)")
	cmd.Flags().BoolVar(&details, "details", false, "Resolve coordinates of every hit")
	return cmd
}

func newBrowseCmd(a *app) *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "browse <genome> <chrom>",
		Short: "List genes located on a chromosome",
		Example: `  vibe-genome browse hg38 17
  vibe-genome browse hg38 chrX --details`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.BrowseChromosome(cmd.Context(), args[1], args[0])
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(cmd)
			if err != nil {
				return err
			}
			defer closeOut()

			return writeGenes(cmd.Context(), a, out, res.Results, details)
		},
	}
	cmd.Flags().BoolVar(&details, "details", false, "Resolve coordinates of every gene")
	return cmd
}

// resolveGene turns a gene id or symbol into a gene. Symbols are looked up
// with a search; an exact symbol match wins over the first hit.
func resolveGene(ctx context.Context, svc *browse.Service, arg, assemblyID string) (genome.Gene, error) {
	if _, err := strconv.ParseUint(arg, 10, 64); err == nil {
		return genome.Gene{Symbol: arg, GeneID: arg}, nil
	}

	res, err := svc.SearchGenes(ctx, arg, assemblyID)
	if err != nil {
		return genome.Gene{}, err
	}
	if len(res.Results) == 0 {
		return genome.Gene{}, fmt.Errorf("no gene matching %q", arg)
	}
	for _, g := range res.Results {
		if strings.EqualFold(g.Symbol, arg) {
			return g, nil
		}
	}
	return res.Results[0], nil
}

func newGeneCmd(a *app) *cobra.Command {
	var (
		start, end int64
		sequence   bool
	)

	cmd := &cobra.Command{
		Use:   "gene <gene-id|symbol>",
		Short: "Show a gene's coordinates and optionally its sequence",
		Long: `Resolve a gene's genomic location, strand and default viewing window (the
whole gene, or its first 10,000 bases when longer). With --sequence the window's
reference sequence is fetched as well; --start/--end select another window.`,
		Example: `  vibe-genome gene 7157
  vibe-genome gene TP53 --genome hg38 --sequence
  vibe-genome gene TP53 --sequence --start 7668402 --end 7668500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			assemblyID := assemblyFlag(cmd)

			gene, err := resolveGene(ctx, a.svc, args[0], assemblyID)
			if err != nil {
				return err
			}

			v := browse.NewViewer(a.svc, assemblyID)
			st, err := v.Open(ctx, gene)
			if err != nil {
				return err
			}
			if st.Detail.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: gene details unavailable: %v\n", st.Detail.Err)
			}
			if cmd.Flags().Changed("start") || cmd.Flags().Changed("end") {
				if start < 1 || end < start {
					return usageError{fmt.Errorf("invalid range %d-%d", start, end)}
				}
				if st, err = v.SetRange(ctx, start, end); err != nil {
					return err
				}
			}

			out, closeOut, err := openOutput(cmd)
			if err != nil {
				return err
			}
			defer closeOut()

			w := output.NewTabWriter(out, output.DetailColumns)
			if err := w.WriteHeader(); err != nil {
				return err
			}
			if err := w.WriteDetail(st.Gene, st.Detail); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !sequence || st.Gene.Chrom == "" || st.Range == (genome.Range{}) {
				return nil
			}
			if !st.Sequence.OK() {
				return fmt.Errorf("fetch sequence: %s", st.Sequence.Error)
			}
			fw := output.NewFASTAWriter(out)
			if err := fw.Write(st.Gene.Chrom, st.Sequence); err != nil {
				return err
			}
			return fw.Flush()
		},
	}
	cmd.Flags().String("genome", "", "Assembly to view the gene in (default: browse.genome)")
	cmd.Flags().BoolVar(&sequence, "sequence", false, "Also print the window's sequence as FASTA")
	cmd.Flags().Int64Var(&start, "start", 0, "Window start (1-based, inclusive)")
	cmd.Flags().Int64Var(&end, "end", 0, "Window end (1-based, inclusive)")
	return cmd
}
