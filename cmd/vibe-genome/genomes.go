package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-genome/internal/output"
)

// openOutput returns the writer selected by --output and a close function.
func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}

// workerCount returns the configured number of parallel detail lookups.
func workerCount() int {
	return max(1, viper.GetInt("browse.workers"))
}

// assemblyFlag returns --genome, falling back to browse.genome.
func assemblyFlag(cmd *cobra.Command) string {
	if g, _ := cmd.Flags().GetString("genome"); g != "" {
		return g
	}
	return viper.GetString("browse.genome")
}

func newGenomesCmd(a *app) *cobra.Command {
	var organism string

	cmd := &cobra.Command{
		Use:   "genomes",
		Short: "List genome assemblies grouped by organism",
		Example: `  vibe-genome genomes
  vibe-genome genomes --organism Human`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if organism == "" {
				organism = viper.GetString("browse.organism")
			}

			catalog, err := a.svc.Genomes(cmd.Context())
			if err != nil {
				return err
			}
			if organism != "" {
				catalog = catalog.Only(organism)
			}

			out, closeOut, err := openOutput(cmd)
			if err != nil {
				return err
			}
			defer closeOut()

			w := output.NewTabWriter(out, output.AssemblyColumns)
			if err := w.WriteHeader(); err != nil {
				return err
			}
			if err := w.WriteCatalog(catalog); err != nil {
				return err
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&organism, "organism", "", "Only list assemblies of this organism (default: browse.organism)")
	return cmd
}

func newChromosomesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "chromosomes <genome>",
		Short:   "List the primary chromosomes of an assembly in natural order",
		Example: `  vibe-genome chromosomes hg38`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chroms, err := a.svc.Chromosomes(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(cmd)
			if err != nil {
				return err
			}
			defer closeOut()

			w := output.NewTabWriter(out, output.ChromosomeColumns)
			if err := w.WriteHeader(); err != nil {
				return err
			}
			for _, c := range chroms {
				if err := w.WriteChromosome(c); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}
}
