package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-genome/internal/output"
	"github.com/inodb/vibe-genome/internal/server"
)

func newSequenceCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "sequence <genome> <chrom> <start> <end>",
		Short: "Fetch reference sequence for a 1-based inclusive range",
		Example: `  vibe-genome sequence hg38 17 7668402 7668500
  vibe-genome sequence hg38 chrM 1 16569 --format fasta -o chrM.fa`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil || start < 1 {
				return usageError{fmt.Errorf("start must be a positive integer, got %q", args[2])}
			}
			end, err := strconv.ParseInt(args[3], 10, 64)
			if err != nil || end < start {
				return usageError{fmt.Errorf("end must be an integer not less than start, got %q", args[3])}
			}
			if format != "tab" && format != "fasta" {
				return usageError{fmt.Errorf("unknown output format %q", format)}
			}

			chrom := args[1]
			res := a.svc.Sequence(cmd.Context(), chrom, args[0], start, end)
			if !res.OK() {
				return fmt.Errorf("fetch sequence: %s", res.Error)
			}

			out, closeOut, err := openOutput(cmd)
			if err != nil {
				return err
			}
			defer closeOut()

			if format == "fasta" {
				fw := output.NewFASTAWriter(out)
				if err := fw.Write(chrom, res); err != nil {
					return err
				}
				return fw.Flush()
			}

			w := output.NewTabWriter(out, output.SequenceColumns)
			if err := w.WriteHeader(); err != nil {
				return err
			}
			if err := w.WriteSequence(chrom, res); err != nil {
				return err
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "tab", "Output format: tab, fasta")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browse operations as a JSON HTTP API",
		Example: `  vibe-genome serve
  vibe-genome serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("verbose"); !v {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.svc, a.logger.Named("server"))
			return srv.Run(ctx, viper.GetString("server.addr"))
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default: server.addr, :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
