// Package main provides the vibe-genome command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-genome/internal/browse"
	"github.com/inodb/vibe-genome/internal/ncbi"
	"github.com/inodb/vibe-genome/internal/ucsc"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const configName = ".vibe-genome"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if isUsageError(err) {
			fmt.Fprintf(stderr, "\n%s", cmd.UsageString())
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

// usageError marks argument and flag problems.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

func isUsageError(err error) bool {
	var ue usageError
	return errors.As(err, &ue) ||
		strings.HasPrefix(err.Error(), "unknown command") ||
		strings.HasPrefix(err.Error(), "unknown flag") ||
		strings.HasPrefix(err.Error(), "accepts ") ||
		strings.HasPrefix(err.Error(), "requires ")
}

// app carries what every subcommand needs once the root command has set up
// configuration and logging.
type app struct {
	logger *zap.Logger
	svc    *browse.Service
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	var (
		cfgFile string
		verbose bool
	)

	root := &cobra.Command{
		Use:   "vibe-genome",
		Short: "Browse genome assemblies, genes and sequence",
		Long: `vibe-genome lists genome assemblies and their chromosomes, searches genes,
resolves gene coordinates and fetches reference sequence from the UCSC Genome
Browser API and NCBI gene services.`,
		Example: `  vibe-genome genomes --organism Human
  vibe-genome chromosomes hg38
  vibe-genome search TP53 --details
  vibe-genome gene TP53 --genome hg38 --sequence
  vibe-genome sequence hg38 chr17 7668402 7668500 --format fasta
  vibe-genome serve --addr :8080`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			logger, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			a.logger = logger
			a.svc = browse.NewFromConfig(browse.Config{
				UCSCURL:   viper.GetString("ucsc.url"),
				SearchURL: viper.GetString("ncbi.search_url"),
				EUtilsURL: viper.GetString("ncbi.eutils_url"),
				Timeout:   viper.GetDuration("http.timeout"),
			}, logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ~/.vibe-genome.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringP("output", "o", "", "Output file (default: stdout)")
	pf.String("ucsc-url", "", "UCSC Genome Browser API base URL")
	pf.String("search-url", "", "Clinical Tables gene search URL")
	pf.String("eutils-url", "", "NCBI E-utilities base URL")
	pf.Duration("timeout", 0, "HTTP timeout for upstream requests")
	pf.Int("workers", 0, "Parallel gene detail lookups")

	_ = viper.BindPFlag("ucsc.url", pf.Lookup("ucsc-url"))
	_ = viper.BindPFlag("ncbi.search_url", pf.Lookup("search-url"))
	_ = viper.BindPFlag("ncbi.eutils_url", pf.Lookup("eutils-url"))
	_ = viper.BindPFlag("http.timeout", pf.Lookup("timeout"))
	_ = viper.BindPFlag("browse.workers", pf.Lookup("workers"))

	root.AddCommand(newGenomesCmd(a))
	root.AddCommand(newChromosomesCmd(a))
	root.AddCommand(newSearchCmd(a))
	root.AddCommand(newBrowseCmd(a))
	root.AddCommand(newGeneCmd(a))
	root.AddCommand(newSequenceCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newQueryCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// setDefaults registers the built-in value of every configuration key.
func setDefaults() {
	viper.SetDefault("ucsc.url", ucsc.DefaultBaseURL)
	viper.SetDefault("ncbi.search_url", ncbi.DefaultSearchURL)
	viper.SetDefault("ncbi.eutils_url", ncbi.DefaultEUtilsURL)
	viper.SetDefault("http.timeout", 30*time.Second)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("browse.genome", "hg38")
	viper.SetDefault("browse.organism", "")
	viper.SetDefault("browse.workers", 4)
	viper.SetDefault("export.db", "vibe-genome.duckdb")
}

// initConfig loads ~/.vibe-genome.yaml (or cfgFile) and VIBE_GENOME_* environment
// variables. A missing config file is not an error.
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VIBE_GENOME")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// configPath returns the file config changes are written to.
func configPath() (string, error) {
	if f := viper.ConfigFileUsed(); f != "" {
		return f, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
