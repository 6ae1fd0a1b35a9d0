package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenthands/lexigraph/internal/config"
	"github.com/agenthands/lexigraph/internal/core"
	"github.com/agenthands/lexigraph/internal/driver"
	"github.com/agenthands/lexigraph/internal/logger"
	"github.com/agenthands/lexigraph/internal/report"
	"github.com/agenthands/lexigraph/internal/server"
)

type options struct {
	configPath string
	logMode    string
	root       string
	seed       uint64
	rotate     bool
	format     string
	addr       string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "lexigraph",
		Short:        "Synthesize and evaluate a vocabulary/grammar knowledge graph",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML config file (default: $CONFIG_PATH or built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&opts.logMode, "log-mode", "", "log mode: dev or prod")
	rootCmd.PersistentFlags().StringVar(&opts.root, "root", "", "project root holding data/ and network_output/")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Synthesize nodes and edges from the cleaned records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}
	buildCmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (default from config, 42)")
	buildCmd.Flags().BoolVar(&opts.rotate, "rotate", false, "keep the current edges as the prior snapshot before writing")

	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score the persisted network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts)
		},
	}
	evaluateCmd.Flags().StringVar(&opts.format, "format", report.FormatText, "output format: text, json or yaml")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve synthesis and evaluation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	serveCmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")

	rootCmd.AddCommand(buildCmd, evaluateCmd, serveCmd)
	return rootCmd
}

// setup resolves configuration: file, then environment, then flags.
func setup(opts *options) (*config.Config, *logger.Logger, error) {
	path := opts.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, nil, err
	}
	if opts.root != "" {
		cfg.Root = opts.root
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.logMode != "" {
		cfg.Log.Mode = opts.logMode
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}

func newLexigraph(cfg *config.Config, log *logger.Logger) *core.Lexigraph {
	return core.NewLexigraph(driver.NewFileDriver(cfg.Root, cfg.Paths, log), cfg, log)
}

func runBuild(cmd *cobra.Command, opts *options) error {
	cfg, log, err := setup(opts)
	if err != nil {
		return err
	}
	defer log.Sync()

	res, err := newLexigraph(cfg, log).Build(cmd.Context(), core.BuildOptions{Seed: cfg.Seed, Rotate: opts.rotate})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Nodes: %d\n", res.Summary.Nodes)
	fmt.Fprintf(out, "Edges: %d\n", res.Summary.Edges)
	fmt.Fprintf(out, "Seed: %d\n", res.Summary.Seed)
	fmt.Fprintf(out, "Fingerprint: %s\n", res.Summary.Fingerprint)
	return nil
}

func runEvaluate(cmd *cobra.Command, opts *options) error {
	cfg, log, err := setup(opts)
	if err != nil {
		return err
	}
	defer log.Sync()

	r, err := newLexigraph(cfg, log).Evaluate(cmd.Context())
	if err != nil {
		return err
	}
	return report.Render(cmd.OutOrStdout(), r, opts.format)
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg, log, err := setup(opts)
	if err != nil {
		return err
	}
	defer log.Sync()

	srv := server.FromConfig(cfg, log)
	log.Info("Starting server", "addr", cfg.Server.Addr)
	return srv.SetupRouter().Run(cfg.Server.Addr)
}
