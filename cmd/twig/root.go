package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/henri123lemoine/twig/internal/app"
	"github.com/henri123lemoine/twig/internal/config"
	"github.com/henri123lemoine/twig/internal/debug"
	"github.com/henri123lemoine/twig/internal/git"
	"github.com/henri123lemoine/twig/internal/rank"
)

type options struct {
	configPath string
	dir        string
	debugPath  string
	remote     bool
	ranker     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "twig",
		Short: "Switch, create and delete git branches from a fuzzy list",
		Long: `twig lists the local and remote branches of a git repository in a
filterable terminal UI. Type to filter, enter to switch (or track a remote
branch), ctrl+n to create the typed branch, ctrl+d to delete.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	f.StringVarP(&opts.dir, "cwd", "C", ".", "run as if started in this directory")
	f.StringVar(&opts.debugPath, "debug", "", "append debug logs to this file (or set "+debug.EnvVar+")")
	f.BoolVar(&opts.remote, "remote", false, "start on the remote branches tab")
	f.StringVar(&opts.ranker, "ranker", "", "filter matcher: fuzzy or fold (overrides config)")

	cmd.AddCommand(newConfigCmd())
	return cmd
}

func run(ctx context.Context, opts *options) error {
	closeLog, err := debug.Setup(opts.debugPath)
	if err != nil {
		return fmt.Errorf("enable debug log: %w", err)
	}
	defer closeLog()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	for _, w := range cfg.Validate() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if opts.remote {
		cfg.General.StartTab = app.TabRemote.String()
	}
	if opts.ranker != "" {
		cfg.Filter.Ranker = opts.ranker
	}
	ranker, err := rank.New(cfg.Filter.Ranker)
	if err != nil {
		return err
	}

	runner := git.NewRunner(cfg.General.GitBinary)
	repo, err := git.DetectRepo(ctx, runner, opts.dir)
	if err != nil {
		return fmt.Errorf("%w\ntwig must be run from within a git repository", err)
	}
	debug.Log("repository %s (head %q)", repo.Root, repo.Head)

	model := app.New(cfg, repo, runner, ranker)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the twig config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.ConfigPath())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigPath()
			if err := config.CreateDefaultConfigFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})

	return cmd
}
