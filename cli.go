package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"quilcirq/latex"
	"quilcirq/quil"
)

const appName = "quilcirq"

var version = "dev" // set with -ldflags "-X main.version=..."

// newRootCmd builds the command tree. Diagnostics and logs go to stderr.
func newRootCmd() *cobra.Command {
	var verbose bool
	flags := &settingsFlags{}

	root := &cobra.Command{
		Use:          appName,
		Short:        "Draw Quil programs as Quantikz circuit diagrams",
		Long:         `quilcirq converts Quil programs into LaTeX documents that draw the circuit with the TikZ quantikz library.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}
	root.SilenceErrors = true

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	flags.register(root.PersistentFlags())

	root.AddCommand(newRenderCmd(flags))
	root.AddCommand(newBatchCmd(flags))
	root.AddCommand(newViewCmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newCacheCmd())

	return root
}

// readSource reads Quil from path, or from stdin when path is "" or "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func newRenderCmd(flags *settingsFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a Quil program to a LaTeX document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			path := argOrEmpty(args)
			logger := loggerFromContext(cmd.Context())

			src, err := readSource(cmd, path)
			if err != nil {
				return err
			}
			p, err := quil.Parse(src)
			if err != nil {
				return reportError(cmd.ErrOrStderr(), path, err)
			}
			d, err := latex.Build(p, settings)
			if err != nil {
				return reportError(cmd.ErrOrStderr(), path, err)
			}
			logger.Debug("Laid out circuit", "qubits", len(d.Qubits()), "columns", d.Columns())

			doc := latex.NewDocument(d.String()).String()
			if output == "" || output == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), doc)
				return err
			}
			if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
				return err
			}
			logger.Info("Wrote document", "file", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newBatchCmd(flags *settingsFlags) *cobra.Command {
	opts := batchOpts{}

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Render every .quil file under a directory to a sibling .tex file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			opts.settings = settings
			_, err = runBatch(cmd.Context(), args[0], opts)
			return err
		},
	}
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "parallel renders (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always render, ignoring the disk cache")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "cache directory (default $XDG_CACHE_HOME/quilcirq)")
	return cmd
}

func newViewCmd(flags *settingsFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view [file]",
		Short: "Open an interactive previewer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("view needs an interactive terminal")
			}
			settings, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}

			path := argOrEmpty(args)
			src := ""
			if path != "" {
				data, err := os.ReadFile(path)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				src = string(data)
			}

			p := tea.NewProgram(initialModel(src, path, settings), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

func newServeCmd(flags *settingsFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /render over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), addr, settings)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func newCacheCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache(dir)
			if err != nil {
				return err
			}
			if err := c.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			loggerFromContext(cmd.Context()).Info("Cache cleared", "dir", c.dir)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&dir, "cache-dir", "", "cache directory (default $XDG_CACHE_HOME/quilcirq)")
	cmd.AddCommand(clearCmd)
	return cmd
}
