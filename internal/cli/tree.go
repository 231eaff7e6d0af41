package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mchmarny/brandnav/pkg/menu"
	"github.com/mchmarny/brandnav/pkg/nav"
)

type treeOptions struct {
	path    string
	trail   []string
	home    string
	baseURL string
	label   string
}

func newTreeCmd() *cobra.Command {
	opts := &treeOptions{}

	cmd := &cobra.Command{
		Use:   "tree <menu-file>",
		Short: "Print the navigation tree of a menu file as JSON",
		Long: `Print the navigation tree of a menu file as JSON.

The first top-level link always becomes the home icon. Use --trail to mark
nodes by menu item key, or --path to mark the first top-level link whose URL
equals the given path and query.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.path, "path", "", "select the top-level link with this exact path and query")
	f.StringSliceVar(&opts.trail, "trail", nil, "active trail item keys")
	f.StringVar(&opts.home, "home", string(nav.HomeIcon), "home coercion: icon or root")
	f.StringVar(&opts.baseURL, "base-url", nav.DefaultHomeHref, "home href used with --home root")
	f.StringVar(&opts.label, "home-label", nav.DefaultHomeText, "home text used with --home root")

	return cmd
}

func runTree(cmd *cobra.Command, file string, opts *treeOptions) error {
	mode, err := nav.ParseHomeMode(opts.home)
	if err != nil {
		return err
	}

	m, err := menu.ReadFile(file)
	if err != nil {
		return err
	}

	b := nav.NewBuilder(
		nav.WithLogger(slog.Default()),
		nav.WithHomePolicy(nav.HomePolicy{Mode: mode, Href: opts.baseURL, Text: opts.label}),
	)

	tree := b.Build(m.Items, menu.NewTrail(opts.trail...))
	if opts.path != "" {
		tree = nav.SelectByPath(tree, opts.path)
	}

	slog.Debug("tree built", "file", file, "revision", m.Revision, "nodes", len(tree))

	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
