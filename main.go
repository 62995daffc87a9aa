package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

type rootOptions struct {
	configPath string
	logFile    string
	debug      bool
}

func main() {
	err := newRootCmd().Execute()
	_ = CloseLogger()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "mtg-card-tool",
		Short:        "Magic: The Gathering card lookup for agents",
		Long:         "mtg-card-tool looks up Magic: The Gathering cards by name and returns a simplified JSON record over HTTP, MCP or the command line.",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "also append logs to this file")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newServeCmd(opts), newMCPCmd(opts), newLookupCmd(opts))

	return rootCmd
}

// setup loads the config, initializes logging and builds the card finder.
func setup(opts *rootOptions) (*Config, CardFinder, error) {
	cfg, err := LoadConfig(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if err := InitLogger(cfg.Log.File); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	SetLogLevel(cfg.Log.Level)
	if opts.debug {
		SetLogLevel("debug")
		GetLogger().Debug().Msg("Debug logging enabled")
	}

	source, err := newCardSource(cfg.Upstream)
	if err != nil {
		return nil, nil, err
	}

	GetLogger().Info().
		Str("provider", cfg.Upstream.Provider).
		Str("base_url", cfg.Upstream.BaseURL).
		Msg("Card lookup configured")

	return cfg, NewLookup(source, componentLogger("lookup")), nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the card lookup HTTP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, finder, err := setup(opts)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return Serve(cmd.Context(), cfg, finder)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the get_card_info tool over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, finder, err := setup(opts)
			if err != nil {
				return err
			}

			GetLogger().Info().Str("transport", "stdio").Msg("Starting MTG card MCP server")

			return server.ServeStdio(NewCardMCPServer(finder, componentLogger("mcp")))
		},
	}
}

func newLookupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <card name>",
		Short: "Look up a single card and print it",
		Example: `  mtg-card-tool lookup Black Lotus
  mtg-card-tool lookup "Lightning Bolt"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, finder, err := setup(opts)
			if err != nil {
				return err
			}

			cardName := strings.Join(args, " ")
			card, found := finder.Find(context.Background(), cardName)
			if !found {
				return errors.New(notFoundMessage(cardName))
			}

			printCard(cmd.OutOrStdout(), card)
			return nil
		},
	}
}

func printCard(w io.Writer, card CardInfo) {
	title := color.New(color.FgHiWhite, color.Bold)
	label := color.New(color.FgCyan)

	title.Fprintf(w, "%s", valueOr(card.Name, "(unnamed)"))
	if card.ManaCost != nil {
		fmt.Fprintf(w, " %s", *card.ManaCost)
	}
	fmt.Fprintln(w)

	field := func(name string, value *string) {
		if value == nil {
			return
		}
		label.Fprintf(w, "%s: ", name)
		fmt.Fprintln(w, *value)
	}

	field("Type", card.Type)
	field("Text", card.Text)
	if card.Power != nil || card.Toughness != nil {
		pt := valueOr(card.Power, "-") + "/" + valueOr(card.Toughness, "-")
		field("Power/Toughness", &pt)
	}
	field("Image", card.ImageURL)
}
