// Package main is the entry point for the fedlex CLI: a resolver for
// citations to Swiss federal legislation, backed by the Fedlex SPARQL
// endpoint, with an MCP server mode for agent integration.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coolbeans/fedlex/pkg/fedlex"
	"github.com/coolbeans/fedlex/pkg/mcpserver"
)

// version is set at build time via ldflags.
var version = "dev"

var logger *zap.Logger

var rootCmd = &cobra.Command{
	Use:   "fedlex",
	Short: "Swiss federal legislation citation resolver",
	Long: `fedlex resolves free-form citations to Swiss federal legislation
("OR 41, Abs. 2", "ZGB 1", or an SR number like "210") to the canonical
law on Fedlex, a deep link into the consolidated text, and the article
wording.

Lookups run against the official Fedlex SPARQL endpoint. Abbreviation
resolution uses a local mapping file built with "fedlex mapping build".`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stderr"}
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./fedlex.yaml or ~/.config/fedlex/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(mappingCmd())
	rootCmd.AddCommand(serveCmd())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("fedlex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "fedlex"))
		}
	}

	viper.SetDefault("endpoint", fedlex.DefaultEndpoint)
	viper.SetDefault("mapping_file", "abbreviation_mapping.json")
	viper.SetDefault("rate_limit", fedlex.DefaultRequestInterval)
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("cache_ttl", fedlex.DefaultCacheTTL)
	viper.SetDefault("user_agent", fedlex.DefaultUserAgent)

	viper.SetEnvPrefix("FEDLEX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newSPARQLClient builds the SPARQL client from the effective configuration.
func newSPARQLClient() *fedlex.SPARQLClient {
	config := fedlex.DefaultConfig()
	config.Endpoint = viper.GetString("endpoint")
	config.RateLimit = viper.GetDuration("rate_limit")
	config.CacheTTL = viper.GetDuration("cache_ttl")
	config.UserAgent = viper.GetString("user_agent")
	config.HTTPClient = &http.Client{Timeout: viper.GetDuration("timeout")}
	return fedlex.NewSPARQLClient(config)
}

// newSearcher wires the full resolution pipeline: abbreviation mapping,
// SPARQL-backed SR resolution, and HTML full-text enrichment.
func newSearcher() (*fedlex.Searcher, *fedlex.SPARQLClient, error) {
	mappingFile := viper.GetString("mapping_file")
	table, err := fedlex.LoadMapping(mappingFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load abbreviation mapping %s (run \"fedlex mapping build\" first): %w", mappingFile, err)
	}
	logger.Debug("abbreviation mapping loaded",
		zap.String("path", mappingFile),
		zap.Int("abbreviations", table.Len()))

	sparqlClient := newSPARQLClient()
	fetcher := fedlex.NewHTMLArticleFetcher(
		&http.Client{Timeout: viper.GetDuration("timeout")},
		viper.GetString("user_agent"))
	resolver := fedlex.NewResolver(table, sparqlClient)
	return fedlex.NewSearcher(resolver, fetcher, logger), sparqlClient, nil
}

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <citation>",
		Short: "Resolve a citation to its law and deep link",
		Long: `Resolve a free-form citation to Swiss federal legislation.

Examples:
  fedlex resolve "OR 41, Abs. 2"
  fedlex resolve "ZGB 1"
  fedlex resolve 210`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noText, _ := cmd.Flags().GetBool("no-text")

			searcher, _, err := newSearcher()
			if err != nil {
				return err
			}

			result, err := searcher.SearchLaw(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if result.Law.Title != "" {
				fmt.Printf("Title:     %s\n", result.Law.Title)
			}
			fmt.Printf("SR Number: %s\n", result.Law.SRNumber)
			if result.Law.Abbreviation != "" {
				fmt.Printf("Abbrev:    %s\n", result.Law.Abbreviation)
			}
			fmt.Printf("URL:       %s\n", result.DeepLink)
			if result.Fragment != "" {
				fmt.Printf("Fragment:  %s\n", result.Fragment)
			}
			if !noText && result.FullText != "" {
				fmt.Printf("\n%s\n", result.FullText)
			}
			if result.Note != "" {
				fmt.Printf("\nNote: %s\n", result.Note)
			}
			return nil
		},
	}
	cmd.Flags().Bool("no-text", false, "skip printing the article full text")
	return cmd
}

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <sr-number>",
		Short: "Fetch legislation details by SR number",
		Long: `Look up one law by its Systematic Law (SR) number.

Example:
  fedlex fetch 210`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sparqlClient := newSPARQLClient()

			law, err := sparqlClient.ResolveSRNumber(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if law == nil {
				return fmt.Errorf("no legislation found for SR number: %s", args[0])
			}

			fmt.Printf("Title:     %s\n", law.Title)
			fmt.Printf("SR Number: %s\n", law.SRNumber)
			fmt.Printf("URL:       %s\n", law.URL)
			return nil
		},
	}
}

func mappingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Manage the local abbreviation mapping",
	}
	cmd.AddCommand(mappingBuildCmd())
	cmd.AddCommand(mappingInfoCmd())
	return cmd
}

func mappingBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the abbreviation mapping from the SPARQL endpoint",
		Long: `Query the Fedlex SPARQL endpoint for all German law abbreviations and
write them to a local JSON mapping file. The resolve and serve commands
read this file to translate abbreviations like "OR" or "ZGB" to SR
numbers without a network round trip.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = viper.GetString("mapping_file")
			}

			sparqlClient := newSPARQLClient()
			logger.Info("fetching abbreviations", zap.String("endpoint", viper.GetString("endpoint")))

			entries, err := sparqlClient.FetchAbbreviations(cmd.Context())
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode mapping: %w", err)
			}
			if err := os.WriteFile(output, append(encoded, '\n'), 0644); err != nil {
				return fmt.Errorf("failed to write mapping file: %w", err)
			}

			fmt.Printf("Wrote %d abbreviations to %s\n", len(entries), output)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "output file (default: configured mapping_file)")
	return cmd
}

func mappingInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show summary statistics for the local mapping file",
		RunE: func(cmd *cobra.Command, args []string) error {
			mappingFile := viper.GetString("mapping_file")
			data, err := os.ReadFile(mappingFile)
			if err != nil {
				return fmt.Errorf("failed to read mapping file %s: %w", mappingFile, err)
			}

			var entries map[string][]fedlex.MappingEntry
			if err := json.Unmarshal(data, &entries); err != nil {
				return fmt.Errorf("failed to parse mapping file %s: %w", mappingFile, err)
			}

			ambiguous := make([]string, 0)
			for abbreviation, candidates := range entries {
				if len(candidates) > 1 {
					ambiguous = append(ambiguous, abbreviation)
				}
			}
			sort.Strings(ambiguous)

			fmt.Printf("Mapping file:  %s\n", mappingFile)
			fmt.Printf("Abbreviations: %d\n", len(entries))
			fmt.Printf("Ambiguous:     %d\n", len(ambiguous))
			for _, abbreviation := range ambiguous {
				fmt.Printf("  - %s (%d candidates)\n", abbreviation, len(entries[abbreviation]))
			}
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolver as an MCP server on stdio",
		Long: `Run an MCP (Model Context Protocol) server speaking newline-delimited
JSON-RPC 2.0 on stdin/stdout. Exposes the search_law and
fetch_legislation tools. Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			searcher, sparqlClient, err := newSearcher()
			if err != nil {
				return err
			}

			logger.Info("MCP server starting", zap.String("version", version))
			server := mcpserver.New(searcher, sparqlClient, version, logger)
			return server.Run(cmd.Context(), os.Stdin, os.Stdout)
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
