/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Command-line interface for jsonlens. Wires the inspection, fetch, history,
report and serve commands onto a cobra root with viper-bound configuration flags.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/jsonlens/cmd/jsonlens/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "jsonlens",
		Short: "jsonlens - inspect, diff, filter and chart JSON API responses",
		Long: `jsonlens infers schemas from JSON documents and live API responses, reports
structural differences between two responses, filters record lists with typed rules
and projects records onto chart points.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	rootCmd.PersistentFlags().String("config", "", "Configuration file path (yaml, json or toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().String("log-dir", "", "Also write logs to files in this directory")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("logging.output_dir", rootCmd.PersistentFlags().Lookup("log-dir"))

	// Inspection commands
	inferCmd := &cobra.Command{
		Use:   "infer <file>...",
		Short: "Infer the schema of one or more JSON or YAML documents",
		Long: `Infer a structural schema for each document and merge them into one. Use "-"
to read from stdin. Merging several samples marks fields missing from some as optional.`,
		Args: cobra.MinimumNArgs(1),
		RunE: commands.RunInfer,
	}
	inferCmd.Flags().Bool("json", false, "Print the schema as JSON")
	rootCmd.AddCommand(inferCmd)

	fieldsCmd := &cobra.Command{
		Use:   "fields <file>",
		Short: "List filterable and chartable field paths",
		Args:  cobra.ExactArgs(1),
		RunE:  commands.RunFields,
	}
	fieldsCmd.Flags().String("path", "", "Dot path of the record array")
	fieldsCmd.Flags().Bool("json", false, "Print fields as JSON")
	rootCmd.AddCommand(fieldsCmd)

	diffCmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show structural differences between two documents",
		Args:  cobra.ExactArgs(2),
		RunE:  commands.RunDiff,
	}
	diffCmd.Flags().Bool("json", false, "Print the diff tree as JSON")
	rootCmd.AddCommand(diffCmd)

	filterCmd := &cobra.Command{
		Use:   "filter <file>",
		Short: "Filter a record list with typed rules",
		Long: `Keep the records that satisfy every rule. Rules are expressions such as
"name~ada", "name^A", "age>=18", "age=18..65", "active==true", "email?" or
"!deleted_at", or come from a JSON or YAML rule file.`,
		Args: cobra.ExactArgs(1),
		RunE: commands.RunFilter,
	}
	filterCmd.Flags().StringArrayP("rule", "r", []string{}, "Rule expression (repeatable)")
	filterCmd.Flags().String("rules", "", "JSON or YAML file with a list of rules")
	filterCmd.Flags().String("path", "", "Dot path of the record array")
	filterCmd.Flags().Bool("strict", false, "Fail when a rule does not fit the record fields")
	filterCmd.Flags().Bool("count", false, "Only print the number of matching records")
	rootCmd.AddCommand(filterCmd)

	chartCmd := &cobra.Command{
		Use:   "chart <file>",
		Short: "Project records onto chart points",
		Args:  cobra.ExactArgs(1),
		RunE:  commands.RunChart,
	}
	chartCmd.Flags().String("x", "", "Dot path of the x axis field (required)")
	chartCmd.Flags().String("y", "", "Dot path of the numeric y axis field (required)")
	chartCmd.Flags().String("type", "", "Chart type (bar, line)")
	chartCmd.Flags().String("path", "", "Dot path of the record array")
	chartCmd.Flags().Bool("json", false, "Print points as JSON")
	chartCmd.MarkFlagRequired("x")
	chartCmd.MarkFlagRequired("y")
	rootCmd.AddCommand(chartCmd)

	// Network commands
	fetchCmd := &cobra.Command{
		Use:   "fetch <url>...",
		Short: "Call endpoints and inspect their JSON responses",
		Long: `Execute one request per URL, print the inferred schema of each JSON response
and record it in the history store. With --diff-last each response is compared to the
previous recorded response for the same URL.`,
		Args: cobra.MinimumNArgs(1),
		RunE: commands.RunFetch,
	}
	fetchCmd.Flags().StringP("method", "X", "GET", "HTTP method")
	fetchCmd.Flags().StringArrayP("header", "H", []string{}, "Request header as 'Name: value' (repeatable)")
	fetchCmd.Flags().StringP("data", "d", "", "Request body")
	fetchCmd.Flags().Bool("diff-last", false, "Diff against the last recorded response for the URL")
	fetchCmd.Flags().Int("concurrency", 4, "Maximum requests in flight")
	fetchCmd.Flags().Bool("no-history", false, "Do not read or write the history store")
	fetchCmd.Flags().Duration("timeout", 0, "Request timeout")
	viper.BindPFlag("transport.timeout", fetchCmd.Flags().Lookup("timeout"))
	rootCmd.AddCommand(fetchCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded responses",
		Args:  cobra.NoArgs,
		RunE:  commands.RunHistoryList,
	}
	historyCmd.Flags().Bool("json", false, "Print entries as JSON")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded responses, newest first",
		Args:  cobra.NoArgs,
		RunE:  commands.RunHistoryList,
	}
	listCmd.Flags().Bool("json", false, "Print entries as JSON")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a recorded response body",
		Args:  cobra.ExactArgs(1),
		RunE:  commands.RunHistoryShow,
	}
	showCmd.Flags().Bool("json", false, "Print the whole entry instead of the body")

	historyCmd.AddCommand(listCmd, showCmd, &cobra.Command{
		Use:   "clear",
		Short: "Remove all recorded responses",
		Args:  cobra.NoArgs,
		RunE:  commands.RunHistoryClear,
	})
	rootCmd.AddCommand(historyCmd)

	// Output commands
	reportCmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Generate an HTML report",
		Long: `Render a single HTML page with the schema tree and field table of a document,
plus a change table when --against is given and a chart when --x and --y are given.`,
		Args: cobra.ExactArgs(1),
		RunE: commands.RunReport,
	}
	reportCmd.Flags().String("against", "", "Older document to diff against")
	reportCmd.Flags().String("x", "", "Chart x axis field")
	reportCmd.Flags().String("y", "", "Chart y axis field")
	reportCmd.Flags().String("type", "", "Chart type (bar, line)")
	reportCmd.Flags().String("path", "", "Dot path of the record array for the chart")
	reportCmd.Flags().String("out", "./jsonlens_report", "Output directory")
	reportCmd.Flags().String("title", "jsonlens report", "Report title")
	rootCmd.AddCommand(reportCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  commands.RunServe,
	}
	serveCmd.Flags().String("addr", "", "Listen address")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
