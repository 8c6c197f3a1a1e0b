/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared helpers for the jsonlens commands. Configuration loading, logging
setup, input decoding and table rendering used across all command implementations.
*/

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/kleascm/jsonlens/pkg/config"
	"github.com/kleascm/jsonlens/pkg/diff"
	"github.com/kleascm/jsonlens/pkg/filter"
	"github.com/kleascm/jsonlens/pkg/jsonvalue"
	"github.com/kleascm/jsonlens/pkg/logging"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from defaults, files and environment
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SetupLogging configures the global logrus logger and returns the application logger
func SetupLogging(cfg *config.Config) (*logging.Logger, error) {
	level, err := logrus.ParseLevel(string(cfg.Logging.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	formatter, err := logging.NewFormatter(&cfg.Logging)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(formatter)

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// setup runs LoadConfig and SetupLogging together
func setup() (*config.Config, *logging.Logger, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := SetupLogging(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// commandContext returns the command's context, or a background context when run
// outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// readRaw reads a file, or stdin when path is "-"
func readRaw(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// readInput decodes a JSON or YAML document
func readInput(path string) (jsonvalue.Value, []byte, error) {
	data, err := readRaw(path)
	if err != nil {
		return jsonvalue.Value{}, nil, err
	}

	var v jsonvalue.Value
	if isYAML(path) {
		v, err = jsonvalue.ParseYAML(data)
	} else {
		v, err = jsonvalue.Parse(data)
	}
	if err != nil {
		return jsonvalue.Value{}, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return v, data, nil
}

// loadRules combines rule expressions with an optional JSON or YAML rule file
func loadRules(exprs []string, ruleFile string) ([]filter.Rule, error) {
	rules, err := filter.ParseExprs(exprs)
	if err != nil {
		return nil, err
	}
	if ruleFile == "" {
		return rules, nil
	}

	data, err := readRaw(ruleFile)
	if err != nil {
		return nil, err
	}
	var fromFile []filter.Rule
	if isYAML(ruleFile) {
		fromFile, err = filter.ParseRulesYAML(data)
	} else {
		fromFile, err = filter.ParseRules(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rules from %s: %w", ruleFile, err)
	}
	return append(rules, fromFile...), nil
}

// newTable creates a borderless table writing to w
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	return table
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// paintStatus colors a diff status
func paintStatus(s diff.Status) string {
	switch s {
	case diff.StatusAdded:
		return green(string(s))
	case diff.StatusRemoved:
		return red(string(s))
	case diff.StatusChanged:
		return yellow(string(s))
	}
	return faint(string(s))
}

// renderChanges writes a change table, or a single line when nothing changed
func renderChanges(w io.Writer, root *diff.Node) {
	changes := diff.Changes(root)
	stats := diff.Count(root)

	fmt.Fprintf(w, "Diff: %s (+%d -%d ~%d =%d)\n", paintStatus(root.Status), stats.Added, stats.Removed, stats.Changed, stats.Unchanged)
	if len(changes) == 0 {
		fmt.Fprintln(w, "No changes.")
		return
	}

	table := newTable(w, "Path", "Status", "Old", "New")
	for _, c := range changes {
		table.Append([]string{c.Path, paintStatus(c.Status), shorten(c.OldValue), shorten(c.NewValue)})
	}
	table.Render()
}

func shorten(v *jsonvalue.Value) string {
	if v == nil {
		return ""
	}
	r := []rune(jsonvalue.Stringify(*v))
	if len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return string(r)
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}
