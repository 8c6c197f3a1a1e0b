/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inspect.go
Description: Offline inspection commands: schema inference, field listing and
structural diffs of local JSON or YAML documents.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/kleascm/jsonlens/pkg/inspect"
	"github.com/kleascm/jsonlens/pkg/jsonvalue"
	"github.com/kleascm/jsonlens/pkg/schema"
	"github.com/spf13/cobra"
)

// snapshotOf builds a snapshot, going through the schema cache for JSON input
func snapshotOf(insp *inspect.Inspector, path string) (*inspect.Snapshot, error) {
	v, raw, err := readInput(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		return insp.InspectValue(v), nil
	}
	return insp.Inspect(raw)
}

// RunInfer prints the inferred schema of a document
func RunInfer(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	insp, err := inspect.New(cfg.Cache.Size, logger)
	if err != nil {
		return err
	}

	samples := make([]*inspect.Snapshot, 0, len(args))
	for _, path := range args {
		snap, err := snapshotOf(insp, path)
		if err != nil {
			return err
		}
		samples = append(samples, snap)
	}

	root := samples[0].Schema
	for _, s := range samples[1:] {
		root = schema.Merge(root, s.Schema)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(out, root)
	}

	if len(args) > 1 {
		fmt.Fprintf(out, "🧬 Schema merged from %d samples\n\n", len(args))
	}
	fmt.Fprint(out, schema.Render(root))
	return nil
}

// RunFields lists the filterable fields of a document or of its record list
func RunFields(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	insp, err := inspect.New(cfg.Cache.Size, logger)
	if err != nil {
		return err
	}

	recordPath, _ := cmd.Flags().GetString("path")

	var fields []schema.Field
	var numeric []string
	if recordPath != "" {
		v, _, err := readInput(args[0])
		if err != nil {
			return err
		}
		records, err := inspect.Records(v, recordPath)
		if err != nil {
			return err
		}
		fields, numeric = inspect.RecordFieldPaths(records)
	} else {
		snap, err := snapshotOf(insp, args[0])
		if err != nil {
			return err
		}
		fields, numeric = snap.Fields, snap.NumericFields
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(out, fields)
	}
	if len(fields) == 0 {
		fmt.Fprintln(out, "No filterable fields.")
		return nil
	}

	numericSet := make(map[string]bool, len(numeric))
	for _, p := range numeric {
		numericSet[p] = true
	}

	table := newTable(out, "Path", "Kind", "Optional", "Chartable")
	for _, f := range fields {
		table.Append([]string{f.Path, string(f.Kind), yesNo(f.Optional), yesNo(numericSet[f.Path])})
	}
	table.Render()
	return nil
}

// RunDiff compares two documents
func RunDiff(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	insp, err := inspect.New(cfg.Cache.Size, logger)
	if err != nil {
		return err
	}

	oldValue, _, err := readInput(args[0])
	if err != nil {
		return err
	}
	newValue, _, err := readInput(args[1])
	if err != nil {
		return err
	}

	root := insp.CompareValues(oldValue, newValue)

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(out, root)
	}
	renderChanges(out, root)
	return nil
}

// recordsOf reads a document and picks its record list
func recordsOf(path, recordPath string) ([]jsonvalue.Value, error) {
	v, _, err := readInput(path)
	if err != nil {
		return nil, err
	}
	records, err := inspect.Records(v, recordPath)
	if err != nil {
		return nil, fmt.Errorf("failed to select records in %s: %w", path, err)
	}
	return records, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func fieldPaths(fields []schema.Field) []string {
	paths := make([]string, len(fields))
	for i, f := range fields {
		paths[i] = f.Path
	}
	return paths
}

func joinOrNone(list []string) string {
	if len(list) == 0 {
		return "(none)"
	}
	return strings.Join(list, ", ")
}
