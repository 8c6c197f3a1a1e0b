/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: records.go
Description: Record commands: filtering record lists with rule expressions or rule
files, and projecting them onto chart points.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/jsonlens/pkg/chart"
	"github.com/kleascm/jsonlens/pkg/filter"
	"github.com/kleascm/jsonlens/pkg/inspect"
	"github.com/kleascm/jsonlens/pkg/jsonvalue"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunFilter prints the records that satisfy every rule
func RunFilter(cmd *cobra.Command, args []string) error {
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
	exprs, _ := cmd.Flags().GetStringArray("rule")
	ruleFile, _ := cmd.Flags().GetString("rules")
	strict, _ := cmd.Flags().GetBool("strict")

	records, err := recordsOf(args[0], recordPath)
	if err != nil {
		return err
	}
	rules, err := loadRules(exprs, ruleFile)
	if err != nil {
		return err
	}

	fields, _ := inspect.RecordFieldPaths(records)
	if err := filter.Validate(rules, fields); err != nil {
		if strict {
			return fmt.Errorf("rules do not fit the records: %w", err)
		}
		logger.GetLogger().WithError(err).Warn("Rules do not fit the record schema")
	}

	matched := insp.Filter(records, rules)
	if countOnly, _ := cmd.Flags().GetBool("count"); countOnly {
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d records match\n", len(matched), len(records))
		return nil
	}
	return printJSON(cmd.OutOrStdout(), jsonvalue.ArrayValue(matched...))
}

// RunChart prints the chart points projected from a record list
func RunChart(cmd *cobra.Command, args []string) error {
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
	records, err := recordsOf(args[0], recordPath)
	if err != nil {
		return err
	}

	chartCfg, err := chartConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	fields, numeric := inspect.RecordFieldPaths(records)
	if err := chartCfg.Validate(fieldPaths(fields), numeric); err != nil {
		return fmt.Errorf("%w\nchartable fields: %s", err, joinOrNone(numeric))
	}

	points := insp.Chart(records, chartCfg)

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(out, points)
	}

	fmt.Fprintf(out, "📊 %s chart: %s by %s (%d of %d records)\n", chartCfg.Type, chartCfg.YField, chartCfg.XField, len(points), len(records))
	table := newTable(out, chartCfg.XField, chartCfg.YField)
	for _, p := range points {
		table.Append([]string{fmt.Sprint(xLabel(p.X)), jsonvalue.Stringify(jsonvalue.NumberValue(p.Y))})
	}
	table.Render()
	return nil
}

// chartConfigFromFlags reads --x, --y and --type, falling back to the configured chart type
func chartConfigFromFlags(cmd *cobra.Command) (chart.Config, error) {
	x, _ := cmd.Flags().GetString("x")
	y, _ := cmd.Flags().GetString("y")

	typeName, _ := cmd.Flags().GetString("type")
	if typeName == "" {
		typeName = viper.GetString("chart.type")
	}
	chartType, err := chart.ParseType(typeName)
	if err != nil {
		return chart.Config{}, err
	}
	return chart.Config{XField: x, YField: y, Type: chartType}, nil
}

func xLabel(x any) string {
	if n, ok := x.(float64); ok {
		return jsonvalue.Stringify(jsonvalue.NumberValue(n))
	}
	return fmt.Sprint(x)
}
