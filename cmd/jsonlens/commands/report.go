/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Report command. Renders an HTML page with the schema, fields, an optional
diff against a second document and an optional chart.
*/

package commands

import (
	"fmt"
	"time"

	"github.com/kleascm/jsonlens/pkg/inspect"
	"github.com/kleascm/jsonlens/pkg/reporting"
	"github.com/spf13/cobra"
)

// RunReport writes report/index.html for a document
func RunReport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	insp, err := inspect.New(cfg.Cache.Size, logger)
	if err != nil {
		return err
	}

	against, _ := cmd.Flags().GetString("against")
	recordPath, _ := cmd.Flags().GetString("path")
	outDir, _ := cmd.Flags().GetString("out")
	title, _ := cmd.Flags().GetString("title")

	v, _, err := readInput(args[0])
	if err != nil {
		return err
	}
	snap := insp.InspectValue(v)

	data := &reporting.ReportData{
		Title:       title,
		Source:      args[0],
		GeneratedAt: time.Now(),
		Schema:      snap.Schema,
		Fields:      snap.Fields,
	}

	if against != "" {
		oldValue, _, err := readInput(against)
		if err != nil {
			return err
		}
		data.Diff = insp.CompareValues(oldValue, v)
	}

	chartCfg, err := chartConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	if chartCfg.XField != "" || chartCfg.YField != "" {
		records, err := inspect.Records(v, recordPath)
		if err != nil {
			return fmt.Errorf("failed to select chart records: %w", err)
		}
		fields, numeric := inspect.RecordFieldPaths(records)
		if err := chartCfg.Validate(fieldPaths(fields), numeric); err != nil {
			return err
		}
		data.Chart = chartCfg
		data.Points = insp.Chart(records, chartCfg)
	}

	path, err := reporting.NewGenerator(logger).WriteFile(outDir, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "📄 Report written to %s\n", path)
	return nil
}
