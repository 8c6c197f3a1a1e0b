/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: history.go
Description: History commands for listing, showing and clearing recorded responses.
*/

package commands

import (
	"fmt"
	"strconv"

	"github.com/kleascm/jsonlens/pkg/history"
	"github.com/kleascm/jsonlens/pkg/jsonvalue"
	"github.com/spf13/cobra"
)

func openHistory() (*history.Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return history.Open(cfg.History.Path, cfg.History.Limit)
}

// RunHistoryList prints recorded executions, newest first
func RunHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	entries := store.List()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "History is empty.")
		return nil
	}

	table := newTable(out, "ID", "When", "Method", "URL", "Status", "Time")
	for _, e := range entries {
		status := strconv.Itoa(e.Status)
		if e.Error != "" {
			status = red("error")
		}
		table.Append([]string{
			shortID(e.ID),
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Request.Method,
			e.Request.URL,
			status,
			fmt.Sprintf("%dms", e.DurationMS),
		})
	}
	table.Render()
	return nil
}

// RunHistoryShow prints one entry's body, looked up by ID or unique ID prefix
func RunHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	entry, err := store.Get(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if full, _ := cmd.Flags().GetBool("json"); full {
		return printJSON(out, entry)
	}
	if len(entry.Body) == 0 {
		fmt.Fprintf(out, "%s %s recorded no JSON body\n", entry.Request.Method, entry.Request.URL)
		return nil
	}

	v, err := jsonvalue.Parse(entry.Body)
	if err != nil {
		return fmt.Errorf("failed to parse recorded body: %w", err)
	}
	return printJSON(out, v)
}

// RunHistoryClear removes every entry
func RunHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	n := store.Len()
	store.Clear()
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "🧹 Removed %d entries\n", n)
	return nil
}
