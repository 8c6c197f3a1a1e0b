/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fetch.go
Description: Fetch command. Executes requests against live endpoints, prints the
inferred schema of each JSON response, records responses in the history store and
optionally diffs each response against the previous one for the same URL.
*/

package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kleascm/jsonlens/pkg/history"
	"github.com/kleascm/jsonlens/pkg/inspect"
	"github.com/kleascm/jsonlens/pkg/schema"
	"github.com/kleascm/jsonlens/pkg/transport"
	"github.com/spf13/cobra"
)

// RunFetch executes one request per URL argument
func RunFetch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	method, _ := cmd.Flags().GetString("method")
	headerLines, _ := cmd.Flags().GetStringArray("header")
	data, _ := cmd.Flags().GetString("data")
	diffLast, _ := cmd.Flags().GetBool("diff-last")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	headers, err := transport.ParseHeaders(headerLines)
	if err != nil {
		return err
	}

	reqs := make([]transport.Request, len(args))
	for i, url := range args {
		reqs[i] = transport.Request{Method: strings.ToUpper(method), URL: url, Headers: headers}
		if data != "" {
			reqs[i].Body = []byte(data)
		}
	}

	insp, err := inspect.New(cfg.Cache.Size, logger)
	if err != nil {
		return err
	}

	var store *history.Store
	if !noHistory {
		store, err = history.Open(cfg.History.Path, cfg.History.Limit)
		if err != nil {
			return err
		}
	}

	executor := transport.NewExecutor(cfg.Transport, logger)
	results := executor.ExecuteBatch(commandContext(cmd), reqs, concurrency)

	out := cmd.OutOrStdout()
	failed := 0
	for _, res := range results {
		var previous *history.Entry
		if store != nil && diffLast {
			if prev, err := store.Latest(res.Request.URL); err == nil {
				previous = &prev
			} else if !errors.Is(err, history.ErrNotFound) {
				return err
			}
		}

		if !printResult(out, insp, res, previous) {
			failed++
		}
		if store != nil {
			store.Add(history.FromResult(res))
		}
	}

	if store != nil {
		if err := store.Save(); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(results))
	}
	return nil
}

// printResult writes one result block and reports whether the request succeeded
func printResult(w io.Writer, insp *inspect.Inspector, res *transport.Result, previous *history.Entry) bool {
	fmt.Fprintf(w, "🌐 %s %s\n", res.Request.Method, res.Request.URL)
	if res.Err != nil {
		fmt.Fprintf(w, "   %s %v\n\n", red("failed:"), res.Err)
		return false
	}

	status := fmt.Sprintf("%d", res.Status)
	if res.OK() {
		status = green(status)
	} else {
		status = red(status)
	}
	fmt.Fprintf(w, "   Status: %s  Time: %v  Size: %d bytes", status, res.Duration, len(res.Body))
	if res.Truncated {
		fmt.Fprint(w, yellow(" (truncated)"))
	}
	fmt.Fprintln(w)

	if res.JSON == nil {
		fmt.Fprintf(w, "   %s\n\n", faint("response is not JSON"))
		return res.OK()
	}

	snap := insp.InspectValue(*res.JSON)
	fmt.Fprintf(w, "   Fields: %d  Chartable: %s\n\n", len(snap.Fields), joinOrNone(snap.NumericFields))
	fmt.Fprintln(w, schema.Render(snap.Schema))

	if previous != nil {
		root, err := insp.Compare(previous.Body, res.Body)
		if err != nil {
			fmt.Fprintf(w, "   %s %v\n\n", yellow("cannot diff:"), err)
		} else {
			fmt.Fprintf(w, "🔍 Against %s (%s)\n", shortID(previous.ID), previous.CreatedAt.Format("2006-01-02 15:04:05"))
			renderChanges(w, root)
			fmt.Fprintln(w)
		}
	}
	return res.OK()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
