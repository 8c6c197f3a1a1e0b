/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: serve.go
Description: Serve command. Runs the HTTP API until interrupted.
*/

package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kleascm/jsonlens/pkg/history"
	"github.com/kleascm/jsonlens/pkg/inspect"
	"github.com/kleascm/jsonlens/pkg/server"
	"github.com/spf13/cobra"
)

// RunServe starts the API server on the configured address
func RunServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	insp, err := inspect.New(cfg.Cache.Size, logger)
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.History.Path, cfg.History.Limit)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "🚀 jsonlens API listening on %s\n", cfg.Server.Addr)
	return server.New(insp, store, logger).ListenAndServe(ctx, cfg.Server.Addr)
}
