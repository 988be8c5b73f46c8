package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seenimoa/cryptodash/api"
	"github.com/seenimoa/cryptodash/internal/datasource"
)

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if host, _ := cmd.Flags().GetString("host"); host != "" {
			cfg.API.Host = host
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.API.Port = port
		}

		store, err := newStore(cmd.Context())
		if err != nil {
			return fmt.Errorf("snapshot store: %w", err)
		}
		defer store.Close()

		srv, err := api.NewServer(api.Options{
			Config:     cfg,
			Aggregator: datasource.NewAggregator(newMarketSource(cmd), newNewsSource(), log),
			Store:      store,
			Logger:     log,
			Version:    version,
		})
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		return srv.ListenAndServe(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (default: api.host)")
	serveCmd.Flags().Int("port", 0, "listen port (default: api.port)")
}
