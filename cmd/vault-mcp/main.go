package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikbrunner/vault/internal/logger"
	"github.com/nikbrunner/vault/internal/mcpserver"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vault-mcp: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	var (
		dataFile string
		addr     string
		logLevel string
		stdio    bool
		httpMode bool
	)

	cmd := &cobra.Command{
		Use:           "vault-mcp",
		Short:         "Serve the bookmark collection to MCP clients",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout belongs to the stdio transport
			log, err := logger.New(logLevel, false, "stderr")
			if err != nil {
				return err
			}
			defer log.Sync()

			repo := mcpserver.NewFileRepository(dataFile, log)
			s, err := mcpserver.New(mcpserver.NewBookmarkHandler(repo, mcpserver.WithLogger(log)))
			if err != nil {
				return err
			}

			useStdio := mcpserver.ShouldUseStdio()
			switch {
			case stdio:
				useStdio = true
			case httpMode:
				useStdio = false
			}

			if useStdio {
				log.Info("serving MCP over stdio", logger.String("data_file", dataFile))
				return mcpserver.ServeStdio(s)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return mcpserver.ServeHTTP(ctx, s, mcpserver.HTTPOptions{
				Addr:            addr,
				ReadTimeout:     5 * time.Second,
				IdleTimeout:     120 * time.Second,
				ShutdownTimeout: 10 * time.Second,
			}, log.With(logger.String("data_file", dataFile)))
		},
	}

	cmd.Flags().StringVar(&dataFile, "data-file", getEnv("VAULT_MCP_DATA_FILE", "./bookmarks.json"), "JSON file holding the bookmark collection")
	cmd.Flags().StringVar(&addr, "addr", getEnv("VAULT_MCP_ADDR", "127.0.0.1:11546"), "listen address for the HTTP transport")
	cmd.Flags().StringVar(&logLevel, "log-level", getEnv("VAULT_LOG_LEVEL", "info"), "log level: debug|info|warn|error")
	cmd.Flags().BoolVar(&stdio, "stdio", false, "force the stdio transport")
	cmd.Flags().BoolVar(&httpMode, "http", false, "force the streamable HTTP transport")
	cmd.MarkFlagsMutuallyExclusive("stdio", "http")

	return cmd
}
