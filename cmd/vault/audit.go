package main

import (
	"fmt"

	"github.com/nikbrunner/vault/internal/audit"
	"github.com/nikbrunner/vault/internal/logger"
	"github.com/spf13/cobra"
)

func newAuditCmd(configPath *string) *cobra.Command {
	var checkLinks bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report empty descriptions, duplicates, tag suggestions and invalid URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			bookmarks := e.store.GetAll(cmd.Context())
			out := cmd.OutOrStdout()
			if err := audit.Analyze(bookmarks).Markdown(out); err != nil {
				return err
			}
			if !checkLinks {
				return nil
			}

			errOut := cmd.ErrOrStderr()
			results := audit.CheckLinks(cmd.Context(), bookmarks, audit.LinkOptions{
				Concurrency:    e.cfg.Audit.Concurrency,
				Timeout:        e.cfg.Audit.Timeout.Duration,
				ExcludeDomains: e.cfg.Audit.ExcludeDomains,
				OnProgress: func(completed, total int) {
					fmt.Fprintf(errOut, "\rChecking links... %d/%d", completed, total)
				},
			})
			fmt.Fprintln(errOut)

			var broken []audit.LinkResult
			for _, r := range results {
				if r.Status != audit.Healthy {
					broken = append(broken, r)
				}
			}
			e.log.Info("link check finished",
				logger.Int("checked", len(results)),
				logger.Int("broken", len(broken)))

			fmt.Fprintf(out, "\n### Link Check (%d problems found)\n\n", len(broken))
			if len(broken) == 0 {
				fmt.Fprintln(out, "All links are reachable.")
				return nil
			}
			fmt.Fprintln(out, "| ID | URL | Status | Detail |")
			fmt.Fprintln(out, "|----|-----|--------|--------|")
			for _, r := range broken {
				fmt.Fprintf(out, "| %s | %s | %s | %s |\n", r.Bookmark.ID, r.Bookmark.URL, r.Status, r.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkLinks, "check-links", false, "also request every URL and report dead ones")
	return cmd
}
