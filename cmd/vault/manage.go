package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/vault/internal/exporter"
	"github.com/nikbrunner/vault/internal/logger"
	"github.com/nikbrunner/vault/internal/model"
	"github.com/nikbrunner/vault/internal/picker"
	"github.com/nikbrunner/vault/internal/search"
	"github.com/nikbrunner/vault/internal/tui"
	"github.com/nikbrunner/vault/internal/validation"
	"github.com/spf13/cobra"
)

// newFindCmd fuzzy-matches titles and opens the chosen bookmark.
func newFindCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Quick search, select and open",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			query := strings.Join(args, " ")
			results := search.Fuzzy(e.store.GetAll(cmd.Context()), query)
			if len(results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No bookmarks found for '%s'\n", query)
				return nil
			}

			var selected model.Bookmark
			if len(results) == 1 {
				selected = results[0].Bookmark
				fmt.Fprintf(cmd.OutOrStdout(), "Opening: %s\n", selected.Title)
			} else {
				final, err := tea.NewProgram(picker.New(results, query), tea.WithContext(cmd.Context())).Run()
				if err != nil {
					return fmt.Errorf("run picker: %w", err)
				}
				b, ok := final.(picker.Picker).SelectedBookmark()
				if !ok {
					return nil
				}
				selected = b
			}

			e.log.Info("opening bookmark", logger.String("id", selected.ID))
			return tui.OpenURL(selected.URL)
		},
	}
}

func newAddCmd(configPath *string) *cobra.Command {
	var in model.CreateInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bookmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Title = strings.TrimSpace(in.Title)
			in.URL = strings.TrimSpace(in.URL)
			in.Description = strings.TrimSpace(in.Description)
			in.Tags = tui.ParseTags(strings.Join(in.Tags, ","))
			if issues := validation.ValidateCreateInput(in); !issues.OK() {
				return issues
			}

			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			b := e.store.NewRecord(in)
			if err := e.store.Insert(cmd.Context(), b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", b.Title, b.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "bookmark title")
	cmd.Flags().StringVar(&in.URL, "url", "", "bookmark URL")
	cmd.Flags().StringVar(&in.Description, "description", "", "optional description")
	cmd.Flags().StringSliceVar(&in.Tags, "tag", nil, "tag (repeatable, or comma-separated)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newListCmd(configPath *string) *cobra.Command {
	var (
		limit  int
		query  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print bookmarks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			bookmarks := e.store.GetAll(cmd.Context())
			if query != "" {
				bookmarks = search.Filter(bookmarks, query)
			}
			if limit > 0 && len(bookmarks) > limit {
				bookmarks = bookmarks[:limit]
			}

			if asJSON {
				return exporter.ExportJSON(cmd.OutOrStdout(), bookmarks)
			}
			if len(bookmarks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tURL\tTAGS")
			for _, b := range bookmarks {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.Title, b.URL, strings.Join(b.Tags, ","))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of bookmarks (0 for all)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "only bookmarks matching this search term")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as a JSON array")
	return cmd
}

func newRmCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a bookmark by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			id := args[0]
			b := model.FindByID(e.store.GetAll(cmd.Context()), id)
			if b == nil {
				return fmt.Errorf("bookmark with ID %q not found", id)
			}
			if err := e.store.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", b.Title)
			return nil
		},
	}
}
