package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/vault/internal/crypt"
	"github.com/nikbrunner/vault/internal/exporter"
	"github.com/nikbrunner/vault/internal/importer"
	"github.com/nikbrunner/vault/internal/logger"
	"github.com/nikbrunner/vault/internal/model"
	"github.com/spf13/cobra"
)

func stdinFd() int { return int(os.Stdin.Fd()) }

func newImportCmd(configPath *string) *cobra.Command {
	var (
		modeFlag string
		dryRun   bool
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import bookmarks from JSON, Netscape HTML or homepage YAML",
		Long: `Import reads a file, validates every record and shows a preview before
writing. Records that fail validation or whose URL already exists are skipped.
Files encrypted by "vault export --encrypt" prompt for the passphrase.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := importer.ParseMode(modeFlag)
			if err != nil {
				return err
			}

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			if crypt.IsEncrypted(data) {
				pass, err := crypt.ReadPassphrase(stdinFd(), cmd.ErrOrStderr(), false)
				if err != nil {
					return err
				}
				if data, err = (crypt.Passphrase{}).DecryptBytes(data, pass); err != nil {
					return err
				}
				path = strings.TrimSuffix(path, ".age")
			}

			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			candidates, err := importer.Read(path, data, e.store)
			if err != nil {
				return errors.New(importer.UserMessage(err))
			}

			existing := e.store.GetAll(cmd.Context())
			urls := make([]string, len(existing))
			for i, b := range existing {
				urls[i] = b.URL
			}
			preview := importer.Classify(candidates, urls)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Preview: %s\n", preview.Summary())
			for _, inv := range preview.Invalid {
				fmt.Fprintf(out, "  invalid: %s\n", strings.Join(inv.Errors, "; "))
			}
			if err := preview.Check(); err != nil {
				return errors.New(importer.UserMessage(err))
			}
			if dryRun {
				return nil
			}
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), out,
					fmt.Sprintf("Import %d bookmarks (%s)?", len(preview.Importable()), mode))
				if err != nil || !ok {
					return err
				}
			}

			n, err := importer.Apply(cmd.Context(), e.store, preview, mode)
			if err != nil {
				return errors.New(importer.UserMessage(err))
			}
			e.log.Info("import applied",
				logger.String("file", args[0]),
				logger.String("mode", string(mode)),
				logger.Int("count", n))
			fmt.Fprintf(out, "Imported %d bookmarks\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", string(importer.ModeMerge), "merge appends, replace overwrites the collection")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the preview without writing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func newExportCmd(configPath *string) *cobra.Command {
	var (
		format  string
		encrypt bool
	)

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export bookmarks as JSON or Netscape HTML",
		Long: `Export writes the collection to path, or to
~/Downloads/bookmarks-YYYY-MM-DD.<format> when no path is given.
With --encrypt the file is protected with an age passphrase.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "html" {
				return fmt.Errorf("unknown export format %q (want json or html)", format)
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				var err error
				if path, err = exporter.DefaultExportPath(time.Now(), format); err != nil {
					return fmt.Errorf("failed to get default export path: %w", err)
				}
				if encrypt {
					path += ".age"
				}
			}

			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			bookmarks := e.store.GetAll(cmd.Context())
			data, err := render(bookmarks, format)
			if err != nil {
				return err
			}

			if encrypt {
				pass, err := crypt.ReadPassphrase(stdinFd(), cmd.ErrOrStderr(), true)
				if err != nil {
					return err
				}
				var sealed bytes.Buffer
				if err := (crypt.Passphrase{}).Encrypt(&sealed, bytes.NewReader(data), pass); err != nil {
					return err
				}
				data = sealed.Bytes()
			}

			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("failed to create export directory: %w", err)
			}
			if err := os.WriteFile(path, data, 0600); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			e.log.Info("exported bookmarks",
				logger.String("path", path),
				logger.String("format", format),
				logger.Bool("encrypted", encrypt),
				logger.Int("count", len(bookmarks)))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookmarks to %s\n", len(bookmarks), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or html")
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "encrypt the file with an age passphrase")
	return cmd
}

func render(bookmarks []model.Bookmark, format string) ([]byte, error) {
	if format == "html" {
		return []byte(exporter.ExportHTML(bookmarks)), nil
	}
	var buf bytes.Buffer
	if err := exporter.ExportJSON(&buf, bookmarks); err != nil {
		return nil, fmt.Errorf("failed to encode bookmarks: %w", err)
	}
	return buf.Bytes(), nil
}
