package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ocr-backend/internal/images"
)

func newHistoryCmd(open repoOpener) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recent uploads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			recs, err := repo.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE ID\tUPLOADED\tCONFIG\tTEXT")
			for _, rec := range recs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					rec.FileID,
					rec.UploadedAt.Format(time.RFC3339),
					rec.TesseractConfig,
					preview(rec.ExtractedText, 40),
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", images.HistoryLimit, "number of records (max 10)")
	return cmd
}

func newFetchCmd(e env, open repoOpener) *cobra.Command {
	var saveOriginal string
	cmd := &cobra.Command{
		Use:   "fetch <file-id>",
		Short: "Print one upload record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			rec, err := repo.GetByID(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch %s: %w", args[0], err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(map[string]any{
				"file_id":          rec.FileID,
				"extracted_text":   rec.ExtractedText,
				"tesseract_config": rec.TesseractConfig,
				"upload_timestamp": rec.UploadedAt,
			}); err != nil {
				return err
			}

			if saveOriginal == "" {
				return nil
			}
			store, err := e.openStore(cmd.Context(), e.loadConfig())
			if err != nil {
				return fmt.Errorf("open file store: %w", err)
			}
			svc := &images.Service{Store: store, Repo: repo}
			return copyOriginal(cmd, svc, rec.FileID, saveOriginal)
		},
	}
	cmd.Flags().StringVar(&saveOriginal, "save-original", "", "write the stored upload to this path")
	return cmd
}

func copyOriginal(cmd *cobra.Command, svc *images.Service, fileID, path string) error {
	rc, key, err := svc.OpenOriginal(cmd.Context(), fileID)
	if err != nil {
		return fmt.Errorf("open original %s: %w", fileID, err)
	}
	defer rc.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, rc)
	if err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s (%d bytes) -> %s\n", key, n, path)
	return nil
}

func preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
