package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pivolan/genbi/ingest"
)

func newUploadCmd() *cobra.Command {
	var (
		server      string
		userID      string
		name        string
		description string
		rangeSize   int64
		batchSize   int
	)
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a CSV file (or gzip, lz4, zip archive) as a dataset",
		Long: `Upload reads the file in ranges and sends its rows in chunks.
With --server the chunks go to a running API, otherwise straight to the configured store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr())

			var backend ingest.Backend
			if server != "" {
				backend = ingest.NewHTTPBackend(server, &http.Client{Timeout: time.Minute})
			} else {
				svc, err := openServices(cfg, logger)
				if err != nil {
					return err
				}
				defer svc.Close()
				backend = svc.datasets
			}

			dir, err := os.MkdirTemp("", "genbi-upload-*")
			if err != nil {
				return err
			}
			defer os.RemoveAll(dir)
			path, err := ingest.UnpackArchive(args[0], filepath.Join(dir, "unpacked"))
			if err != nil {
				return fmt.Errorf("unpack %s: %w", args[0], err)
			}
			fh, f, err := ingest.OpenFile(path)
			if err != nil {
				return err
			}
			defer fh.Close()
			f.UserID = userID
			f.Description = description
			if name != "" {
				f.Name = name
			}

			opts := []ingest.Option{ingest.WithLogger(logger)}
			if rangeSize > 0 {
				opts = append(opts, ingest.WithRangeSize(rangeSize))
			}
			if batchSize > 0 {
				opts = append(opts, ingest.WithBatchSize(batchSize))
			}
			ds, err := ingest.NewUploader(backend, opts...).Upload(cmd.Context(), f, func(p float64) {
				logger.Debug("upload progress", "percent", fmt.Sprintf("%.0f", p))
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ds)
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "API base URL, e.g. http://localhost:8005")
	cmd.Flags().StringVar(&userID, "user", "cli", "User ID owning the dataset")
	cmd.Flags().StringVar(&name, "name", "", "Dataset name (default file name)")
	cmd.Flags().StringVar(&description, "description", "", "Dataset description")
	cmd.Flags().Int64Var(&rangeSize, "range-size", 0, "Bytes read per range (default 5 MiB)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Rows per chunk (default 1000)")
	return cmd
}
