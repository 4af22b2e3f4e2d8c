package main

import (
	"fmt"
	"os"

	"github.com/jamieforrest/speakyer-proc/bootstrap"
	"github.com/jamieforrest/speakyer-proc/domain"
	"github.com/spf13/cobra"
)

func newRebuildFeedCommand() *cobra.Command {
	var bucket string

	cmd := &cobra.Command{
		Use:   "rebuild-feed",
		Short: "Regenerate the podcast feed from the stored audio",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bucket == "" {
				bucket = os.Getenv("OUTPUT_S3_BUCKET")
			}
			if bucket == "" {
				return fmt.Errorf("--bucket or OUTPUT_S3_BUCKET must be set")
			}

			app, err := bootstrap.New(bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()

			items, err := app.Feed.Rebuild(cmd.Context(), bucket)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s/%s with %d items\n", bucket, domain.FeedKey, items)
			return err
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Output bucket (defaults to OUTPUT_S3_BUCKET)")

	return cmd
}
