package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jamieforrest/speakyer-proc/application/services"
	"github.com/jamieforrest/speakyer-proc/bootstrap"
	"github.com/spf13/cobra"
)

func newProcessCommand() *cobra.Command {
	var bucket string
	var key string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run the pipeline once for one stored input",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.New(bootstrap.Options{Pipeline: true})
			if err != nil {
				return err
			}
			defer app.Close()

			response := services.HandleProcessing(cmd.Context(), app.Pipeline, app.Metrics, bucket, key)

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(response); err != nil {
				return err
			}
			if response.StatusCode != http.StatusOK {
				return fmt.Errorf("processing failed with status %d", response.StatusCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Bucket holding the raw input")
	cmd.Flags().StringVar(&key, "key", "", "Key of the raw input")
	_ = cmd.MarkFlagRequired("bucket")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
