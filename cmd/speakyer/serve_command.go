package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jamieforrest/speakyer-proc/bootstrap"
	"github.com/jamieforrest/speakyer-proc/infrastructure/gin_interface/controllers"
	"github.com/jamieforrest/speakyer-proc/middleware"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the processing, inbound and feed endpoints over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.New(bootstrap.Options{Pipeline: true, Filter: true, OptionalFilter: true})
			if err != nil {
				return err
			}
			defer app.Close()

			router := gin.New()
			router.Use(gin.Recovery(), middleware.RequestLogger(app.Logger))
			if err := router.SetTrustedProxies(nil); err != nil {
				return err
			}

			controllers.NewPodcastController(app.Logger, app.Pipeline, app.Feed, app.Filter,
				app.Metrics, app.Metrics.Handler(), app.PipelineConfig.OutputBucket).RegisterRoutes(router)

			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				app.Logger.InfoWithFields("Listening", map[string]interface{}{"addr": addr})
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				app.Logger.Info("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}
