package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jamieforrest/speakyer-proc/bootstrap"
	"github.com/jamieforrest/speakyer-proc/config"
	"github.com/jamieforrest/speakyer-proc/infrastructure/lambda_interface"
	"github.com/rs/zerolog/log"
)

func main() {
	if _, err := config.LoadFile(""); err != nil {
		log.Fatal().Err(err).Msg("Failed to load config file")
	}

	handler := os.Getenv("HANDLER")
	switch handler {
	case "filter":
		app, err := bootstrap.New(bootstrap.Options{Filter: true})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to wire sender filter")
		}
		defer app.Close()
		lambda.Start(lambda_interface.NewFilterHandler(app.Logger, app.Filter))
	case "", "process":
		app, err := bootstrap.New(bootstrap.Options{Pipeline: true})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to wire pipeline")
		}
		defer app.Close()
		lambda.Start(lambda_interface.NewProcessHandler(app.Pipeline, app.Metrics))
	default:
		log.Fatal().Str("handler", handler).Msg("HANDLER must be process or filter")
	}
}
