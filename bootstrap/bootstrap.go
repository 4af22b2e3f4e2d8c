package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/jamieforrest/speakyer-proc/application/ports/inbound"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/application/services"
	"github.com/jamieforrest/speakyer-proc/config"
	"github.com/jamieforrest/speakyer-proc/infrastructure/adapters"
	"github.com/jamieforrest/speakyer-proc/mock"
	"github.com/nats-io/nats.go"
	"github.com/panjf2000/ants/v2"
)

type Options struct {
	Pipeline bool
	Filter   bool
	// OptionalFilter leaves Filter nil instead of failing when it is not configured.
	OptionalFilter bool
}

// App holds the wired components one binary needs. Close releases pools and connections.
type App struct {
	Logger         outbound.LoggerPort
	Metrics        *adapters.PrometheusMetrics
	Store          outbound.BlobStorePort
	Pipeline       inbound.PodcastPipelinePort
	Feed           inbound.FeedRebuilderPort
	Filter         inbound.SenderFilterPort
	PipelineConfig *config.PipelineConfig

	closers []func()
}

func New(opts Options) (*App, error) {
	logger := adapters.NewZerologWrapper(config.GetLogLevel())
	app := &App{
		Logger:  logger,
		Metrics: adapters.NewPrometheusMetrics(),
	}

	storeConfig, err := config.GetStoreConfig()
	if err != nil {
		return nil, err
	}

	sess, err := newAwsSession(storeConfig)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	app.Store, err = app.newBlobStore(storeConfig, sess)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Feed = services.NewFeedRebuilder(logger, app.Store, config.GetFeedConfig())

	if opts.Pipeline {
		if err := app.wirePipeline(sess); err != nil {
			app.Close()
			return nil, err
		}
	}

	if opts.Filter {
		filterConfig, err := config.GetFilterConfig()
		switch {
		case err == nil:
			app.Filter = services.NewSenderFilter(logger, app.Store, filterConfig.InboundBucket, filterConfig.AllowList)
		case opts.OptionalFilter:
			logger.WarnWithFields("Sender filter disabled", map[string]interface{}{"reason": err.Error()})
		default:
			app.Close()
			return nil, err
		}
	}

	return app, nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func newAwsSession(storeConfig *config.StoreConfig) (*session.Session, error) {
	awsConfig := aws.Config{}
	if storeConfig.Region != "" {
		awsConfig.Region = aws.String(storeConfig.Region)
	}
	if storeConfig.Endpoint != "" {
		awsConfig.Endpoint = aws.String(storeConfig.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	return session.NewSessionWithOptions(session.Options{
		Config:            awsConfig,
		SharedConfigState: session.SharedConfigEnable,
	})
}

func (a *App) newBlobStore(storeConfig *config.StoreConfig, sess *session.Session) (outbound.BlobStorePort, error) {
	switch storeConfig.Backend {
	case config.StoreBackendNats:
		natsConnection, err := nats.Connect(storeConfig.NatsUrl)
		if err != nil {
			return nil, fmt.Errorf("connect to nats: %w", err)
		}
		a.closers = append(a.closers, natsConnection.Close)
		jetstreamContext, err := natsConnection.JetStream()
		if err != nil {
			return nil, fmt.Errorf("open jetstream: %w", err)
		}
		return adapters.NewNatsBlobStore(a.Logger, jetstreamContext, storeConfig), nil
	case config.StoreBackendMemory:
		return mock.NewMemoryBlobStore(), nil
	default:
		return adapters.NewS3BlobStore(a.Logger, s3.New(sess), storeConfig), nil
	}
}

func (a *App) wirePipeline(sess *session.Session) error {
	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		return err
	}
	a.PipelineConfig = pipelineConfig

	panicHandler := func(p interface{}) {
		a.Logger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}
	workerPool, err := ants.NewPool(pipelineConfig.WorkerPoolSize, ants.WithPanicHandler(panicHandler))
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	a.closers = append(a.closers, workerPool.Release)

	var (
		extractor   outbound.TextExtractorPort
		synthesizer outbound.SpeechSynthesizerPort
		reassembler outbound.AudioReassemblerPort
	)
	if pipelineConfig.MockMode {
		a.Logger.Warn("Mock mode: using echo extractor and canned speech")
		cannedSpeech, err := mock.NewCannedSpeechSynthesizerFromFile(a.Logger, pipelineConfig.MockAudioFile)
		if err != nil {
			return err
		}
		extractor = mock.NewEchoTextExtractor(a.Logger)
		synthesizer = cannedSpeech
		reassembler = mock.NewByteConcatReassembler(a.Logger)
	} else {
		openAIConfig, err := config.GetOpenAIConfig()
		if err != nil {
			return err
		}
		contentFetcher := adapters.NewContentFetcher(a.Logger, &http.Client{Timeout: openAIConfig.Timeout})
		extractor = adapters.NewOpenAITextExtractor(openAIConfig, a.Logger)
		synthesizer = adapters.NewOpenAISpeechSynthesizer(contentFetcher, openAIConfig, a.Logger)
		reassembler = adapters.NewFFmpegAudioReassembler(a.Logger)
	}

	ledger := adapters.NewNoopProcessingLedger()
	if config.LedgerEnabled() {
		dynamoConfig, err := config.GetDynamoConfig()
		if err != nil {
			return err
		}
		ledger = adapters.NewDynamoProcessingLedger(a.Logger, dynamodb.New(sess), dynamoConfig)
	}

	a.Pipeline = services.NewPodcastPipelineOrchestrator(a.Logger, a.Store, extractor,
		services.NewTextChunker(pipelineConfig.MaxChunkLength),
		services.NewSpeechFanOut(a.Logger, synthesizer, a.Metrics, workerPool),
		reassembler, a.Feed, ledger, a.Metrics,
		services.PodcastPipelineParams{
			OutputLocation: pipelineConfig.OutputBucket,
			Voice:          pipelineConfig.Voice,
		})

	return nil
}
