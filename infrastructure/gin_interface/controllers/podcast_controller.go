package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jamieforrest/speakyer-proc/application/ports/inbound"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/application/services"
	"github.com/jamieforrest/speakyer-proc/domain"
	"github.com/jamieforrest/speakyer-proc/infrastructure/adapters"
	"github.com/jamieforrest/speakyer-proc/infrastructure/gin_interface/dto"
)

type PodcastController interface {
	Process(c *gin.Context)
	Inbound(c *gin.Context)
	RebuildFeed(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type podcastController struct {
	logger         outbound.LoggerPort
	pipeline       inbound.PodcastPipelinePort
	feed           inbound.FeedRebuilderPort
	filter         inbound.SenderFilterPort
	metrics        outbound.MetricsPort
	metricsHandler http.Handler
	outputLocation string
}

// NewPodcastController serves /inbound only when filter is not nil and /metrics only when
// metricsHandler is not nil.
func NewPodcastController(
	logger outbound.LoggerPort,
	pipeline inbound.PodcastPipelinePort,
	feed inbound.FeedRebuilderPort,
	filter inbound.SenderFilterPort,
	metrics outbound.MetricsPort,
	metricsHandler http.Handler,
	outputLocation string,
) PodcastController {
	return &podcastController{
		logger:         logger,
		pipeline:       pipeline,
		feed:           feed,
		filter:         filter,
		metrics:        metrics,
		metricsHandler: metricsHandler,
		outputLocation: outputLocation,
	}
}

func (p *podcastController) Process(c *gin.Context) {
	var processRequest dto.ProcessRequest
	if err := c.ShouldBindJSON(&processRequest); err != nil {
		c.JSON(http.StatusBadRequest, domain.Response{StatusCode: http.StatusBadRequest, Body: err.Error()})
		return
	}

	response := services.HandleProcessing(c.Request.Context(), p.pipeline, p.metrics, processRequest.Bucket, processRequest.Key)
	c.JSON(response.StatusCode, response)
}

func (p *podcastController) Inbound(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		p.logger.Error(err, "failed to read inbound event")
		c.JSON(http.StatusBadRequest, domain.Response{StatusCode: http.StatusBadRequest, Body: err.Error()})
		return
	}

	email, err := adapters.ParseSESNotification(payload)
	if err != nil {
		response := domain.ErrorResponse("Error processing email: " + err.Error())
		c.JSON(response.StatusCode, response)
		return
	}

	response := p.filter.Accept(c.Request.Context(), email)
	c.JSON(response.StatusCode, response)
}

func (p *podcastController) RebuildFeed(c *gin.Context) {
	var rebuildRequest dto.RebuildFeedRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&rebuildRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if rebuildRequest.Bucket == "" {
		rebuildRequest.Bucket = p.outputLocation
	}

	items, err := p.feed.Rebuild(c.Request.Context(), rebuildRequest.Bucket)
	if err != nil {
		p.logger.Error(err, "failed to rebuild feed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rebuild feed"})
		return
	}

	c.JSON(http.StatusOK, dto.RebuildFeedResponse{
		Bucket: rebuildRequest.Bucket,
		Key:    domain.FeedKey,
		Items:  items,
	})
}

func (p *podcastController) RegisterRoutes(g *gin.Engine) {
	g.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	g.POST("/process", p.Process)
	g.POST("/feed/rebuild", p.RebuildFeed)
	if p.filter != nil {
		g.POST("/inbound", p.Inbound)
	}
	if p.metricsHandler != nil {
		g.GET("/metrics", gin.WrapH(p.metricsHandler))
	}
}
