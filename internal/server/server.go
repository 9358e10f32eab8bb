package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spigell/recruiter-assistant/internal/ai"
)

const (
	ChatPath    = "/functions/v1/chat"
	AnalyzePath = "/functions/v1/analyze-jd"
)

// Assistant runs the two recruiter-facing operations.
type Assistant interface {
	Chat(ctx context.Context, sessionID, message string) (string, error)
	Assess(ctx context.Context, jobDescription string) (*ai.FitAssessment, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps wires the HTTP layer. ConfigErr, when set, makes both operations fail
// with 500 after request validation and before any outbound call.
type Deps struct {
	Assistant    Assistant
	Store        Pinger
	ConfigErr    error
	AllowOrigins []string
	Logger       *zap.Logger
}

// New builds the gin engine serving both operations and the probes.
func New(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(deps.Logger), requestMetrics())
	router.Use(cors.New(corsConfig(deps.AllowOrigins)))

	h := &handler{deps: deps, logger: deps.Logger}

	router.GET("/healthz", h.health)
	router.GET("/readyz", h.ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST(ChatPath, h.chat)
	router.OPTIONS(ChatPath, preflight)
	router.POST(AnalyzePath, h.analyze)
	router.OPTIONS(AnalyzePath, preflight)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"POST", "OPTIONS", "GET"},
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// preflight answers OPTIONS requests that carry no Origin header, which the
// CORS middleware passes through.
func preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
