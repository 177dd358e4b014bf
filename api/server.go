package api

import (
	"errors"
	"net/http"

	"github.com/banachtech/optionmc/config"
	"github.com/banachtech/optionmc/convergence"
	"github.com/banachtech/optionmc/db"
	"github.com/banachtech/optionmc/mc"
	"github.com/banachtech/optionmc/payoff"
	"github.com/banachtech/optionmc/pricer"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Server serves HTTP requests for the Monte Carlo pricing service.
type Server struct {
	store  db.Store
	cfg    *config.Config
	log    *log.Entry
	router *gin.Engine
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(store db.Store, cfg *config.Config) *Server {
	server := &Server{
		store: store,
		cfg:   cfg,
		log:   log.WithField("component", "api"),
	}

	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	router := gin.New()
	router.Use(gin.Recovery(), server.requestLogger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	if server.cfg.Server.Auth {
		v1.Use(server.authentication)
	}
	v1.POST("/price", server.price)
	v1.POST("/convergence", server.convergence)
	v1.GET("/reports", server.listReports)
	v1.GET("/reports/:id", server.getReport)
	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

// Handler exposes the router, e.g. for http.Server.
func (server *Server) Handler() http.Handler {
	return server.router
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, payoff.ErrInvalidContract),
		errors.Is(err, payoff.ErrInvalidMarket),
		errors.Is(err, mc.ErrInvalidConfig),
		errors.Is(err, mc.ErrInvalidInterval),
		errors.Is(err, pricer.ErrInvalidPathCount),
		errors.Is(err, pricer.ErrInvalidRequest),
		errors.Is(err, convergence.ErrInvalidPlan):
		return http.StatusBadRequest
	case errors.Is(err, pricer.ErrDegeneratePath),
		errors.Is(err, payoff.ErrDegenerate),
		errors.Is(err, convergence.ErrNoReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (server *Server) requestLogger(c *gin.Context) {
	c.Next()
	entry := server.log.WithFields(log.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"status": c.Writer.Status(),
	})
	if len(c.Errors) > 0 {
		entry.Warn(c.Errors.String())
		return
	}
	entry.Debug("request served")
}
