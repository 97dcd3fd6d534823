// Package server exposes the JSON HTTP API consumed by the web frontend.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hmasuda/sitework/internal/notify"
	"github.com/hmasuda/sitework/internal/pdfgw"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	DB         *gorm.DB
	Gateway    *pdfgw.Client
	Dispatcher *notify.Dispatcher
	Log        *logrus.Logger
	Port       int
}

// deps bundles the shared handler dependencies.
type deps struct {
	db         *gorm.DB
	gw         *pdfgw.Client
	dispatcher *notify.Dispatcher
	log        *logrus.Logger
	now        func() time.Time
}

// Start launches the API server. It blocks until ctx is cancelled, then shuts
// down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("server: db is required")
	}
	if opts.Gateway == nil {
		return fmt.Errorf("server: pdf gateway client is required")
	}
	if opts.Log == nil {
		opts.Log = logrus.New()
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = notify.NewDispatcher(opts.Log)
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	router := newRouter(deps{
		db:         opts.DB,
		gw:         opts.Gateway,
		dispatcher: opts.Dispatcher,
		log:        opts.Log,
		now:        time.Now,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	opts.Log.WithField("port", opts.Port).Info("api server listening")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// newRouter builds the gin engine with all routes registered.
func newRouter(d deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(d.log))
	registerRoutes(router, d)
	return router
}

// requestLogger logs one line per request at debug level, errors at warn.
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if c.Writer.Status() >= 500 {
			entry.Warn("request failed")
		} else {
			entry.Debug("request")
		}
	}
}
