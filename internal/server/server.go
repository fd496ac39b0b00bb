// Package server exposes the decoder over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/ganehag/meterbus-restaurant/internal/config"
	"github.com/ganehag/meterbus-restaurant/internal/options"
	"github.com/ganehag/meterbus-restaurant/pkg/mbus"
)

const (
	mimeText   = "text/plain"
	mimeBinary = "application/octet-stream"

	shutdownTimeout = 5 * time.Second
)

// Server serves POST /api/convert together with health and metrics routes.
type Server struct {
	cfg     config.Config
	log     logrus.FieldLogger
	router  *gin.Engine
	started time.Time
}

// New builds the router. The AES key in cfg is validated up front.
func New(cfg config.Config, logger logrus.FieldLogger) (*Server, error) {
	if _, err := options.ParseKeyHex(cfg.KeyHex); err != nil {
		return nil, err
	}
	RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(RequestMetrics())

	s := &Server{cfg: cfg, log: logger, router: r, started: time.Now()}
	s.registerRoutes()
	return s, nil
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(s.started).String(),
			"mode":   string(s.cfg.Mode),
		})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.POST("/api/convert", s.convert)
}

func (s *Server) convert(c *gin.Context) {
	contentType := c.ContentType()
	if contentType != mimeText && contentType != mimeBinary {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content type"})
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body"})
		return
	}

	data := raw
	if contentType == mimeText {
		data, err = options.DecodeHex(string(raw))
		if err != nil && !errors.Is(err, options.ErrEmptyHex) {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid hex data: %v", err)})
			return
		}
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	doc, err := mbus.Decode(data, s.cfg.Mode, mbus.Options{KeyHex: s.cfg.KeyHex})
	recordDecode(entryPoint(doc, err), len(doc.Records), err)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error processing M-Bus data: %v", err)})
		return
	}
	if s.cfg.Pretty {
		c.IndentedJSON(http.StatusOK, doc)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func entryPoint(doc mbus.Document, err error) string {
	switch {
	case err != nil:
		return "none"
	case doc.Frame != nil:
		return string(options.ModeFrame)
	default:
		return string(options.ModeBody)
	}
}
