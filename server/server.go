// Package server exposes the translator and toolchain over HTTP, for
// callers without a TTY (editor tooling, CI). Grounded on gin-gonic/gin
// as used by the o9nn-echo.go example's unified HTTP server, pared
// down to the two routes this domain needs and wired to zap for
// request logging instead of gin's default logger.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Joker-vD/onepass-lambda-compiler/parse"
	"github.com/Joker-vD/onepass-lambda-compiler/toolchain"
	"github.com/Joker-vD/onepass-lambda-compiler/translator"
)

// Server bundles the dependencies the HTTP handlers need.
type Server struct {
	Toolchain    toolchain.Config
	Logger       *zap.Logger
	EvalTimeout  time.Duration
	engine       *gin.Engine
}

// New builds a Server with its routes registered. logger must not be
// nil; pass zap.NewNop() in tests that don't care about log output.
func New(cc toolchain.Config, logger *zap.Logger, evalTimeout time.Duration) *Server {
	s := &Server{Toolchain: cc, Logger: logger, EvalTimeout: evalTimeout}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(ginZapLogger(logger), gin.Recovery())
	r.POST("/translate", s.handleTranslate)
	r.POST("/eval", s.handleEval)
	s.engine = r
	return s
}

// Handler returns the http.Handler to mount or pass to http.Server.
func (s *Server) Handler() http.Handler { return s.engine }

// Run starts listening on addr, blocking until the server exits.
func (s *Server) Run(addr string) error { return s.engine.Run(addr) }

type termRequest struct {
	Term string `json:"term" binding:"required"`
}

func (s *Server) handleTranslate(c *gin.Context) {
	var req termRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tm, err := parse.Parse(req.Term, noContinuation)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	csrc, err := translator.Translate(tm)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"c_source": csrc})
}

func (s *Server) handleEval(c *gin.Context) {
	var req termRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tm, err := parse.Parse(req.Term, noContinuation)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	csrc, err := translator.Translate(tm)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.EvalTimeout)
	defer cancel()

	res, err := s.Toolchain.CompileAndRun(ctx, csrc)
	if err != nil {
		s.Logger.Warn("eval failed", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stdout":           res.Stdout,
		"heap_usage_bytes": res.HeapUsageBytes,
	})
}

func noContinuation(bool) (string, bool) { return "", false }

func ginZapLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
