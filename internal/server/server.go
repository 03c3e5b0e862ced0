// Package server exposes the payment backend and the configurator session API over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/woozymasta/beato-configurator/internal/broadcast"
	"github.com/woozymasta/beato-configurator/internal/checkout"
	"github.com/woozymasta/beato-configurator/internal/notify"
	"github.com/woozymasta/beato-configurator/internal/product"
	"github.com/woozymasta/beato-configurator/internal/session"
)

// Options wire the server to its collaborators.
type Options struct {
	Catalog     *product.Catalog
	Sessions    *session.Manager
	Hub         *broadcast.Hub
	Credentials checkout.Credentials
	Mailer      notify.Mailer
	NotifyTo    string // recipient of payment notifications
	Log         *slog.Logger
}

// Server is the HTTP server.
type Server struct {
	opts   Options
	log    *slog.Logger
	router *gin.Engine
}

// New creates the server and registers its routes.
func New(opts Options) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		opts:   opts,
		log:    opts.Log,
		router: router,
	}

	router.Use(s.requestLog, cors)

	// Payment routes
	api := router.Group("/api")
	{
		api.POST("/payu-signature", s.handleSignature)
		api.POST("/payu-webhook", s.handleWebhook)
		api.GET("/reference", s.handleReference)

		api.GET("/products", s.handleProducts)
		api.GET("/products/:product", s.handleProduct)

		sessions := api.Group("/sessions/:product")
		sessions.GET("", s.handleState)
		sessions.GET("/scene", s.handleScene)
		sessions.POST("/view", s.handleView)
		sessions.POST("/click", s.handleClick)
		sessions.POST("/color", s.handleColor)
		sessions.POST("/classify", s.handleClassify)
		sessions.POST("/camera/settle", s.handleSettle)
		sessions.POST("/cart", s.handleCart)
	}

	router.GET("/ws/:product", s.handleWS)

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// requestLog logs each request at debug level.
func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	s.log.Debug("request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

// cors allows the configurator to be embedded and called from any origin.
func cors(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.Next()
}
