package http

import (
	stdhttp "net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pairwire/relay-server/internal/config"
	"github.com/pairwire/relay-server/internal/core"
)

// NewServer builds the HTTP server: the static client entry page, a health
// probe, and the websocket upgrade. Nothing else is exposed.
func NewServer(dispatcher *core.Dispatcher, table *ConnTable, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	ws := NewWSHandler(dispatcher, table, logger)

	router.StaticFile("/", filepath.Join(cfg.StaticDir, "index.html"))
	router.Static("/static", cfg.StaticDir)
	router.GET("/healthz", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	router.GET("/ws", ws.Handle)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
