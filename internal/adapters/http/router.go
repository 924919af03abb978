package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Meetcast/internal/adapters/signal"
	"github.com/dkeye/Meetcast/internal/app/orch"
	"github.com/dkeye/Meetcast/internal/config"
	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ClientTokenMiddleware gives every browser a stable "ct" cookie so that
// reconnects of the same client can be correlated in logs.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log.Logger))
	r.Use(ClientTokenMiddleware())

	ctrl := signal.NewSignalWSController(o, signal.Options{
		ReadLimit:  cfg.ReadLimit,
		WriteWait:  cfg.WriteWait,
		SendBuffer: cfg.SendBuffer,
	})

	r.GET("/ws", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, o.RoomList())
	})
	api.GET("/rooms/:code/presence", func(c *gin.Context) {
		code := domain.MeetingCode(c.Param("code"))
		p, ok := o.Presence(code)
		if !ok {
			l := Logger(c.Request.Context())
			l.Debug().Str("room", string(code)).Msg("presence of absent room")
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
