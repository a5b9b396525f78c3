package main

import (
	"context"
	"fmt"
	"time"

	"pairlink/data/mongoutil"
	"pairlink/global/config"
	"pairlink/logger"
	"pairlink/middleware"
	chatservice "pairlink/module/chat/service"
	chatstore "pairlink/module/chat/store"
	userservice "pairlink/module/user/service"
	"pairlink/service/chat"
	"pairlink/service/chat/handlers"
	"pairlink/service/mgo"
	"pairlink/service/presence"
	"pairlink/tools/ids"
	"pairlink/tools/security"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("[boot] load config: %v", err)
		return
	}
	ids.SetNodeID(cfg.NodeID)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mgo.Init(ctx, &mongoutil.Config{
		Uri:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	}); err != nil {
		logger.Errorf("[boot] mongo: %v", err)
		return
	}
	db := mgo.GetDB()

	msgStore := chatstore.NewMessageStore(db)
	convStore := chatstore.NewConversationStore(db)
	if err := convStore.EnsureIndexes(ctx); err != nil {
		logger.Errorf("[boot] indexes: %v", err)
		return
	}

	registry, err := buildPresence(ctx, cfg)
	if err != nil {
		logger.Errorf("[boot] presence: %v", err)
		return
	}

	connMgr := chat.NewConnManager()
	relay := chatservice.NewRelay(msgStore, convStore, registry, connMgr)

	users := userservice.New(db)
	authn := chat.NewAuthenticator(security.Options{
		Secret: []byte(cfg.JWTSecret),
		Alg:    cfg.JWTAlg,
		TTL:    cfg.JWTTTL,
	}, users)

	disp := chat.NewDispatcher()
	disp.Register(handlers.NewOnlineHandler(relay))
	disp.Register(handlers.NewSendHandler(relay))
	disp.Register(handlers.NewConversationHandler(relay))
	disp.Register(handlers.NewAllConversationsHandler(relay))

	server := chat.NewServer(chat.Options{
		SendQueueSize: cfg.SendQueueSize,
		WriteTimeout:  cfg.WriteTimeout,
	}, authn, disp, connMgr, relay)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Origin())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "connections": connMgr.Count()})
	})
	r.GET(cfg.WSPath, server.HandleWS)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Infof("[boot] gateway listening on %s (ws path %s, presence %s)", addr, cfg.WSPath, cfg.PresenceBackend)
	if err := r.Run(addr); err != nil {
		logger.Errorf("[boot] server: %v", err)
	}
}

func buildPresence(ctx context.Context, cfg config.AppConfig) (presence.Registry, error) {
	switch cfg.PresenceBackend {
	case config.PresenceBackendRedis:
		return presence.NewRedisRegistry(ctx, presence.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.PresenceTTL,
		})
	default:
		return presence.NewMemoryRegistry(), nil
	}
}
