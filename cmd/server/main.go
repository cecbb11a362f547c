package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postboard/internal/config"
	"github.com/postboard/internal/db"
	"github.com/postboard/internal/handler"
	"github.com/postboard/internal/identity"
	"github.com/postboard/internal/router"
	"github.com/postboard/internal/upload"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	gdb, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := db.EnsureUser(gdb, cfg.SeedUserEmail, cfg.SeedUserPassword, cfg.SeedUserNickname); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	sessions := identity.ConnectStore(ctx, cfg.RedisAddr, cfg.SessionTTL)
	cancel()

	api := handler.NewAPI(gdb, sessions, upload.NewSaver(cfg.UploadDir, cfg.UploadURLPath))

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, cfg.SessionSecret)
	log.Printf("[INFO] postboard listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
