package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr       string
	Port             string
	DatabasePath     string
	SessionSecret    string
	SessionTTL       time.Duration
	GinMode          string
	UploadDir        string
	UploadURLPath    string
	RedisAddr        string
	SeedUserEmail    string
	SeedUserPassword string
	SeedUserNickname string
}

// Load 从 .env 与环境变量读取应用配置，并为缺失项提供安全的默认值。
// 已存在的环境变量优先于 .env 中的同名项。
func Load() AppConfig {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] failed to read .env: %v", err)
	}

	port := envOrDefault("PORT", "3000")
	listenAddr := envOrDefault("LISTEN_ADDR", fmt.Sprintf(":%s", port))

	sessionTTL := time.Hour
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			log.Printf("[WARN] invalid SESSION_TTL %q, using %s", raw, sessionTTL)
		} else {
			sessionTTL = parsed
		}
	}

	return AppConfig{
		ListenAddr:       listenAddr,
		Port:             port,
		DatabasePath:     envOrDefault("DATABASE_PATH", "postboard.db"),
		SessionSecret:    envOrDefault("SESSION_SECRET", "postboard-dev-secret"),
		SessionTTL:       sessionTTL,
		GinMode:          envOrDefault("GIN_MODE", "release"),
		UploadDir:        envOrDefault("UPLOAD_DIR", "uploads/post-images"),
		UploadURLPath:    envOrDefault("UPLOAD_URL_PATH", "/post-images"),
		RedisAddr:        strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		SeedUserEmail:    strings.TrimSpace(os.Getenv("SEED_USER_EMAIL")),
		SeedUserPassword: strings.TrimSpace(os.Getenv("SEED_USER_PASSWORD")),
		SeedUserNickname: strings.TrimSpace(os.Getenv("SEED_USER_NICKNAME")),
	}
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
