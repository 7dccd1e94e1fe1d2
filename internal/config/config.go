package config

import (
	"log"
	"os"
)

// ReleaseRetainPolicy: releaseAll kısmi hata verdiğinde sepette hangi
// satırların tutulacağını belirler.
type ReleaseRetainPolicy string

const (
	// Sadece bırakılamayan satırlar sepette kalır (varsayılan)
	RetainFailed ReleaseRetainPolicy = "failed"
	// Tüm satırlar sepette kalır, operatör tam listeyi görür
	RetainAll ReleaseRetainPolicy = "all"
)

type Config struct {
	HTTPPort      string
	DatabaseDSN   string
	JWTSecret     string
	CORSOrigins   string
	ReleaseRetain ReleaseRetainPolicy // BASKET_RELEASE_RETAIN: "failed" | "all"
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=autoflix port=5432 sslmode=disable"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		ReleaseRetain: ReleaseRetainPolicy(getEnv("BASKET_RELEASE_RETAIN", string(RetainFailed))),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.ReleaseRetain != RetainFailed && cfg.ReleaseRetain != RetainAll {
		log.Fatalf("[FATAL] BASKET_RELEASE_RETAIN geçersiz: %q ('failed' veya 'all' olmalı)", cfg.ReleaseRetain)
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=autoflix port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
