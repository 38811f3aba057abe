package shared

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	Workers     int
	MaxReviews  int
	ScrapeRPS   int
	RenderJS    bool
	TargetsFile string
	CacheTTL    time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv: env("APP_ENV", "prod"),
		// Loopback by default: local runs must not listen on 0.0.0.0.
		// Hosted deployments opt into a wildcard bind via HTTP_ADDR.
		HTTPAddr:    env("HTTP_ADDR", "127.0.0.1:5000"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviewpulse?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", ""),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		Workers:     atoi("SCRAPE_WORKERS", 4),
		MaxReviews:  atoi("SCRAPE_MAX_REVIEWS", 100),
		ScrapeRPS:   atoi("SCRAPE_RPS", 2),
		RenderJS:    env("SCRAPE_RENDER_JS", "") == "1",
		TargetsFile: env("SCRAPE_TARGETS", "targets.json"),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
