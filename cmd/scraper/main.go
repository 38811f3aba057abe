package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"reviewpulse/internal/adapters/memcache"
	"reviewpulse/internal/adapters/observability"
	redisad "reviewpulse/internal/adapters/redis"
	"reviewpulse/internal/adapters/scrape"
	"reviewpulse/internal/app"
	"reviewpulse/internal/domain"
	"reviewpulse/internal/shared"
	mysqlrepo "reviewpulse/internal/storage/mysql"
)

// target is one line of the batch file: which product page to scrape.
type target struct {
	URL        string `json:"url"`
	Platform   string `json:"platform"`
	Name       string `json:"name,omitempty"`
	MaxReviews int    `json:"max_reviews,omitempty"` // 0 = SCRAPE_MAX_REVIEWS
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	targets, err := loadTargets(cfg.TargetsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.TargetsFile).Msg("load targets failed")
	}
	log.Info().
		Int("targets", len(targets)).
		Int("workers", cfg.Workers).
		Int("max_reviews", cfg.MaxReviews).
		Msg("scraper starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	} else {
		cache = memcache.New()
	}

	var renderer scrape.Renderer
	if cfg.RenderJS {
		renderer = scrape.NewChromeRenderer()
	}
	scraper := scrape.New(cfg.ScrapeRPS, renderer)

	ing := app.NewIngestionService(scraper, repo, cache, cfg.MaxReviews)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, tg := range targets {
		tg := tg

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(tg target) {
			defer wg.Done()
			defer sem.Release(int64(1))

			res, err := ing.IngestProduct(ctx, tg.URL, tg.Platform, tg.Name, tg.MaxReviews)
			if err != nil {
				log.Warn().Str("url", tg.URL).Str("platform", tg.Platform).Err(err).Msg("ingest failed")
				return
			}
			log.Info().
				Int64("product_id", res.ProductID).
				Int("reviews", res.ReviewCount).
				Str("url", tg.URL).
				Msg("ingest ok")
		}(tg)
	}

	wg.Wait()
	log.Info().Msg("scraping completed")
}

func loadTargets(path string) ([]target, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []target
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
