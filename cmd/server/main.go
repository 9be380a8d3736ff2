package main

import (
	"context"
	"log"
	"strings"

	"github.com/suPer8Hu/account-pilot/internal/ai"
	"github.com/suPer8Hu/account-pilot/internal/assist"
	"github.com/suPer8Hu/account-pilot/internal/config"
	"github.com/suPer8Hu/account-pilot/internal/httpapi"
	"github.com/suPer8Hu/account-pilot/internal/httpapi/handlers"
	"github.com/suPer8Hu/account-pilot/internal/search"
	"github.com/suPer8Hu/account-pilot/internal/store"
	"github.com/suPer8Hu/account-pilot/internal/store/rabbitmq"
	"github.com/suPer8Hu/account-pilot/internal/store/redisstore"
)

const version = "2.0.0"

func buildRegistry(cfg config.Config) *ai.Registry {
	reg := ai.NewRegistry()

	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})

	reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = "openrouter/auto"
		}
		return ai.NewOpenRouterProvider(
			cfg.OpenRouterBaseURL,
			cfg.OpenRouterAPIKey,
			m,
			cfg.OpenRouterSiteURL,
			cfg.OpenRouterAppName,
		), nil
	})

	return reg
}

func main() {
	cfg := config.Load()

	db, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	repo := store.NewRepo(db)
	if err := repo.AutoMigrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	reg := buildRegistry(cfg)
	provider, err := reg.Get(context.Background(), cfg.AIProvider, cfg.AIModel)
	if err != nil {
		log.Fatalf("ai provider: %v", err)
	}

	var searcher assist.Searcher
	if cfg.SerperAPIKey != "" {
		searcher = search.NewClient(cfg.SerperAPIKey)
	} else {
		log.Printf("SERPER_API_KEY not set; real-time research disabled")
	}

	var cache assist.ResearchCache
	if cfg.RedisAddr != "" {
		rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ResearchCacheTTL)
		if err := rds.Ping(context.Background()); err != nil {
			log.Printf("redis unreachable addr=%s err=%v; research cache disabled", cfg.RedisAddr, err)
		} else {
			cache = rds
			defer rds.Close()
		}
	}

	retry := ai.DefaultRetryPolicy()
	if cfg.RetryMaxAttempts > 0 {
		retry.MaxAttempts = cfg.RetryMaxAttempts
	}

	svc := assist.NewService(repo, provider, searcher, cache, retry, cfg.HistoryLimit)

	var jobs handlers.JobPublisher
	if pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue); err != nil {
		log.Printf("rabbit unreachable url=%s err=%v; async chat disabled", cfg.RabbitURL, err)
	} else {
		jobs = pub
		defer pub.Close()
	}

	h := handlers.NewHandler(repo, svc, jobs, version)
	r := httpapi.NewRouter(h)

	log.Printf("server listening addr=%s provider=%s db=%s", cfg.ListenAddr, cfg.AIProvider, cfg.DBDriver)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
