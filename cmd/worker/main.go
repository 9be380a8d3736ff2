package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suPer8Hu/account-pilot/internal/ai"
	"github.com/suPer8Hu/account-pilot/internal/assist"
	"github.com/suPer8Hu/account-pilot/internal/config"
	"github.com/suPer8Hu/account-pilot/internal/search"
	"github.com/suPer8Hu/account-pilot/internal/store"
	"github.com/suPer8Hu/account-pilot/internal/store/rabbitmq"
	"github.com/suPer8Hu/account-pilot/internal/store/redisstore"
)

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
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

	reg := ai.NewRegistry()
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, strings.TrimSpace(model)), nil
	})
	reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = "openrouter/auto"
		}
		return ai.NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, m, cfg.OpenRouterSiteURL, cfg.OpenRouterAppName), nil
	})

	provider, err := reg.Get(context.Background(), cfg.AIProvider, cfg.AIModel)
	if err != nil {
		log.Fatalf("ai provider: %v", err)
	}

	var searcher assist.Searcher
	if cfg.SerperAPIKey != "" {
		searcher = search.NewClient(cfg.SerperAPIKey)
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

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	// Same declaration as the publisher: inequivalent redeclaration of an
	// existing queue is a channel error on the broker.
	if err := rabbitmq.DeclareTopology(ch, cfg.RabbitQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	concurrency := workerConcurrency()

	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("worker started, queue=%s concurrency=%d", cfg.RabbitQueue, concurrency)

	// worker pool
	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var m rabbitmq.JobMessage
				if err := json.Unmarshal(d.Body, &m); err != nil || m.JobID == "" {
					log.Printf("worker=%d bad message: %v", workerID, err)
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := handleJob(ctx, svc, repo, m.JobID); err != nil {
					log.Printf("worker=%d job %s failed cost=%s err=%v", workerID, m.JobID, time.Since(start), err)
					_ = d.Nack(false, false)
					continue
				}

				if err := d.Ack(false); err != nil {
					log.Printf("worker=%d ack failed job=%s err=%v", workerID, m.JobID, err)
				}
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			log.Printf("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Printf("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}

// handleJob runs the chat pipeline for a queued research job. A stored
// assistant turn marks success; a zero turn id means no assistant turn was
// written (validation rejection or a storage failure) and the job is
// failed with the user-facing reply as its error.
func handleJob(ctx context.Context, svc *assist.Service, repo *store.Repo, jobID string) error {
	_ = repo.UpdateJobStatusRunning(ctx, jobID)

	j, err := repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	result, turnID := svc.ProcessChat(ctx, assist.ChatRequest{
		SessionID: j.SessionID,
		Prompt:    j.Prompt,
	})

	if turnID == 0 {
		if err := repo.MarkJobFailed(ctx, jobID, result.Reply); err != nil {
			return err
		}
		return nil
	}

	return repo.MarkJobSucceeded(ctx, jobID, turnID)
}
