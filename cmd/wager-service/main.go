package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	scache "github.com/placarbet/wager-engine/internal/shared/cache"
	"github.com/placarbet/wager-engine/internal/shared/config"
	"github.com/placarbet/wager-engine/internal/shared/db"
	"github.com/placarbet/wager-engine/internal/shared/logger"
	"github.com/placarbet/wager-engine/internal/wager-service/cache"
	whttp "github.com/placarbet/wager-engine/internal/wager-service/http"
	"github.com/placarbet/wager-engine/internal/wager-service/oddsgen"
	"github.com/placarbet/wager-engine/internal/wager-service/producer"
	"github.com/placarbet/wager-engine/internal/wager-service/repo"
	"github.com/placarbet/wager-engine/internal/wager-service/settlement"
	"github.com/placarbet/wager-engine/internal/wager-service/wallet"
	"github.com/placarbet/wager-engine/internal/wager-service/ws"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New("wager-service", cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	rdb, err := scache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka (eventos de domínio)
	publ := producer.NewKafkaPublisher(cfg.KafkaBrokers)
	defer publ.Close()

	// deps
	catalog := repo.NewCatalog(pg)
	bets := repo.NewBets(pg)
	wrepo := wallet.NewPostgres(pg)
	grader := settlement.NewGrader(pg, log, publ)
	mcache := cache.New(rdb)

	oddsCfg := oddsgen.DefaultConfig()
	oddsCfg.Margin = cfg.OddsMargin

	// Hub WebSocket alimentado pelo Redis Pub/Sub (feed de liquidações)
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(context.Background(), rdb, hub)

	// HTTP público
	api := whttp.NewServer(log, catalog, bets, wrepo, grader, mcache, publ, hub, oddsCfg)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.PingContext(r.Context()); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("wager-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
