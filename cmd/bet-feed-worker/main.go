package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	feedDto "github.com/placarbet/wager-engine/internal/bet-feed/dto"
	"github.com/placarbet/wager-engine/internal/shared/cache"
	"github.com/placarbet/wager-engine/internal/shared/config"
	"github.com/placarbet/wager-engine/internal/shared/kafka"
	"github.com/placarbet/wager-engine/internal/shared/logger"
	"github.com/placarbet/wager-engine/internal/shared/metrics"
	"github.com/placarbet/wager-engine/internal/wager-service/ws"
)

// bet-feed-worker consome eventos bet_settled do Kafka e republica no canal
// Redis Pub/Sub que alimenta o hub WebSocket do wager-service. A entrega em
// tempo real é uma preocupação externa ao motor: o worker é essa ponte.
func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Redis: destino do broadcast
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka consumer: consome eventos bet_settled
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetSettled, "bet-feed")
	defer reader.Close()

	// DLQ para mensagens que não conseguimos repassar
	var dlqWriter *kafkago.Writer
	if cfg.TopicBetSettledDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettledDLQ)
		defer dlqWriter.Close()
	}

	// Servidor de métricas e healthcheck (valida o Redis)
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	log.Info("bet-feed-worker started",
		zap.String("consume", cfg.TopicBetSettled),
		zap.String("channel", cfg.RedisPubSubChannel),
	)

	ctx := context.Background()

	// Loop principal: consome do Kafka, embrulha em MatchUpdate e publica no Redis
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var settled feedDto.BetSettled
		if jerr := json.Unmarshal(msg.Value, &settled); jerr != nil {
			log.Error("unmarshal bet_settled", zap.Error(jerr))
			continue
		}

		if err := publishOne(ctx, rdb, cfg.RedisPubSubChannel, &settled, msg.Value); err != nil {
			log.Error("publish feed update", zap.String("betId", settled.BetID), zap.Error(err))
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, settled.BetID, msg.Value)
			}
		}
	}
}

// publishOne embrulha o evento no envelope do hub e publica no canal,
// com retry simples antes de desistir (o chamador manda pra DLQ).
func publishOne(ctx context.Context, rdb *redis.Client, channel string, settled *feedDto.BetSettled, raw []byte) error {
	upd := ws.MatchUpdate{
		MatchID: settled.MatchID,
		Kind:    "bet_settled",
		Payload: json.RawMessage(raw),
	}
	payload, _ := json.Marshal(upd)

	var err error
	const retries = 3
	for i := 0; i < retries; i++ {
		if err = rdb.Publish(ctx, channel, payload).Err(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
	}
	return err
}
