package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	skafka "github.com/placarbet/wager-engine/internal/shared/kafka"
	"github.com/placarbet/wager-engine/pkg/contracts/events"
	"github.com/placarbet/wager-engine/pkg/contracts/topics"
)

// KafkaPublisher emite os eventos de domínio do motor.
// A publicação é best-effort: o banco é a fonte de verdade e os eventos
// alimentam apenas o feed de notificações.
type KafkaPublisher struct {
	matchCreated  *kafka.Writer
	matchFinished *kafka.Writer
	betPlaced     *kafka.Writer
	betSettled    *kafka.Writer
}

func NewKafkaPublisher(brokers string) *KafkaPublisher {
	return &KafkaPublisher{
		matchCreated:  skafka.NewWriter(brokers, topics.MatchCreated),
		matchFinished: skafka.NewWriter(brokers, topics.MatchFinished),
		betPlaced:     skafka.NewWriter(brokers, topics.BetPlaced),
		betSettled:    skafka.NewWriter(brokers, topics.BetSettled),
	}
}

func (p *KafkaPublisher) Close() {
	_ = p.matchCreated.Close()
	_ = p.matchFinished.Close()
	_ = p.betPlaced.Close()
	_ = p.betSettled.Close()
}

func (p *KafkaPublisher) PublishMatchCreated(ctx context.Context, e events.MatchCreated) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.matchCreated.WriteMessages(ctx, kafka.Message{Key: []byte(e.MatchID), Value: b})
}

func (p *KafkaPublisher) PublishMatchFinished(ctx context.Context, e events.MatchFinished) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.matchFinished.WriteMessages(ctx, kafka.Message{Key: []byte(e.MatchID), Value: b})
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.betPlaced.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}

func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	b, _ := json.Marshal(e)
	return p.betSettled.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}
