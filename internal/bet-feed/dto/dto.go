package dto

import "time"

// BetSettled é a visão do worker sobre o evento consumido do Kafka
// (duplicado do contrato para desacoplar a evolução do consumidor).
type BetSettled struct {
	BetID       string    `json:"betId"`
	UserID      string    `json:"userId"`
	MatchID     string    `json:"matchId"`
	Status      string    `json:"status"`
	PayoutCents int64     `json:"payout_cents,omitempty"`
	Ts          time.Time `json:"ts"`
}
