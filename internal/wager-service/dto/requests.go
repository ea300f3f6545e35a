package dto

import "time"

type CreatePlayerRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"` // "home" | "away"
}

type CreateMatchRequest struct {
	PlayerAID   string    `json:"playerAId"`
	PlayerBID   string    `json:"playerBId"`
	GameType    string    `json:"gameType"`    // ex: "FIFA"
	ScheduledAt time.Time `json:"scheduledAt"` // zero = agora
}

type FinishMatchRequest struct {
	ScoreA         *int `json:"scoreA"`
	ScoreB         *int `json:"scoreB"`
	PossessionHome *int `json:"possessionHome,omitempty"` // ausente = 50
	PossessionAway *int `json:"possessionAway,omitempty"` // ausente = 50
}

type PlaceBetRequest struct {
	UserID      string   `json:"userId"`
	MatchID     string   `json:"matchId"`
	AmountCents int64    `json:"amount_cents"`
	OddIDs      []string `json:"odd_ids"`
}

type DepositRequest struct {
	UserID      string `json:"userId"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref,omitempty"` // opcional p/ rastreio
}
