package repo

import "time"

// Status de partida. A transição é única e irreversível: open -> finished.
const (
	MatchStatusOpen     = "open"
	MatchStatusFinished = "finished"
)

// Status de aposta. Escrito uma única vez pelo motor de liquidação.
const (
	BetStatusPending = "pending"
	BetStatusWon     = "won"
	BetStatusLost    = "lost"
)

// Mercados suportados.
const (
	MarketMatchWinner = "match_winner"
	MarketPossession  = "possession"
	MarketExactScore  = "exact_score"
)

// Seleções dos mercados de vencedor e posse.
const (
	SelectionHome  = "home"
	SelectionAway  = "away"
	SelectionDraw  = "draw"
	SelectionEqual = "equal"
)

type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"` // "home" | "away" (coletado, sem semântica no motor)
	CreatedAt time.Time `json:"created_at"`
}

// Match é o modelo persistido. Campos de resultado só existem após finished.
type Match struct {
	ID               string     `json:"id"`
	PlayerAID        string     `json:"player_a_id"`
	PlayerBID        string     `json:"player_b_id"`
	PlayerAName      string     `json:"player_a_name"`
	PlayerBName      string     `json:"player_b_name"`
	GameType         string     `json:"game_type"`
	ScheduledAt      time.Time  `json:"scheduled_at"`
	Status           string     `json:"status"`
	ScoreA           *int       `json:"score_a,omitempty"`
	ScoreB           *int       `json:"score_b,omitempty"`
	PossessionHome   *int       `json:"possession_home,omitempty"`
	PossessionAway   *int       `json:"possession_away,omitempty"`
	PossessionWinner *string    `json:"possession_winner,omitempty"`
	Odds             []Odd      `json:"odds,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// Odd pertence a exatamente uma partida e é imutável após a criação.
type Odd struct {
	ID          string  `json:"id"`
	MatchID     string  `json:"match_id"`
	MarketType  string  `json:"market_type"`
	Selection   string  `json:"selection"`
	Value       float64 `json:"value"`
	Probability float64 `json:"probability"`
}

type Bet struct {
	ID                   string         `json:"id"`
	UserID               string         `json:"user_id"`
	MatchID              string         `json:"match_id"`
	AmountCents          int64          `json:"amount_cents"`
	TotalOdds            float64        `json:"total_odds"`
	PotentialPayoutCents int64          `json:"potential_payout_cents"`
	Status               string         `json:"status"`
	CreatedAt            time.Time      `json:"created_at"`
	Selections           []BetSelection `json:"selections"`
}

// BetSelection carrega os dados da odd no momento da consulta
// (as odds são imutáveis, então o join é estável).
type BetSelection struct {
	OddID      string  `json:"odd_id"`
	MarketType string  `json:"market_type"`
	Selection  string  `json:"selection"`
	Value      float64 `json:"value"`
}
