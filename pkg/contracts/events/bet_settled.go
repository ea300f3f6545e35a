package events

import "time"

// Evento emitido pelo motor de liquidação após graduar uma aposta.
type BetSettled struct {
	BetID       string    `json:"betId"`
	UserID      string    `json:"userId"`
	MatchID     string    `json:"matchId"`
	Status      string    `json:"status"` // "won" | "lost"
	PayoutCents int64     `json:"payout_cents,omitempty"`
	Ts          time.Time `json:"ts"`
}
