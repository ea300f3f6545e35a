package events

type BetPlaced struct {
	BetID                string   `json:"bet_id"`
	UserID               string   `json:"user_id"`
	MatchID              string   `json:"match_id"`
	AmountCents          int64    `json:"amount_cents"`
	TotalOdds            float64  `json:"total_odds"` // recomputado no servidor, nunca o do cliente
	PotentialPayoutCents int64    `json:"potential_payout_cents"`
	OddIDs               []string `json:"odd_ids"`
	TsUnixMs             int64    `json:"ts_unix_ms"`
}
