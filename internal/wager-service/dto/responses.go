package dto

import "github.com/placarbet/wager-engine/internal/wager-service/settlement"

type WalletResponse struct {
	UserID       string `json:"userId"`
	WalletID     string `json:"walletId"`
	BalanceCents int64  `json:"balance_cents"`
}

// FinishMatchResponse devolve o resultado do flip mais o resumo da
// graduação síncrona disparada por ele.
type FinishMatchResponse struct {
	MatchID    string             `json:"matchId"`
	Status     string             `json:"status"` // "finished"
	Settlement settlement.Summary `json:"settlement"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
