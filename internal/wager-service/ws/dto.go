package ws

import "encoding/json"

// ClientMsg é a mensagem de controle enviada pelo cliente WebSocket.
type ClientMsg struct {
	Type    string `json:"type"` // "subscribe" | "unsubscribe" | "ping"
	MatchID string `json:"matchId"`
}

// MatchUpdate é o payload repassado aos dashboards inscritos na partida.
// Payload carrega o evento original (bet_settled, match_finished, ...).
type MatchUpdate struct {
	MatchID string          `json:"matchId"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}
