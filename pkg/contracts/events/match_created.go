package events

import "time"

// Evento publicado no tópico "match_created" após a partida e suas odds
// estarem persistidas (a partida só fica visível com os três mercados prontos).
type MatchCreated struct {
	MatchID     string    `json:"match_id"`
	PlayerAID   string    `json:"player_a_id"`
	PlayerBID   string    `json:"player_b_id"`
	GameType    string    `json:"game_type"`
	ScheduledAt time.Time `json:"scheduled_at"`
	TsUnixMs    int64     `json:"ts_unix_ms"`
}
