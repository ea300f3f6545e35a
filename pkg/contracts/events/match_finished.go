package events

// Evento publicado no tópico "match_finished" depois do flip open -> finished.
type MatchFinished struct {
	MatchID          string `json:"match_id"`
	ScoreA           int    `json:"score_a"`
	ScoreB           int    `json:"score_b"`
	PossessionHome   int    `json:"possession_home"`
	PossessionAway   int    `json:"possession_away"`
	PossessionWinner string `json:"possession_winner"` // "home" | "away" | "equal"
	TsUnixMs         int64  `json:"ts_unix_ms"`
}
