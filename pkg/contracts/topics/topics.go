package topics

const (
	// Catálogo
	MatchCreated  = "match_created"
	MatchFinished = "match_finished"

	// Apostas
	BetPlaced  = "bet_placed"
	BetSettled = "bet_settled"

	// DLQs
	BetSettledDLQ = "bet_settled_dlq"
)
