package settlement_test

import (
	"testing"

	"github.com/placarbet/wager-engine/internal/wager-service/repo"
	"github.com/placarbet/wager-engine/internal/wager-service/settlement"
)

func TestResultOutcomes(t *testing.T) {
	cases := []struct {
		name       string
		r          settlement.Result
		winner     string
		possession string
		score      string
	}{
		{
			name:       "home win with possession",
			r:          settlement.Result{ScoreA: 2, ScoreB: 1, PossessionHome: 60, PossessionAway: 40},
			winner:     "home", possession: "home", score: "2-1",
		},
		{
			name:       "away win",
			r:          settlement.Result{ScoreA: 0, ScoreB: 2, PossessionHome: 45, PossessionAway: 55},
			winner:     "away", possession: "away", score: "0-2",
		},
		{
			name:       "draw with equal possession",
			r:          settlement.Result{ScoreA: 1, ScoreB: 1, PossessionHome: 50, PossessionAway: 50},
			winner:     "draw", possession: "equal", score: "1-1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Winner(); got != tc.winner {
				t.Errorf("Winner() = %q, want %q", got, tc.winner)
			}
			if got := tc.r.PossessionWinner(); got != tc.possession {
				t.Errorf("PossessionWinner() = %q, want %q", got, tc.possession)
			}
			if got := tc.r.ExactScore(); got != tc.score {
				t.Errorf("ExactScore() = %q, want %q", got, tc.score)
			}
		})
	}
}

func TestEvaluateSelection(t *testing.T) {
	r := settlement.Result{ScoreA: 2, ScoreB: 1, PossessionHome: 55, PossessionAway: 45}

	hit, err := settlement.EvaluateSelection(repo.MarketMatchWinner, "home", r)
	if err != nil || !hit {
		t.Errorf("match_winner/home on 2-1: hit=%v err=%v, want hit", hit, err)
	}

	hit, err = settlement.EvaluateSelection(repo.MarketExactScore, "1-0", r)
	if err != nil || hit {
		t.Errorf("exact_score/1-0 on 2-1: hit=%v err=%v, want miss", hit, err)
	}

	if _, err = settlement.EvaluateSelection("total_goals", "over", r); err == nil {
		t.Error("unknown market should return an error")
	}
}

func TestEvaluateBetAllSelectionsMustHit(t *testing.T) {
	r := settlement.Result{ScoreA: 2, ScoreB: 1, PossessionHome: 60, PossessionAway: 40}

	won, err := settlement.EvaluateBet([]repo.BetSelection{
		{MarketType: repo.MarketMatchWinner, Selection: "home"},
		{MarketType: repo.MarketExactScore, Selection: "2-1"},
	}, r)
	if err != nil {
		t.Fatalf("evaluate winning bet: %v", err)
	}
	if !won {
		t.Error("bet with all selections correct should win")
	}

	// Uma seleção errada derruba o bilhete inteiro
	won, err = settlement.EvaluateBet([]repo.BetSelection{
		{MarketType: repo.MarketMatchWinner, Selection: "home"},
		{MarketType: repo.MarketExactScore, Selection: "1-0"},
	}, r)
	if err != nil {
		t.Fatalf("evaluate losing bet: %v", err)
	}
	if won {
		t.Error("bet with a missed selection should lose")
	}
}

func TestEvaluateBetMalformed(t *testing.T) {
	r := settlement.Result{ScoreA: 1, ScoreB: 0}

	if _, err := settlement.EvaluateBet(nil, r); err == nil {
		t.Error("bet without selections should return an error")
	}

	if _, err := settlement.EvaluateBet([]repo.BetSelection{
		{MarketType: "mystery", Selection: "x"},
	}, r); err == nil {
		t.Error("bet with unknown market should return an error")
	}
}
