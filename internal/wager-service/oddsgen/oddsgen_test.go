package oddsgen_test

import (
	"math"
	"testing"

	"github.com/placarbet/wager-engine/internal/wager-service/oddsgen"
)

func TestFromHistoryEmptyUsesFallback(t *testing.T) {
	got := oddsgen.FromHistory(oddsgen.History{}, oddsgen.DefaultConfig())
	want := oddsgen.Fallback()

	if got != want {
		t.Errorf("empty history should return fallback, got %+v", got)
	}
}

func TestFromHistoryProbabilitiesSumToOne(t *testing.T) {
	cases := []oddsgen.History{
		{WinsA: 1},
		{WinsA: 6, WinsB: 2, Draws: 2},
		{WinsB: 40},
		{WinsA: 3, WinsB: 3, Draws: 3},
	}

	for _, h := range cases {
		mw := oddsgen.FromHistory(h, oddsgen.DefaultConfig())
		sum := mw.ProbA + mw.ProbB + mw.ProbDraw
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("history %+v: probabilities sum to %v, want 1", h, sum)
		}
	}
}

func TestFromHistoryOverround(t *testing.T) {
	mw := oddsgen.FromHistory(oddsgen.History{WinsA: 6, WinsB: 2, Draws: 2}, oddsgen.DefaultConfig())

	// Com margem embutida, as probabilidades implícitas somam mais que 1
	implied := 1/mw.OddA + 1/mw.OddB + 1/mw.OddDraw
	if implied <= 1.0 {
		t.Errorf("implied probability sum = %v, want > 1 (house margin)", implied)
	}
}

func TestFromHistorySkewOrdersOdds(t *testing.T) {
	mw := oddsgen.FromHistory(oddsgen.History{WinsA: 8, WinsB: 1, Draws: 1}, oddsgen.DefaultConfig())

	if mw.OddA >= mw.OddB {
		t.Errorf("dominant player should have the shorter odd: oddA=%v oddB=%v", mw.OddA, mw.OddB)
	}
	if mw.ProbA <= mw.ProbB {
		t.Errorf("dominant player should have the higher probability: probA=%v probB=%v", mw.ProbA, mw.ProbB)
	}
}

func TestFromHistoryLaplaceNeverZero(t *testing.T) {
	// Mesmo sem nenhuma vitória registrada, nenhum desfecho sai com prob 0
	mw := oddsgen.FromHistory(oddsgen.History{WinsA: 20}, oddsgen.DefaultConfig())

	if mw.ProbB <= 0 || mw.ProbDraw <= 0 {
		t.Errorf("laplace smoothing should keep probabilities positive: %+v", mw)
	}
}

func TestMinOddFloor(t *testing.T) {
	cfg := oddsgen.DefaultConfig()
	mw := oddsgen.FromHistory(oddsgen.History{WinsA: 1000}, cfg)

	if mw.OddA < cfg.MinOdd {
		t.Errorf("odd below floor: got %v, floor %v", mw.OddA, cfg.MinOdd)
	}
}

func TestMarketsComposition(t *testing.T) {
	quotes := oddsgen.Markets(oddsgen.Fallback())

	if len(quotes) != 14 {
		t.Fatalf("expected 14 quotes (3 winner + 3 possession + 8 exact score), got %d", len(quotes))
	}

	byMarket := map[string]int{}
	for _, q := range quotes {
		byMarket[q.MarketType]++
		if q.Value < 1.0 {
			t.Errorf("quote %s/%s has value %v < 1.0", q.MarketType, q.Selection, q.Value)
		}
	}

	if byMarket["match_winner"] != 3 {
		t.Errorf("match_winner quotes = %d, want 3", byMarket["match_winner"])
	}
	if byMarket["possession"] != 3 {
		t.Errorf("possession quotes = %d, want 3", byMarket["possession"])
	}
	if byMarket["exact_score"] != 8 {
		t.Errorf("exact_score quotes = %d, want 8", byMarket["exact_score"])
	}
}

func TestMarketsPossessionPricing(t *testing.T) {
	quotes := oddsgen.Markets(oddsgen.Fallback())

	want := map[string]float64{"home": 1.85, "away": 1.85, "equal": 8.00}
	for _, q := range quotes {
		if q.MarketType != "possession" {
			continue
		}
		if want[q.Selection] != q.Value {
			t.Errorf("possession/%s = %v, want %v", q.Selection, q.Value, want[q.Selection])
		}
		delete(want, q.Selection)
	}
	if len(want) != 0 {
		t.Errorf("missing possession selections: %v", want)
	}
}

func TestMarketsExactScoreTable(t *testing.T) {
	quotes := oddsgen.Markets(oddsgen.Fallback())

	seen := map[string]bool{}
	for _, q := range quotes {
		if q.MarketType == "exact_score" {
			seen[q.Selection] = true
		}
	}

	for _, sel := range []string{"1-0", "0-1", "1-1", "2-0", "0-2", "2-1", "1-2", "0-0"} {
		if !seen[sel] {
			t.Errorf("exact_score table missing selection %q", sel)
		}
	}
}
