package repo_test

import (
	"math"
	"testing"

	"github.com/placarbet/wager-engine/internal/wager-service/repo"
)

func TestTotalOdds(t *testing.T) {
	odds := []repo.Odd{
		{Value: 1.90},
		{Value: 1.85},
		{Value: 8.00},
	}

	got := repo.TotalOdds(odds)
	want := 1.90 * 1.85 * 8.00
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("TotalOdds = %v, want %v", got, want)
	}

	if got := repo.TotalOdds(nil); got != 1.0 {
		t.Errorf("TotalOdds(nil) = %v, want 1.0 (neutral element)", got)
	}
}

func TestPotentialPayoutCents(t *testing.T) {
	cases := []struct {
		amount int64
		odds   float64
		want   int64
	}{
		{1000, 1.90, 1900},
		{333, 1.5, 500},   // 499.5 arredonda pra cima
		{100, 1.004, 100}, // 100.4 arredonda pra baixo
		{2500, 2.812, 7030},
	}

	for _, tc := range cases {
		if got := repo.PotentialPayoutCents(tc.amount, tc.odds); got != tc.want {
			t.Errorf("PotentialPayoutCents(%d, %v) = %d, want %d", tc.amount, tc.odds, got, tc.want)
		}
	}
}
