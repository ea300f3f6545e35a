package parlay_test

import (
	"errors"
	"math"
	"testing"

	"github.com/placarbet/wager-engine/internal/wager-service/parlay"
)

var (
	winnerHome = parlay.Odd{ID: "o1", MatchID: "m1", MarketType: "match_winner", Value: 1.90}
	winnerAway = parlay.Odd{ID: "o2", MatchID: "m1", MarketType: "match_winner", Value: 2.50}
	possHome   = parlay.Odd{ID: "o3", MatchID: "m1", MarketType: "possession", Value: 1.85}
	score21    = parlay.Odd{ID: "o4", MatchID: "m1", MarketType: "exact_score", Value: 8.00}
	otherMatch = parlay.Odd{ID: "o9", MatchID: "m2", MarketType: "match_winner", Value: 3.00}
)

func TestToggleAddLocksMatch(t *testing.T) {
	var s parlay.Slip

	if err := s.Toggle(winnerHome); err != nil {
		t.Fatalf("toggle on empty slip: %v", err)
	}
	if s.MatchID() != "m1" {
		t.Errorf("slip should lock onto m1, got %q", s.MatchID())
	}
	if err := s.Toggle(possHome); err != nil {
		t.Fatalf("toggle second market: %v", err)
	}
	if len(s.Selections()) != 2 {
		t.Errorf("expected 2 selections, got %d", len(s.Selections()))
	}
}

func TestToggleReplacesSameMarket(t *testing.T) {
	var s parlay.Slip
	_ = s.Toggle(winnerHome)
	_ = s.Toggle(score21)

	// Selecionar outra odd do mesmo mercado substitui, não acumula
	if err := s.Toggle(winnerAway); err != nil {
		t.Fatalf("toggle replacement: %v", err)
	}

	sels := s.Selections()
	if len(sels) != 2 {
		t.Fatalf("expected 2 selections after replacement, got %d", len(sels))
	}
	if s.Contains(winnerHome.ID) {
		t.Error("replaced selection should be gone")
	}
	if !s.Contains(winnerAway.ID) {
		t.Error("replacement selection should be present")
	}
}

func TestToggleOffReleasesLock(t *testing.T) {
	var s parlay.Slip
	_ = s.Toggle(winnerHome)

	if err := s.Toggle(winnerHome); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if len(s.Selections()) != 0 {
		t.Errorf("slip should be empty after toggle off")
	}
	if s.MatchID() != "" {
		t.Errorf("empty slip should release the match lock, got %q", s.MatchID())
	}

	// Trava liberada: outra partida entra sem confirmação
	if err := s.Toggle(otherMatch); err != nil {
		t.Errorf("toggle on released slip: %v", err)
	}
}

func TestToggleOtherMatchIsNoOp(t *testing.T) {
	var s parlay.Slip
	_ = s.Toggle(winnerHome)

	err := s.Toggle(otherMatch)
	if !errors.Is(err, parlay.ErrOtherMatch) {
		t.Fatalf("expected ErrOtherMatch, got %v", err)
	}

	// O bilhete não muda sem confirmação explícita
	if s.MatchID() != "m1" || len(s.Selections()) != 1 || !s.Contains(winnerHome.ID) {
		t.Errorf("slip changed after rejected toggle: match=%q selections=%v", s.MatchID(), s.Selections())
	}
}

func TestSwitchToDiscardsAndRestarts(t *testing.T) {
	var s parlay.Slip
	_ = s.Toggle(winnerHome)
	_ = s.Toggle(possHome)

	s.SwitchTo(otherMatch)

	if s.MatchID() != "m2" {
		t.Errorf("slip should lock onto m2 after switch, got %q", s.MatchID())
	}
	sels := s.Selections()
	if len(sels) != 1 || sels[0].ID != otherMatch.ID {
		t.Errorf("switch should keep only the confirmed selection, got %v", sels)
	}
}

func TestTotalMultiplier(t *testing.T) {
	var s parlay.Slip
	_ = s.Toggle(winnerHome)
	_ = s.Toggle(possHome)
	_ = s.Toggle(score21)

	got, err := s.TotalMultiplier()
	if err != nil {
		t.Fatalf("total multiplier: %v", err)
	}
	want := 1.90 * 1.85 * 8.00
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("total multiplier = %v, want %v", got, want)
	}
}

func TestTotalMultiplierEmptySlip(t *testing.T) {
	var s parlay.Slip
	if _, err := s.TotalMultiplier(); !errors.Is(err, parlay.ErrEmptySlip) {
		t.Errorf("expected ErrEmptySlip, got %v", err)
	}
}

func TestValidateExclusive(t *testing.T) {
	ok := []parlay.Odd{winnerHome, possHome, score21}
	if err := parlay.ValidateExclusive(ok); err != nil {
		t.Errorf("valid set rejected: %v", err)
	}

	dup := []parlay.Odd{winnerHome, winnerAway}
	if err := parlay.ValidateExclusive(dup); !errors.Is(err, parlay.ErrDuplicateMarket) {
		t.Errorf("expected ErrDuplicateMarket, got %v", err)
	}

	if err := parlay.ValidateExclusive(nil); !errors.Is(err, parlay.ErrEmptySlip) {
		t.Errorf("expected ErrEmptySlip, got %v", err)
	}
}
