// Package settlement gradua apostas pendentes contra o resultado gravado
// de uma partida finalizada. Semântica de múltipla: toda seleção precisa
// acertar; um erro derruba o bilhete inteiro.
package settlement

import (
	"fmt"

	"github.com/placarbet/wager-engine/internal/wager-service/repo"
)

// Result é o snapshot final da partida usado na graduação.
// A posse ausente já chega normalizada em 50/50 pelo repositório.
type Result struct {
	ScoreA         int
	ScoreB         int
	PossessionHome int
	PossessionAway int
}

// Winner devolve o desfecho do mercado de vencedor: home, away ou draw.
func (r Result) Winner() string {
	switch {
	case r.ScoreA > r.ScoreB:
		return repo.SelectionHome
	case r.ScoreB > r.ScoreA:
		return repo.SelectionAway
	default:
		return repo.SelectionDraw
	}
}

// PossessionWinner devolve o desfecho do mercado de posse (empate => equal).
func (r Result) PossessionWinner() string {
	switch {
	case r.PossessionHome > r.PossessionAway:
		return repo.SelectionHome
	case r.PossessionAway > r.PossessionHome:
		return repo.SelectionAway
	default:
		return repo.SelectionEqual
	}
}

// ExactScore devolve o placar no formato "a-b" usado pelas seleções.
func (r Result) ExactScore() string {
	return fmt.Sprintf("%d-%d", r.ScoreA, r.ScoreB)
}

// EvaluateSelection decide se uma seleção acertou o resultado.
// Mercado desconhecido é dado malformado: erro isolado por aposta,
// nunca aborta o lote.
func EvaluateSelection(marketType, selection string, r Result) (bool, error) {
	switch marketType {
	case repo.MarketMatchWinner:
		return selection == r.Winner(), nil
	case repo.MarketPossession:
		return selection == r.PossessionWinner(), nil
	case repo.MarketExactScore:
		return selection == r.ExactScore(), nil
	default:
		return false, fmt.Errorf("unknown market type %q", marketType)
	}
}

// EvaluateBet aplica a semântica de múltipla: ganha se, e somente se,
// todas as seleções acertam. Bilhete sem seleções é malformado.
func EvaluateBet(selections []repo.BetSelection, r Result) (bool, error) {
	if len(selections) == 0 {
		return false, fmt.Errorf("bet has no selections")
	}
	for _, s := range selections {
		hit, err := EvaluateSelection(s.MarketType, s.Selection, r)
		if err != nil {
			return false, err
		}
		if !hit {
			return false, nil
		}
	}
	return true, nil
}
