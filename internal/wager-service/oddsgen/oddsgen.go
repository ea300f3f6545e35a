// Package oddsgen deriva as odds do mercado de vencedor a partir do
// histórico de confrontos diretos e emite os mercados auxiliares de preço
// fixo (posse de bola e placar exato).
package oddsgen

import "math"

// Config controla a margem da casa embutida nas odds geradas.
type Config struct {
	Margin float64 // overround: probabilidades implícitas somam 1+Margin
	MinOdd float64 // piso da odd decimal (multiplicador >= 1.0 por invariante)
}

func DefaultConfig() Config {
	return Config{Margin: 0.05, MinOdd: 1.01}
}

// History resume os confrontos diretos finalizados entre os dois jogadores,
// na orientação do jogador A da nova partida.
type History struct {
	WinsA int
	WinsB int
	Draws int
}

func (h History) Total() int { return h.WinsA + h.WinsB + h.Draws }

// MatchWinner é o trio de odds/probabilidades do mercado de vencedor.
// As probabilidades somam 1; as odds carregam a margem configurada.
type MatchWinner struct {
	OddA     float64
	OddB     float64
	OddDraw  float64
	ProbA    float64
	ProbB    float64
	ProbDraw float64
}

// Quote é uma odd pronta para persistência (sem id/match ainda).
type Quote struct {
	MarketType  string
	Selection   string
	Value       float64
	Probability float64
}

// Fallback é o trio fixo usado quando não há histórico ou o cálculo falha.
// Faz parte do contrato, não é caminho de erro: o chamador nunca bloqueia
// na geração de odds.
func Fallback() MatchWinner {
	return MatchWinner{
		OddA: 1.90, OddB: 2.50, OddDraw: 3.00,
		ProbA: 0.5, ProbB: 0.2, ProbDraw: 0.3,
	}
}

// FromHistory estima as probabilidades com suavização de Laplace
// (um pseudo-resultado por desfecho, o prior não-informativo) e converte em
// odds decimais com a margem da casa: odd = 1 / (p * (1 + margin)).
// Histórico vazio cai no Fallback.
func FromHistory(h History, cfg Config) MatchWinner {
	if h.Total() == 0 {
		return Fallback()
	}

	n := float64(h.Total() + 3)
	pA := float64(h.WinsA+1) / n
	pB := float64(h.WinsB+1) / n
	pDraw := float64(h.Draws+1) / n

	return MatchWinner{
		ProbA: pA, ProbB: pB, ProbDraw: pDraw,
		OddA:    toOdd(pA, cfg),
		OddB:    toOdd(pB, cfg),
		OddDraw: toOdd(pDraw, cfg),
	}
}

func toOdd(p float64, cfg Config) float64 {
	odd := 1.0 / (p * (1.0 + cfg.Margin))
	odd = math.Round(odd*100) / 100
	if odd < cfg.MinOdd {
		odd = cfg.MinOdd
	}
	return odd
}

// Markets monta as quotes das três famílias de mercado para uma nova partida:
// o trio calculado de vencedor, posse de bola a preço fixo e a tabela fixa de
// placares exatos. Tudo deve ser persistido antes da partida ficar visível.
func Markets(mw MatchWinner) []Quote {
	quotes := []Quote{
		{MarketType: "match_winner", Selection: "home", Value: mw.OddA, Probability: mw.ProbA},
		{MarketType: "match_winner", Selection: "draw", Value: mw.OddDraw, Probability: mw.ProbDraw},
		{MarketType: "match_winner", Selection: "away", Value: mw.OddB, Probability: mw.ProbB},

		// Posse de bola: lados a 1.85 e empate de posse a 8.00
		{MarketType: "possession", Selection: "home", Value: 1.85, Probability: 0.5},
		{MarketType: "possession", Selection: "away", Value: 1.85, Probability: 0.5},
		{MarketType: "possession", Selection: "equal", Value: 8.00, Probability: 0.1},
	}

	return append(quotes, exactScoreTable()...)
}

// exactScoreTable é a tabela fixa de oito placares comuns, independente do
// modelo estatístico.
func exactScoreTable() []Quote {
	return []Quote{
		{MarketType: "exact_score", Selection: "1-0", Value: 5.00, Probability: 0.15},
		{MarketType: "exact_score", Selection: "0-1", Value: 6.00, Probability: 0.12},
		{MarketType: "exact_score", Selection: "1-1", Value: 5.50, Probability: 0.14},
		{MarketType: "exact_score", Selection: "2-0", Value: 7.50, Probability: 0.10},
		{MarketType: "exact_score", Selection: "0-2", Value: 8.50, Probability: 0.08},
		{MarketType: "exact_score", Selection: "2-1", Value: 8.00, Probability: 0.10},
		{MarketType: "exact_score", Selection: "1-2", Value: 8.50, Probability: 0.09},
		{MarketType: "exact_score", Selection: "0-0", Value: 9.00, Probability: 0.08},
	}
}
