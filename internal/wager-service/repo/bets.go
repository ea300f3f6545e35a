package repo

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/placarbet/wager-engine/internal/wager-service/parlay"
	"github.com/placarbet/wager-engine/internal/wager-service/wallet"
)

var (
	ErrMatchNotOpen       = errors.New("match is not open for betting")
	ErrMatchAlreadyClosed = errors.New("match already finished")
	ErrOddNotFound        = errors.New("odd not found for this match")
)

// Bets implementa a colocação atômica de apostas e as projeções de leitura.
type Bets struct{ db *sql.DB }

func NewBets(db *sql.DB) *Bets { return &Bets{db: db} }

// TotalOdds recomputa o multiplicador a partir das odds persistidas.
// É a única aritmética de multiplicador do lado do servidor; valores vindos
// do cliente são ignorados.
func TotalOdds(odds []Odd) float64 {
	total := 1.0
	for _, o := range odds {
		total *= o.Value
	}
	return total
}

// PotentialPayoutCents calcula o retorno potencial em centavos,
// arredondado ao centavo mais próximo.
func PotentialPayoutCents(amountCents int64, totalOdds float64) int64 {
	return int64(math.Round(float64(amountCents) * totalOdds))
}

// PlaceBet valida e efetiva uma aposta em uma única transação:
// lock da partida (precisa estar open), releitura das odds, revalidação de
// exclusividade de mercado, débito da carteira sob lock de linha e inserção
// de bets + bet_selections. Qualquer falha desfaz tudo; o saldo não muda.
func (b *Bets) PlaceBet(ctx context.Context, userID, matchID string, amountCents int64, oddIDs []string) (*Bet, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock na linha da partida serializa a colocação contra o finishMatch:
	// ou a aposta entra antes do flip, ou vê finished e é rejeitada.
	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM matches WHERE id=$1 FOR UPDATE`, matchID).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	if status != MatchStatusOpen {
		return nil, ErrMatchNotOpen
	}

	// Relê as odds persistidas; precisam existir e pertencer à partida.
	rows, err := tx.QueryContext(ctx, `
		SELECT id, match_id, market_type, selection, value, probability
		FROM odds
		WHERE id = ANY($1) AND match_id = $2`,
		pq.Array(oddIDs), matchID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Odd, len(oddIDs))
	for rows.Next() {
		var o Odd
		if err := rows.Scan(&o.ID, &o.MatchID, &o.MarketType, &o.Selection, &o.Value, &o.Probability); err != nil {
			rows.Close()
			return nil, err
		}
		byID[o.ID] = o
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserva a ordem das seleções enviadas.
	odds := make([]Odd, 0, len(oddIDs))
	sels := make([]parlay.Odd, 0, len(oddIDs))
	for _, id := range oddIDs {
		o, ok := byID[id]
		if !ok {
			return nil, ErrOddNotFound
		}
		odds = append(odds, o)
		sels = append(sels, parlay.Odd{ID: o.ID, MatchID: o.MatchID, MarketType: o.MarketType, Value: o.Value})
	}

	// Revalidação server-side da regra de exclusividade (nunca confiar no cliente).
	if err := parlay.ValidateExclusive(sels); err != nil {
		return nil, err
	}

	totalOdds := TotalOdds(odds)
	bet := &Bet{
		ID:                   uuid.NewString(),
		UserID:               userID,
		MatchID:              matchID,
		AmountCents:          amountCents,
		TotalOdds:            totalOdds,
		PotentialPayoutCents: PotentialPayoutCents(amountCents, totalOdds),
		Status:               BetStatusPending,
		CreatedAt:            time.Now().UTC(),
	}

	// Débito e checagem de saldo sob o mesmo lock de linha da carteira.
	if err := wallet.DebitTx(ctx, tx, userID, amountCents, bet.ID); err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO bets (id, user_id, match_id, amount_cents, total_odds, potential_payout_cents, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,'pending',$7)`,
		bet.ID, bet.UserID, bet.MatchID, bet.AmountCents, bet.TotalOdds, bet.PotentialPayoutCents, bet.CreatedAt,
	); err != nil {
		return nil, err
	}

	for _, o := range odds {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO bet_selections (id, bet_id, odd_id) VALUES ($1,$2,$3)`,
			uuid.NewString(), bet.ID, o.ID,
		); err != nil {
			return nil, err
		}
		bet.Selections = append(bet.Selections, BetSelection{
			OddID: o.ID, MarketType: o.MarketType, Selection: o.Selection, Value: o.Value,
		})
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return bet, nil
}

// FinishMatch executa o flip open -> finished com o placar informado.
// O lock FOR UPDATE + checagem de status garante que dois gatilhos
// concorrentes colapsam em um: o segundo recebe ErrMatchAlreadyClosed
// e não dispara graduação nenhuma.
// Posse ausente assume 50/50 (empate de posse), como no painel original.
func (b *Bets) FinishMatch(ctx context.Context, matchID string, scoreA, scoreB int, possessionHome, possessionAway *int) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM matches WHERE id=$1 FOR UPDATE`, matchID).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrMatchNotFound
	}
	if err != nil {
		return err
	}
	if status != MatchStatusOpen {
		return ErrMatchAlreadyClosed
	}

	posHome, posAway := 50, 50
	if possessionHome != nil {
		posHome = *possessionHome
	}
	if possessionAway != nil {
		posAway = *possessionAway
	}
	posWinner := SelectionEqual
	switch {
	case posHome > posAway:
		posWinner = SelectionHome
	case posAway > posHome:
		posWinner = SelectionAway
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE matches
		SET status='finished', score_a=$1, score_b=$2,
		    possession_home=$3, possession_away=$4, possession_winner=$5,
		    updated_at=NOW()
		WHERE id=$6`,
		scoreA, scoreB, posHome, posAway, posWinner, matchID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// ListByUser retorna as apostas do usuário com seleções e contexto da partida,
// mais recentes primeiro (espelha a consulta do histórico do dashboard).
func (b *Bets) ListByUser(ctx context.Context, userID string, limit int) ([]Bet, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, user_id, match_id, amount_cents, total_odds, potential_payout_cents, status, created_at
		FROM bets
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bets []Bet
	var ids []string
	for rows.Next() {
		var bt Bet
		if err := rows.Scan(&bt.ID, &bt.UserID, &bt.MatchID, &bt.AmountCents, &bt.TotalOdds,
			&bt.PotentialPayoutCents, &bt.Status, &bt.CreatedAt); err != nil {
			return nil, err
		}
		bets = append(bets, bt)
		ids = append(ids, bt.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bets) == 0 {
		return bets, nil
	}

	selRows, err := b.db.QueryContext(ctx, `
		SELECT bs.bet_id, bs.odd_id, o.market_type, o.selection, o.value
		FROM bet_selections bs
		JOIN odds o ON o.id = bs.odd_id
		WHERE bs.bet_id = ANY($1)
		ORDER BY bs.bet_id, o.market_type`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer selRows.Close()

	byBet := make(map[string][]BetSelection, len(bets))
	for selRows.Next() {
		var betID string
		var s BetSelection
		if err := selRows.Scan(&betID, &s.OddID, &s.MarketType, &s.Selection, &s.Value); err != nil {
			return nil, err
		}
		byBet[betID] = append(byBet[betID], s)
	}
	if err := selRows.Err(); err != nil {
		return nil, err
	}
	for i := range bets {
		bets[i].Selections = byBet[bets[i].ID]
	}
	return bets, nil
}
