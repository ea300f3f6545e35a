package settlement

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/placarbet/wager-engine/internal/wager-service/repo"
	"github.com/placarbet/wager-engine/internal/wager-service/wallet"
	"github.com/placarbet/wager-engine/pkg/contracts/events"
)

var ErrMatchStillOpen = errors.New("match is still open")

// Publisher emite o evento de aposta graduada (entrega é best-effort;
// o estado do banco é a fonte de verdade).
type Publisher interface {
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// Grader percorre as apostas pendentes de uma partida finalizada e gradua
// cada uma em transação própria: falha em um bilhete não derruba os demais,
// e o guard status='pending' torna a passada idempotente.
type Grader struct {
	db   *sql.DB
	log  *zap.Logger
	publ Publisher // opcional
}

func NewGrader(db *sql.DB, log *zap.Logger, publ Publisher) *Grader {
	return &Grader{db: db, log: log, publ: publ}
}

// Summary resume uma passada de graduação para o operador.
type Summary struct {
	MatchID string `json:"match_id"`
	Graded  int    `json:"graded"`
	Won     int    `json:"won"`
	Lost    int    `json:"lost"`
	Failed  int    `json:"failed"` // apostas deixadas pending por dado malformado
}

// GradeMatch carrega o snapshot final da partida e gradua todas as apostas
// pendentes. Pode ser re-executado com segurança: apostas já graduadas são
// no-op, e só as deixadas pending por falha anterior são reprocessadas.
func (g *Grader) GradeMatch(ctx context.Context, matchID string) (Summary, error) {
	sum := Summary{MatchID: matchID}

	// O flip open->finished já foi commitado antes desta leitura, então o
	// snapshot do placar é consistente e final.
	var status string
	var res Result
	err := g.db.QueryRowContext(ctx, `
		SELECT status, COALESCE(score_a,0), COALESCE(score_b,0),
		       COALESCE(possession_home,50), COALESCE(possession_away,50)
		FROM matches WHERE id=$1`, matchID).
		Scan(&status, &res.ScoreA, &res.ScoreB, &res.PossessionHome, &res.PossessionAway)
	if err == sql.ErrNoRows {
		return sum, repo.ErrMatchNotFound
	}
	if err != nil {
		return sum, err
	}
	if status != repo.MatchStatusFinished {
		return sum, ErrMatchStillOpen
	}

	rows, err := g.db.QueryContext(ctx, `
		SELECT id FROM bets WHERE match_id=$1 AND status='pending'`, matchID)
	if err != nil {
		return sum, err
	}
	var betIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return sum, err
		}
		betIDs = append(betIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return sum, err
	}

	for _, betID := range betIDs {
		settled, err := g.gradeOne(ctx, betID, res)
		if err != nil {
			// Isolamento por aposta: registra, deixa pending e segue o lote.
			sum.Failed++
			g.log.Error("grade bet failed",
				zap.String("betId", betID),
				zap.String("matchId", matchID),
				zap.Error(err),
			)
			continue
		}
		if settled == nil {
			continue // outro gatilho graduou antes; no-op
		}

		sum.Graded++
		if settled.Status == repo.BetStatusWon {
			sum.Won++
		} else {
			sum.Lost++
		}

		if g.publ != nil {
			evt := events.BetSettled{
				BetID:       betID,
				UserID:      settled.UserID,
				MatchID:     matchID,
				Status:      settled.Status,
				PayoutCents: settled.PayoutCents,
				Ts:          time.Now(),
			}
			if err := g.publ.PublishBetSettled(ctx, evt); err != nil {
				g.log.Warn("publish bet_settled", zap.String("betId", betID), zap.Error(err))
			}
		}
	}

	return sum, nil
}

type settledBet struct {
	UserID      string
	Status      string
	PayoutCents int64
}

// gradeOne gradua uma única aposta em transação própria.
// Retorna nil quando a aposta já não estava pending (idempotência).
func (g *Grader) gradeOne(ctx context.Context, betID string, res Result) (*settledBet, error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var userID string
	var payout int64
	var status string
	err = tx.QueryRowContext(ctx, `
		SELECT user_id, potential_payout_cents, status
		FROM bets WHERE id=$1 FOR UPDATE`, betID).
		Scan(&userID, &payout, &status)
	if err != nil {
		return nil, err
	}
	if status != repo.BetStatusPending {
		return nil, nil
	}

	selRows, err := tx.QueryContext(ctx, `
		SELECT bs.odd_id, o.market_type, o.selection, o.value
		FROM bet_selections bs
		JOIN odds o ON o.id = bs.odd_id
		WHERE bs.bet_id=$1`, betID)
	if err != nil {
		return nil, err
	}
	var sels []repo.BetSelection
	for selRows.Next() {
		var s repo.BetSelection
		if err := selRows.Scan(&s.OddID, &s.MarketType, &s.Selection, &s.Value); err != nil {
			selRows.Close()
			return nil, err
		}
		sels = append(sels, s)
	}
	selRows.Close()
	if err := selRows.Err(); err != nil {
		return nil, err
	}

	won, err := EvaluateBet(sels, res)
	if err != nil {
		return nil, err
	}

	out := &settledBet{UserID: userID, Status: repo.BetStatusLost}
	if won {
		out.Status = repo.BetStatusWon
		out.PayoutCents = payout
		// Crédito do prêmio na mesma transação da mudança de status:
		// ou a aposta vira won com saldo creditado, ou nada acontece.
		if err := wallet.CreditTx(ctx, tx, userID, payout, betID); err != nil {
			return nil, err
		}
	}

	// O guard status='pending' garante no máximo uma graduação por aposta
	// mesmo com gatilhos duplicados.
	r, err := tx.ExecContext(ctx, `
		UPDATE bets SET status=$1, updated_at=NOW()
		WHERE id=$2 AND status='pending'`, out.Status, betID)
	if err != nil {
		return nil, err
	}
	if n, _ := r.RowsAffected(); n == 0 {
		return nil, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}
