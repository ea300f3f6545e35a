package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrPlayerNotFound = errors.New("player not found")
)

// Catalog implementa a persistência de jogadores, partidas e odds.
// É o único dono do ciclo de vida Match/Odd.
type Catalog struct{ db *sql.DB }

func NewCatalog(db *sql.DB) *Catalog { return &Catalog{db: db} }

// CreatePlayer insere um jogador. A categoria (casa/visitante) é coletada
// pelo painel do operador mas não alimenta nenhuma regra do motor.
func (c *Catalog) CreatePlayer(ctx context.Context, name, category string) (*Player, error) {
	p := &Player{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO players (id, name, category, created_at)
		VALUES ($1,$2,$3,$4)`,
		p.ID, p.Name, p.Category, p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (c *Catalog) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, category, created_at FROM players ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// HeadToHead conta os confrontos diretos já finalizados entre dois jogadores,
// nas duas orientações casa/visitante. Alimenta o gerador de odds.
func (c *Catalog) HeadToHead(ctx context.Context, playerAID, playerBID string) (winsA, winsB, draws int, err error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT player_a_id, score_a, score_b
		FROM matches
		WHERE status = 'finished'
		  AND ((player_a_id = $1 AND player_b_id = $2)
		    OR (player_a_id = $2 AND player_b_id = $1))`,
		playerAID, playerBID,
	)
	if err != nil {
		return 0, 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var homeID string
		var sa, sb int
		if err := rows.Scan(&homeID, &sa, &sb); err != nil {
			return 0, 0, 0, err
		}
		switch {
		case sa == sb:
			draws++
		case (sa > sb) == (homeID == playerAID):
			winsA++
		default:
			winsB++
		}
	}
	return winsA, winsB, draws, rows.Err()
}

// CreateMatchWithOdds cria a partida em estado open e persiste todas as odds
// na mesma transação: a partida nunca fica visível sem os mercados prontos.
// quotes chega sem id/match_id; o repositório preenche.
func (c *Catalog) CreateMatchWithOdds(ctx context.Context, playerAID, playerBID, gameType string, scheduledAt time.Time, quotes []Odd) (*Match, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	m := &Match{
		ID:          uuid.NewString(),
		PlayerAID:   playerAID,
		PlayerBID:   playerBID,
		GameType:    gameType,
		ScheduledAt: scheduledAt,
		Status:      MatchStatusOpen,
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO matches (id, player_a_id, player_b_id, game_type, scheduled_at, status)
		VALUES ($1,$2,$3,$4,$5,'open')`,
		m.ID, m.PlayerAID, m.PlayerBID, m.GameType, m.ScheduledAt,
	); err != nil {
		if isFKViolation(err) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO odds (id, match_id, market_type, selection, value, probability)
		VALUES ($1,$2,$3,$4,$5,$6)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for i := range quotes {
		quotes[i].ID = uuid.NewString()
		quotes[i].MatchID = m.ID
		q := quotes[i]
		if _, err = stmt.ExecContext(ctx, q.ID, q.MatchID, q.MarketType, q.Selection, q.Value, q.Probability); err != nil {
			return nil, err
		}
	}
	m.Odds = quotes

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMatches retorna partidas com nomes dos jogadores e odds, mais recentes
// primeiro. status vazio lista todas.
func (c *Catalog) ListMatches(ctx context.Context, status string) ([]Match, error) {
	q := `
		SELECT m.id, m.player_a_id, m.player_b_id, pa.name, pb.name,
		       m.game_type, m.scheduled_at, m.status,
		       m.score_a, m.score_b, m.possession_home, m.possession_away, m.possession_winner
		FROM matches m
		JOIN players pa ON pa.id = m.player_a_id
		JOIN players pb ON pb.id = m.player_b_id`
	args := []any{}
	if status != "" {
		q += ` WHERE m.status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY m.scheduled_at DESC`

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	var ids []string
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.PlayerAID, &m.PlayerBID, &m.PlayerAName, &m.PlayerBName,
			&m.GameType, &m.ScheduledAt, &m.Status,
			&m.ScoreA, &m.ScoreB, &m.PossessionHome, &m.PossessionAway, &m.PossessionWinner); err != nil {
			return nil, err
		}
		matches = append(matches, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return matches, nil
	}

	oddRows, err := c.db.QueryContext(ctx, `
		SELECT id, match_id, market_type, selection, value, probability
		FROM odds
		WHERE match_id = ANY($1)
		ORDER BY market_type, selection`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer oddRows.Close()

	byMatch := make(map[string][]Odd, len(matches))
	for oddRows.Next() {
		var o Odd
		if err := oddRows.Scan(&o.ID, &o.MatchID, &o.MarketType, &o.Selection, &o.Value, &o.Probability); err != nil {
			return nil, err
		}
		byMatch[o.MatchID] = append(byMatch[o.MatchID], o)
	}
	if err := oddRows.Err(); err != nil {
		return nil, err
	}
	for i := range matches {
		matches[i].Odds = byMatch[matches[i].ID]
	}
	return matches, nil
}

// isFKViolation detecta violação de chave estrangeira do Postgres (23503)
func isFKViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
