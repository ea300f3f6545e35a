package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/placarbet/wager-engine/internal/wager-service/cache"
	"github.com/placarbet/wager-engine/internal/wager-service/dto"
	"github.com/placarbet/wager-engine/internal/wager-service/oddsgen"
	"github.com/placarbet/wager-engine/internal/wager-service/parlay"
	"github.com/placarbet/wager-engine/internal/wager-service/repo"
	"github.com/placarbet/wager-engine/internal/wager-service/settlement"
	"github.com/placarbet/wager-engine/internal/wager-service/wallet"
	"github.com/placarbet/wager-engine/internal/wager-service/ws"
	"github.com/placarbet/wager-engine/pkg/contracts/events"
)

// Publisher emite os eventos de domínio do motor (entrega best-effort).
type Publisher interface {
	PublishMatchCreated(ctx context.Context, e events.MatchCreated) error
	PublishMatchFinished(ctx context.Context, e events.MatchFinished) error
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
}

// Server expõe a API REST do motor de apostas.
type Server struct {
	log     *zap.Logger
	catalog *repo.Catalog
	bets    *repo.Bets
	wallet  *wallet.Postgres
	grader  *settlement.Grader
	cache   *cache.Cache
	publ    Publisher
	hub     *ws.Hub
	oddsCfg oddsgen.Config
}

func NewServer(log *zap.Logger, c *repo.Catalog, b *repo.Bets, w *wallet.Postgres,
	g *settlement.Grader, mc *cache.Cache, p Publisher, hub *ws.Hub, oddsCfg oddsgen.Config) *Server {
	return &Server{
		log: log, catalog: c, bets: b, wallet: w,
		grader: g, cache: mc, publ: p, hub: hub, oddsCfg: oddsCfg,
	}
}

// Router retorna o roteador HTTP com os endpoints da API
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/v1/players", s.createPlayer) // operador
	r.Get("/v1/players", s.listPlayers)

	r.Post("/v1/matches", s.createMatch)              // operador; gera os três mercados
	r.Get("/v1/matches", s.listMatches)               // ?status=open|finished (default open)
	r.Post("/v1/matches/{id}/finish", s.finishMatch)  // operador; dispara liquidação
	r.Post("/v1/matches/{id}/settle", s.settleMatch)  // re-executa graduação pendente

	r.Post("/v1/bets", s.placeBet)
	r.Get("/v1/bets", s.listBets) // ?userId=...

	r.Get("/v1/wallet", s.getWallet)       // ?userId=...
	r.Post("/v1/wallet/deposit", s.deposit)

	r.Get("/ws", s.hub.HandleWS)

	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

// statusFor mapeia a taxonomia de erros do motor para códigos HTTP:
// entrada inválida => 400, recurso inexistente => 404, conflito atômico
// (sem efeito parcial) => 409, resto => 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, parlay.ErrDuplicateMarket),
		errors.Is(err, parlay.ErrEmptySlip):
		return http.StatusBadRequest
	case errors.Is(err, repo.ErrMatchNotFound),
		errors.Is(err, repo.ErrPlayerNotFound),
		errors.Is(err, wallet.ErrWalletNotFound):
		return http.StatusNotFound
	case errors.Is(err, repo.ErrMatchNotOpen),
		errors.Is(err, repo.ErrMatchAlreadyClosed),
		errors.Is(err, repo.ErrOddNotFound),
		errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, settlement.ErrMatchStillOpen):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) createPlayer(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.Category == "" {
		req.Category = "home"
	}
	p, err := s.catalog.CreatePlayer(r.Context(), req.Name, req.Category)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.catalog.ListPlayers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// createMatch cria a partida e popula os três mercados na mesma transação.
// Falha na estatística de confrontos diretos nunca bloqueia a criação:
// o trio de fallback assume (contrato do gerador de odds).
func (s *Server) createMatch(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.PlayerAID == "" || req.PlayerBID == "" || req.GameType == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.PlayerAID == req.PlayerBID {
		writeError(w, http.StatusBadRequest, "players must be distinct")
		return
	}
	if req.ScheduledAt.IsZero() {
		req.ScheduledAt = time.Now().UTC()
	}

	mw := oddsgen.Fallback()
	winsA, winsB, draws, err := s.catalog.HeadToHead(r.Context(), req.PlayerAID, req.PlayerBID)
	if err != nil {
		s.log.Warn("head-to-head lookup failed, using fallback odds", zap.Error(err))
	} else {
		mw = oddsgen.FromHistory(oddsgen.History{WinsA: winsA, WinsB: winsB, Draws: draws}, s.oddsCfg)
	}

	var quotes []repo.Odd
	for _, q := range oddsgen.Markets(mw) {
		quotes = append(quotes, repo.Odd{
			MarketType:  q.MarketType,
			Selection:   q.Selection,
			Value:       q.Value,
			Probability: q.Probability,
		})
	}

	m, err := s.catalog.CreateMatchWithOdds(r.Context(), req.PlayerAID, req.PlayerBID, req.GameType, req.ScheduledAt, quotes)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	_ = s.cache.Invalidate(r.Context())
	_ = s.publ.PublishMatchCreated(r.Context(), events.MatchCreated{
		MatchID:     m.ID,
		PlayerAID:   m.PlayerAID,
		PlayerBID:   m.PlayerBID,
		GameType:    m.GameType,
		ScheduledAt: m.ScheduledAt,
	})

	writeJSON(w, http.StatusCreated, m)
}

// listMatches retorna a projeção de partidas com odds.
// A lista de abertas sai do cache quando possível (TTL curto; odds imutáveis).
func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = repo.MatchStatusOpen
	}

	if status == repo.MatchStatusOpen {
		var cached []repo.Match
		if ok, _ := s.cache.GetOpenMatches(r.Context(), &cached); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	matches, err := s.catalog.ListMatches(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if status == repo.MatchStatusOpen {
		_ = s.cache.SetOpenMatches(r.Context(), matches, 30*time.Second)
	}
	writeJSON(w, http.StatusOK, matches)
}

// finishMatch grava o placar, executa o flip open -> finished e dispara a
// liquidação síncrona de todas as apostas pendentes da partida.
func (s *Server) finishMatch(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "id")

	var req dto.FinishMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.ScoreA == nil || req.ScoreB == nil {
		writeError(w, http.StatusBadRequest, "scoreA and scoreB required")
		return
	}
	if *req.ScoreA < 0 || *req.ScoreB < 0 {
		writeError(w, http.StatusBadRequest, "scores must be non-negative")
		return
	}

	if err := s.bets.FinishMatch(r.Context(), matchID, *req.ScoreA, *req.ScoreB, req.PossessionHome, req.PossessionAway); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	_ = s.cache.Invalidate(r.Context())

	posHome, posAway := 50, 50
	if req.PossessionHome != nil {
		posHome = *req.PossessionHome
	}
	if req.PossessionAway != nil {
		posAway = *req.PossessionAway
	}
	res := settlement.Result{ScoreA: *req.ScoreA, ScoreB: *req.ScoreB, PossessionHome: posHome, PossessionAway: posAway}
	_ = s.publ.PublishMatchFinished(r.Context(), events.MatchFinished{
		MatchID:          matchID,
		ScoreA:           res.ScoreA,
		ScoreB:           res.ScoreB,
		PossessionHome:   res.PossessionHome,
		PossessionAway:   res.PossessionAway,
		PossessionWinner: res.PossessionWinner(),
	})

	sum, err := s.grader.GradeMatch(r.Context(), matchID)
	if err != nil {
		// O flip já foi commitado; o operador pode reprocessar via /settle.
		s.log.Error("grading failed after finish", zap.String("matchId", matchID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "match finished but grading failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FinishMatchResponse{
		MatchID:    matchID,
		Status:     repo.MatchStatusFinished,
		Settlement: sum,
	})
}

// settleMatch re-executa a graduação para apostas deixadas pending por uma
// falha anterior. Apostas já graduadas são no-op (guard por status).
func (s *Server) settleMatch(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "id")
	sum, err := s.grader.GradeMatch(r.Context(), matchID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// placeBet valida e efetiva a aposta em unidade atômica única (ver repo.PlaceBet).
func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || req.MatchID == "" {
		writeError(w, http.StatusBadRequest, "userId and matchId required")
		return
	}
	if req.AmountCents <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if len(req.OddIDs) == 0 {
		writeError(w, http.StatusBadRequest, "at least one selection required")
		return
	}

	bet, err := s.bets.PlaceBet(r.Context(), req.UserID, req.MatchID, req.AmountCents, req.OddIDs)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	_ = s.publ.PublishBetPlaced(r.Context(), events.BetPlaced{
		BetID:                bet.ID,
		UserID:               bet.UserID,
		MatchID:              bet.MatchID,
		AmountCents:          bet.AmountCents,
		TotalOdds:            bet.TotalOdds,
		PotentialPayoutCents: bet.PotentialPayoutCents,
		OddIDs:               req.OddIDs,
	})

	writeJSON(w, http.StatusCreated, bet)
}

// listBets retorna o histórico do usuário, mais recente primeiro.
func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	bets, err := s.bets.ListByUser(r.Context(), userID, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, bets)
}

// getWallet retorna (ou cria) a carteira e saldo do usuário
func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	walletID, bal, err := s.wallet.GetOrCreateWallet(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.WalletResponse{UserID: userID, WalletID: walletID, BalanceCents: bal})
}

// deposit adiciona saldo à carteira do usuário
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || req.AmountCents <= 0 {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	walletID, bal, err := s.wallet.Deposit(r.Context(), req.UserID, req.AmountCents, req.ExternalRef)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.WalletResponse{UserID: req.UserID, WalletID: walletID, BalanceCents: bal})
}
