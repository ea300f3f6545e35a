package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/placarbet/wager-engine/internal/wager-service/parlay"
	"github.com/placarbet/wager-engine/internal/wager-service/repo"
	"github.com/placarbet/wager-engine/internal/wager-service/settlement"
	"github.com/placarbet/wager-engine/internal/wager-service/wallet"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{parlay.ErrDuplicateMarket, http.StatusBadRequest},
		{parlay.ErrEmptySlip, http.StatusBadRequest},
		{repo.ErrMatchNotFound, http.StatusNotFound},
		{repo.ErrPlayerNotFound, http.StatusNotFound},
		{wallet.ErrWalletNotFound, http.StatusNotFound},
		{repo.ErrMatchNotOpen, http.StatusConflict},
		{repo.ErrMatchAlreadyClosed, http.StatusConflict},
		{repo.ErrOddNotFound, http.StatusConflict},
		{wallet.ErrInsufficientFunds, http.StatusConflict},
		{settlement.ErrMatchStillOpen, http.StatusConflict},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
