package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mselser95/parimutuel-engine/internal/transfer"
	"github.com/mselser95/parimutuel-engine/pkg/types"
	"go.uber.org/zap"
)

// faucetHandler serves the paper-mode funding routes. Deposits mint
// units out of thin air, so they are gated on the system authority the
// same way privileged engine operations are.
type faucetHandler struct {
	*handler
	funder    transfer.Funder
	authority types.Identity
}

type depositRequest struct {
	Amount uint64 `json:"amount"`
}

type balanceResponse struct {
	Account types.Identity `json:"account"`
	Balance uint64         `json:"balance"`
}

func (f *faucetHandler) deposit(w http.ResponseWriter, r *http.Request) {
	caller, ok := f.caller(w, r)
	if !ok {
		return
	}
	if caller != f.authority {
		f.writeErrorMessage(w, http.StatusForbidden, "only the authority can fund accounts")
		return
	}

	owner, err := types.ParseIdentity(chi.URLParam(r, "owner"))
	if err != nil {
		f.writeErrorMessage(w, http.StatusBadRequest, "invalid owner identity")
		return
	}

	var req depositRequest
	if !f.decode(w, r, &req) {
		return
	}
	if req.Amount == 0 {
		f.writeErrorMessage(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	if err := f.funder.Deposit(owner, req.Amount); err != nil {
		f.writeError(w, r, err)
		return
	}

	f.logger.Info("account-funded",
		zap.String("account", owner.Hex()),
		zap.Uint64("amount", req.Amount))

	f.writeJSON(w, http.StatusOK, balanceResponse{
		Account: owner,
		Balance: f.funder.Balance(owner),
	})
}

func (f *faucetHandler) balance(w http.ResponseWriter, r *http.Request) {
	owner, err := types.ParseIdentity(chi.URLParam(r, "owner"))
	if err != nil {
		f.writeErrorMessage(w, http.StatusBadRequest, "invalid owner identity")
		return
	}

	f.writeJSON(w, http.StatusOK, balanceResponse{
		Account: owner,
		Balance: f.funder.Balance(owner),
	})
}
