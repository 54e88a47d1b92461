package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/swiftdrop/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/swiftdrop/internal/service/wallet"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
	"github.com/Temutjin2k/swiftdrop/pkg/validator"
)

type WalletService interface {
	Balance(ctx context.Context) (int, error)
	TopUp(ctx context.Context, amount int) (int, error)
	RequiredAmount(ctx context.Context) (int, error)
}

type Wallet struct {
	wallet WalletService
	l      logger.Logger
}

func NewWallet(service WalletService, l logger.Logger) *Wallet {
	return &Wallet{
		wallet: service,
		l:      l,
	}
}

// Balance godoc
// @Summary      Wallet balance
// @Description  Returns the balance and any recorded shortfall
// @Tags         Wallet
// @Produce      json
// @Success      200  {object}  map[string]int
// @Security     BearerAuth
// @Router       /v1/wallet [get]
func (h *Wallet) Balance(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_balance")

	balance, err := h.wallet.Balance(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read balance", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	required, err := h.wallet.RequiredAmount(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read required amount", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"balance": balance}
	if required > 0 {
		response["required_amount"] = required
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// TopUp godoc
// @Summary      Top up
// @Description  Credits the wallet and clears any recorded shortfall
// @Tags         Wallet
// @Accept       json
// @Produce      json
// @Param        request body dto.TopUpRequest true "Amount"
// @Success      200  {object}  map[string]int
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/wallet/topup [post]
func (h *Wallet) TopUp(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "wallet_topup")

	req := &dto.TopUpRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateTopUp(v, req, wallet.MinTopUp)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	balance, err := h.wallet.TopUp(ctx, req.Amount)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to top up wallet", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"balance": balance}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}
