package handler

import (
	"net/http"

	"doctor-booking/internal/delivery/dto"
	"doctor-booking/internal/usecase"
	"doctor-booking/pkg/response"
	"doctor-booking/pkg/validator"
)

type WalletHandler struct {
	walletUsecase usecase.WalletUsecase
	validator     *validator.CustomValidator
}

func NewWalletHandler(walletUsecase usecase.WalletUsecase, validator *validator.CustomValidator) *WalletHandler {
	return &WalletHandler{
		walletUsecase: walletUsecase,
		validator:     validator,
	}
}

func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	wallet, err := h.walletUsecase.GetBalance(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Wallet retrieved successfully", wallet)
}

func (h *WalletHandler) Charge(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.ChargeWalletRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	wallet, err := h.walletUsecase.ChargeWallet(r.Context(), userID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Wallet charged successfully", wallet)
}
