package dto

import "github.com/google/uuid"

// Request DTOs

type ChargeWalletRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// Response DTOs

type WalletResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Balance int64     `json:"balance"`
}
