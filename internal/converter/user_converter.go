package converter

import (
	"doctor-booking/internal/delivery/dto"
	"doctor-booking/internal/domain/entity"
)

// UserToWalletResponse converts a User entity to WalletResponse DTO
func UserToWalletResponse(user *entity.User) *dto.WalletResponse {
	if user == nil {
		return nil
	}

	return &dto.WalletResponse{
		UserID:  user.ID,
		Balance: user.Balance,
	}
}
