package dto

import "inventory-system/internal/entities"

// LoginDTO - поле email принимает и email, и имя пользователя.
type LoginDTO struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

type RegisterDTO struct {
	Username       string  `json:"username" validate:"required,login"`
	Email          string  `json:"email" validate:"required,email,max=255"`
	Password       string  `json:"password" validate:"required,min=6,max=72"`
	Department     *string `json:"department" validate:"omitempty,max=255"`
	InvitationCode *string `json:"invitationCode" validate:"omitempty,max=100"`
}

type AuthResponseDTO struct {
	Token     string              `json:"token"`
	ExpiresIn int64               `json:"expires_in"`
	User      entities.PublicUser `json:"user"`
}
