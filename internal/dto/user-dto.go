package dto

type CreateUserDTO struct {
	Username   string  `json:"username" validate:"required,login"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Password   string  `json:"password" validate:"required,min=6,max=72"`
	Role       string  `json:"role" validate:"omitempty,app_role"`
	Department *string `json:"department" validate:"omitempty,max=255"`
	IsActive   *bool   `json:"is_active"`
}

type UpdateUserDTO struct {
	Username   *string `json:"username" validate:"omitempty,login"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Password   *string `json:"password" validate:"omitempty,min=6,max=72"`
	Role       *string `json:"role" validate:"omitempty,app_role"`
	Department *string `json:"department" validate:"omitempty,max=255"`
	IsActive   *bool   `json:"is_active"`
}
