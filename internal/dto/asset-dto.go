package dto

// Даты передаются строкой "YYYY-MM-DD" и разбираются в сервисе.
type CreateAssetDTO struct {
	VoucherNumber        string   `json:"voucher_number" validate:"required,voucher"`
	Date                 string   `json:"date" validate:"required"`
	Donor                string   `json:"donor" validate:"required,max=255"`
	Location             string   `json:"location" validate:"required,max=255"`
	LossQuantity         *int64   `json:"loss_quantity" validate:"omitempty,gte=0"`
	LossAmount           *float64 `json:"loss_amount" validate:"omitempty,gte=0"`
	HandoverPerson       *string  `json:"handover_person" validate:"omitempty,max=255"`
	HandoverOrganization *string  `json:"handover_organization" validate:"omitempty,max=255"`
	TransferTo           *string  `json:"transfer_to" validate:"omitempty,max=255"`
	TransferReason       *string  `json:"transfer_reason" validate:"omitempty,max=1000"`
	IsDonation           bool     `json:"is_donation"`
	ProjectName          string   `json:"project_name" validate:"max=255"`
	IsInsured            bool     `json:"is_insured"`
	PolicyNumber         *string  `json:"policy_number" validate:"omitempty,max=100"`
	Warranty             *string  `json:"warranty" validate:"omitempty,max=255"`
	Status               *string  `json:"status" validate:"omitempty,asset_status"`
}

type UpdateAssetDTO struct {
	VoucherNumber        *string  `json:"voucher_number" validate:"omitempty,voucher"`
	Date                 *string  `json:"date"`
	Donor                *string  `json:"donor" validate:"omitempty,max=255"`
	Location             *string  `json:"location" validate:"omitempty,max=255"`
	LossQuantity         *int64   `json:"loss_quantity" validate:"omitempty,gte=0"`
	LossAmount           *float64 `json:"loss_amount" validate:"omitempty,gte=0"`
	HandoverPerson       *string  `json:"handover_person" validate:"omitempty,max=255"`
	HandoverOrganization *string  `json:"handover_organization" validate:"omitempty,max=255"`
	TransferTo           *string  `json:"transfer_to" validate:"omitempty,max=255"`
	TransferReason       *string  `json:"transfer_reason" validate:"omitempty,max=1000"`
	IsDonation           *bool    `json:"is_donation"`
	ProjectName          *string  `json:"project_name" validate:"omitempty,max=255"`
	IsInsured            *bool    `json:"is_insured"`
	PolicyNumber         *string  `json:"policy_number" validate:"omitempty,max=100"`
	Warranty             *string  `json:"warranty" validate:"omitempty,max=255"`
	Status               *string  `json:"status" validate:"omitempty,asset_status"`
}
