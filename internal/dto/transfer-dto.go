package dto

type CreateTransferDTO struct {
	AssetID       uint64  `json:"asset_id" validate:"required,gt=0"`
	FromLocation  string  `json:"from_location" validate:"required,max=255"`
	ToLocation    string  `json:"to_location" validate:"required,max=255"`
	FromCustodian string  `json:"from_custodian" validate:"required,max=255"`
	ToCustodian   string  `json:"to_custodian" validate:"required,max=255"`
	Organization  *string `json:"organization" validate:"omitempty,max=255"`
	Reason        *string `json:"reason" validate:"omitempty,max=1000"`
	TransferDate  string  `json:"transfer_date" validate:"required"`
}
