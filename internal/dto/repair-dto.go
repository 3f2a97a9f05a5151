package dto

type CreateRepairDTO struct {
	AssetID            uint64   `json:"asset_id" validate:"required,gt=0"`
	IssueDescription   string   `json:"issue_description" validate:"required,max=2000"`
	RepairCenter       *string  `json:"repair_center" validate:"omitempty,max=255"`
	ExpectedReturnDate *string  `json:"expected_return_date"`
	Status             *string  `json:"status" validate:"omitempty,repair_status"`
	Cost               *float64 `json:"cost" validate:"omitempty,gte=0"`
	SentDate           string   `json:"sent_date" validate:"required"`
}

type UpdateRepairDTO struct {
	IssueDescription   *string  `json:"issue_description" validate:"omitempty,max=2000"`
	RepairCenter       *string  `json:"repair_center" validate:"omitempty,max=255"`
	ExpectedReturnDate *string  `json:"expected_return_date"`
	ActualReturnDate   *string  `json:"actual_return_date"`
	Status             *string  `json:"status" validate:"omitempty,repair_status"`
	Cost               *float64 `json:"cost" validate:"omitempty,gte=0"`
	SentDate           *string  `json:"sent_date"`
}

type CompleteRepairDTO struct {
	ActualReturnDate *string  `json:"actual_return_date"`
	Cost             *float64 `json:"cost" validate:"omitempty,gte=0"`
}
