package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Transfer - запись журнала перемещений. Только добавление, без изменений и удаления.
type Transfer struct {
	ID            uint64      `json:"id" db:"id"`
	AssetID       uint64      `json:"asset_id" db:"asset_id"`
	FromLocation  string      `json:"from_location" db:"from_location"`
	ToLocation    string      `json:"to_location" db:"to_location"`
	FromCustodian string      `json:"from_custodian" db:"from_custodian"`
	ToCustodian   string      `json:"to_custodian" db:"to_custodian"`
	Organization  null.String `json:"organization" db:"organization"`
	Reason        null.String `json:"reason" db:"reason"`
	TransferDate  time.Time   `json:"transfer_date" db:"transfer_date"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}
