package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"inventory-system/pkg/types"
)

type RepairStatus string

const (
	RepairStatusInRepair  RepairStatus = "in_repair"
	RepairStatusDiagnosed RepairStatus = "diagnosed"
	RepairStatusCompleted RepairStatus = "completed"
)

func (s RepairStatus) IsValid() bool {
	switch s {
	case RepairStatusInRepair, RepairStatusDiagnosed, RepairStatusCompleted:
		return true
	}
	return false
}

type Repair struct {
	ID                 uint64       `json:"id" db:"id"`
	AssetID            uint64       `json:"asset_id" db:"asset_id"`
	IssueDescription   string       `json:"issue_description" db:"issue_description"`
	RepairCenter       null.String  `json:"repair_center" db:"repair_center"`
	ExpectedReturnDate null.Time    `json:"expected_return_date" db:"expected_return_date"`
	ActualReturnDate   null.Time    `json:"actual_return_date" db:"actual_return_date"`
	Status             RepairStatus `json:"status" db:"status"`
	Cost               null.Float64 `json:"cost" db:"cost"`
	SentDate           time.Time    `json:"sent_date" db:"sent_date"`

	types.BaseEntity
}

type RepairPatch struct {
	IssueDescription   *string
	RepairCenter       *string
	ExpectedReturnDate *time.Time
	ActualReturnDate   *time.Time
	Status             *RepairStatus
	Cost               *float64
	SentDate           *time.Time
}

func (p RepairPatch) Apply(r *Repair) {
	if p.IssueDescription != nil {
		r.IssueDescription = *p.IssueDescription
	}
	if p.RepairCenter != nil {
		r.RepairCenter = null.StringFrom(*p.RepairCenter)
	}
	if p.ExpectedReturnDate != nil {
		r.ExpectedReturnDate = null.TimeFrom(*p.ExpectedReturnDate)
	}
	if p.ActualReturnDate != nil {
		r.ActualReturnDate = null.TimeFrom(*p.ActualReturnDate)
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Cost != nil {
		r.Cost = null.Float64From(*p.Cost)
	}
	if p.SentDate != nil {
		r.SentDate = *p.SentDate
	}
}

func (p RepairPatch) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if p.IssueDescription != nil {
		changes["issue_description"] = *p.IssueDescription
	}
	if p.RepairCenter != nil {
		changes["repair_center"] = *p.RepairCenter
	}
	if p.ExpectedReturnDate != nil {
		changes["expected_return_date"] = *p.ExpectedReturnDate
	}
	if p.ActualReturnDate != nil {
		changes["actual_return_date"] = *p.ActualReturnDate
	}
	if p.Status != nil {
		changes["status"] = string(*p.Status)
	}
	if p.Cost != nil {
		changes["cost"] = *p.Cost
	}
	if p.SentDate != nil {
		changes["sent_date"] = *p.SentDate
	}
	return changes
}
