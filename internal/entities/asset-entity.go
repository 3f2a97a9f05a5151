package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"inventory-system/pkg/types"
)

type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "active"
	AssetStatusTransferred AssetStatus = "transferred"
	AssetStatusInRepair    AssetStatus = "in_repair"
	AssetStatusDisposed    AssetStatus = "disposed"
)

func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusActive, AssetStatusTransferred, AssetStatusInRepair, AssetStatusDisposed:
		return true
	}
	return false
}

type Asset struct {
	ID            uint64    `json:"id" db:"id"`
	VoucherNumber string    `json:"voucher_number" db:"voucher_number"`
	Date          time.Time `json:"date" db:"asset_date"`
	Donor         string    `json:"donor" db:"donor"`
	Location      string    `json:"location" db:"location"`

	LossQuantity null.Int64   `json:"loss_quantity" db:"loss_quantity"`
	LossAmount   null.Float64 `json:"loss_amount" db:"loss_amount"`

	HandoverPerson       null.String `json:"handover_person" db:"handover_person"`
	HandoverOrganization null.String `json:"handover_organization" db:"handover_organization"`

	// Намерение передачи (заполняется до фактического Transfer)
	TransferTo     null.String `json:"transfer_to" db:"transfer_to"`
	TransferReason null.String `json:"transfer_reason" db:"transfer_reason"`

	IsDonation   bool        `json:"is_donation" db:"is_donation"`
	ProjectName  string      `json:"project_name" db:"project_name"`
	IsInsured    bool        `json:"is_insured" db:"is_insured"`
	PolicyNumber null.String `json:"policy_number" db:"policy_number"`
	Warranty     null.String `json:"warranty" db:"warranty"`
	Status       AssetStatus `json:"status" db:"status"`

	types.BaseEntity
}

type AssetPatch struct {
	VoucherNumber        *string
	Date                 *time.Time
	Donor                *string
	Location             *string
	LossQuantity         *int64
	LossAmount           *float64
	HandoverPerson       *string
	HandoverOrganization *string
	TransferTo           *string
	TransferReason       *string
	IsDonation           *bool
	ProjectName          *string
	IsInsured            *bool
	PolicyNumber         *string
	Warranty             *string
	Status               *AssetStatus
}

func (p AssetPatch) Apply(a *Asset) {
	if p.VoucherNumber != nil {
		a.VoucherNumber = *p.VoucherNumber
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Donor != nil {
		a.Donor = *p.Donor
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.LossQuantity != nil {
		a.LossQuantity = null.Int64From(*p.LossQuantity)
	}
	if p.LossAmount != nil {
		a.LossAmount = null.Float64From(*p.LossAmount)
	}
	if p.HandoverPerson != nil {
		a.HandoverPerson = null.StringFrom(*p.HandoverPerson)
	}
	if p.HandoverOrganization != nil {
		a.HandoverOrganization = null.StringFrom(*p.HandoverOrganization)
	}
	if p.TransferTo != nil {
		a.TransferTo = null.StringFrom(*p.TransferTo)
	}
	if p.TransferReason != nil {
		a.TransferReason = null.StringFrom(*p.TransferReason)
	}
	if p.IsDonation != nil {
		a.IsDonation = *p.IsDonation
	}
	if p.ProjectName != nil {
		a.ProjectName = *p.ProjectName
	}
	if p.IsInsured != nil {
		a.IsInsured = *p.IsInsured
	}
	if p.PolicyNumber != nil {
		a.PolicyNumber = null.StringFrom(*p.PolicyNumber)
	}
	if p.Warranty != nil {
		a.Warranty = null.StringFrom(*p.Warranty)
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
}

func (p AssetPatch) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if p.VoucherNumber != nil {
		changes["voucher_number"] = *p.VoucherNumber
	}
	if p.Date != nil {
		changes["asset_date"] = *p.Date
	}
	if p.Donor != nil {
		changes["donor"] = *p.Donor
	}
	if p.Location != nil {
		changes["location"] = *p.Location
	}
	if p.LossQuantity != nil {
		changes["loss_quantity"] = *p.LossQuantity
	}
	if p.LossAmount != nil {
		changes["loss_amount"] = *p.LossAmount
	}
	if p.HandoverPerson != nil {
		changes["handover_person"] = *p.HandoverPerson
	}
	if p.HandoverOrganization != nil {
		changes["handover_organization"] = *p.HandoverOrganization
	}
	if p.TransferTo != nil {
		changes["transfer_to"] = *p.TransferTo
	}
	if p.TransferReason != nil {
		changes["transfer_reason"] = *p.TransferReason
	}
	if p.IsDonation != nil {
		changes["is_donation"] = *p.IsDonation
	}
	if p.ProjectName != nil {
		changes["project_name"] = *p.ProjectName
	}
	if p.IsInsured != nil {
		changes["is_insured"] = *p.IsInsured
	}
	if p.PolicyNumber != nil {
		changes["policy_number"] = *p.PolicyNumber
	}
	if p.Warranty != nil {
		changes["warranty"] = *p.Warranty
	}
	if p.Status != nil {
		changes["status"] = string(*p.Status)
	}
	return changes
}
