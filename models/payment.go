package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// PaymentPurpose is an admin-managed fee line (Post-UTME form, acceptance
// fee, result checking, ...) a candidate can pay for.
type PaymentPurpose struct {
	PurposeID   int             `gorm:"primaryKey;column:purpose_id" json:"purpose_id"`
	PurposeName string          `gorm:"column:purpose_name" json:"purpose_name"`
	PurposeCode string          `gorm:"column:purpose_code;unique" json:"purpose_code"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	Description *string         `gorm:"column:description" json:"description,omitempty"`
	IsActive    bool            `gorm:"column:is_active;default:true" json:"is_active"`
	CreateAt    *time.Time      `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time      `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time      `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (PaymentPurpose) TableName() string { return "payment_purposes" }

type Payment struct {
	PaymentID   int             `gorm:"primaryKey;column:payment_id" json:"payment_id"`
	Reference   string          `gorm:"column:reference;unique" json:"reference"`
	CandidateID int             `gorm:"column:candidate_id;index" json:"candidate_id"`
	PurposeID   int             `gorm:"column:purpose_id" json:"purpose_id"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	Status      string          `gorm:"column:status;type:enum('pending','success','failed');default:'pending'" json:"status"`
	GatewayRef  *string         `gorm:"column:gateway_ref" json:"gateway_ref,omitempty"`
	PaidAt      *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreateAt    *time.Time      `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time      `gorm:"column:update_at" json:"update_at"`

	Candidate Candidate      `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	Purpose   PaymentPurpose `gorm:"foreignKey:PurposeID" json:"purpose,omitempty"`
}

func (Payment) TableName() string { return "payments" }
