package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/usage"
)

// DebtModel is the persistence model for Debt. The payment proof is
// flattened into nullable columns; proof_submitted_at doubles as the
// presence marker.
type DebtModel struct {
	AggregateModel
	AgentID          uuid.UUID          `gorm:"type:uuid;not null;index:idx_debts_agent_status,priority:1"`
	PeriodType       usage.PeriodType   `gorm:"type:varchar(10);not null"`
	PeriodStart      time.Time          `gorm:"not null;index"`
	OveragePages     int                `gorm:"not null"`
	AmountOwed       decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	ItemID           *uuid.UUID         `gorm:"type:uuid"`
	PrintEventID     *uuid.UUID         `gorm:"type:uuid"`
	Status           billing.DebtStatus `gorm:"type:varchar(30);not null;default:'pending';index:idx_debts_agent_status,priority:2"`
	PaymentMethod    *string            `gorm:"type:varchar(50)"`
	PaymentReference *string            `gorm:"type:varchar(200)"`
	ProofRef         *string            `gorm:"type:varchar(500)"`
	ProofSubmittedAt *time.Time
	ReviewedBy       *string `gorm:"type:varchar(200)"`
	ReviewedAt       *time.Time
	PaidAt           *time.Time
}

// TableName returns the table name for GORM
func (DebtModel) TableName() string {
	return "debts"
}

// ToDomain converts the persistence model to a domain Debt
func (m *DebtModel) ToDomain() *billing.Debt {
	debt := &billing.Debt{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AgentID:           m.AgentID,
		PeriodType:        m.PeriodType,
		PeriodStart:       m.PeriodStart,
		OveragePages:      m.OveragePages,
		AmountOwed:        m.AmountOwed,
		ItemID:            m.ItemID,
		PrintEventID:      m.PrintEventID,
		Status:            m.Status,
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
		PaidAt:            m.PaidAt,
	}

	if m.ProofSubmittedAt != nil {
		proof := &billing.PaymentProof{SubmittedAt: *m.ProofSubmittedAt}
		if m.PaymentMethod != nil {
			proof.Method = *m.PaymentMethod
		}
		if m.PaymentReference != nil {
			proof.Reference = *m.PaymentReference
		}
		if m.ProofRef != nil {
			proof.ProofRef = *m.ProofRef
		}
		debt.Proof = proof
	}

	return debt
}

// FromDomain populates the persistence model from a domain Debt
func (m *DebtModel) FromDomain(d *billing.Debt) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.AgentID = d.AgentID
	m.PeriodType = d.PeriodType
	m.PeriodStart = d.PeriodStart
	m.OveragePages = d.OveragePages
	m.AmountOwed = d.AmountOwed
	m.ItemID = d.ItemID
	m.PrintEventID = d.PrintEventID
	m.Status = d.Status
	m.ReviewedBy = d.ReviewedBy
	m.ReviewedAt = d.ReviewedAt
	m.PaidAt = d.PaidAt

	if d.Proof != nil {
		m.PaymentMethod = &d.Proof.Method
		m.PaymentReference = &d.Proof.Reference
		m.ProofRef = &d.Proof.ProofRef
		m.ProofSubmittedAt = &d.Proof.SubmittedAt
	} else {
		m.PaymentMethod = nil
		m.PaymentReference = nil
		m.ProofRef = nil
		m.ProofSubmittedAt = nil
	}
}

// DebtModelFromDomain creates a new persistence model from a domain Debt
func DebtModelFromDomain(d *billing.Debt) *DebtModel {
	m := &DebtModel{}
	m.FromDomain(d)
	return m
}

// PaymentModel is the persistence model for Payment
type PaymentModel struct {
	AggregateModel
	AgentID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Method      string                `gorm:"type:varchar(50)"`
	Reference   string                `gorm:"type:varchar(200)"`
	ProofRef    string                `gorm:"type:varchar(500)"`
	Status      billing.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Allocated   decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Unallocated decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AgentID:           m.AgentID,
		Amount:            m.Amount,
		Method:            m.Method,
		Reference:         m.Reference,
		ProofRef:          m.ProofRef,
		Status:            m.Status,
		Allocated:         m.Allocated,
		Unallocated:       m.Unallocated,
		CompletedAt:       m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.AgentID = p.AgentID
	m.Amount = p.Amount
	m.Method = p.Method
	m.Reference = p.Reference
	m.ProofRef = p.ProofRef
	m.Status = p.Status
	m.Allocated = p.Allocated
	m.Unallocated = p.Unallocated
	m.CompletedAt = p.CompletedAt
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// SettingModel is the persistence model for the append-only Setting log
type SettingModel struct {
	BaseModel
	Key       string `gorm:"type:varchar(100);not null;index:idx_settings_key_time,priority:1"`
	Value     string `gorm:"type:varchar(200);not null"`
	Kind      string `gorm:"type:varchar(20)"`
	ChangedBy string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to a domain Setting
func (m *SettingModel) ToDomain() *billing.Setting {
	return &billing.Setting{
		BaseEntity: m.BaseModel.ToDomain(),
		Key:        m.Key,
		Value:      m.Value,
		Kind:       m.Kind,
		ChangedBy:  m.ChangedBy,
	}
}

// FromDomain populates the persistence model from a domain Setting
func (m *SettingModel) FromDomain(s *billing.Setting) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Key = s.Key
	m.Value = s.Value
	m.Kind = s.Kind
	m.ChangedBy = s.ChangedBy
}

// SettingModelFromDomain creates a new persistence model from a domain Setting
func SettingModelFromDomain(s *billing.Setting) *SettingModel {
	m := &SettingModel{}
	m.FromDomain(s)
	return m
}
