package model

import (
	"time"

	"backend/internal/workflow"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Currency enum constants
const (
	CurrencySYP = "SYP"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// ValidCurrency reports whether c belongs to the closed currency set.
func ValidCurrency(c string) bool {
	return c == CurrencySYP || c == CurrencyUSD || c == CurrencyEUR
}

// StageApproval carries one stage's entry in the approval table:
// name, position and date captured when the stage acted, plus the
// signature image. Written once per stage, never rewritten.
type StageApproval struct {
	Name      string `gorm:"type:varchar(255)" json:"name"`
	Position  string `gorm:"type:varchar(255)" json:"position"`
	Date      string `gorm:"type:varchar(50)" json:"date"`
	Signature string `gorm:"type:text" json:"signature,omitempty"` // base64 image
}

// PurchaseRequest is a purchase order moving through the sequential
// manager → finance → disbursement → procurement pipeline.
type PurchaseRequest struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderNumber     string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_number"`
	Requester       string          `gorm:"type:varchar(255);not null" json:"requester"`
	Department      string          `gorm:"type:varchar(255);not null;index" json:"department"`
	DeliveryAddress string          `gorm:"type:varchar(255)" json:"delivery_address"`
	DeliveryDate    string          `gorm:"type:varchar(50)" json:"delivery_date"` // ISO date kept as text
	ProjectCode     string          `gorm:"type:varchar(100)" json:"project_code"`
	Currency        string          `gorm:"type:varchar(10);not null" json:"currency"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"total_amount"`

	Status       workflow.Status `gorm:"type:varchar(50);not null;default:'pending_manager';index" json:"status"`
	CurrentStage string          `gorm:"type:varchar(50)" json:"current_stage"` // display label mirroring Status
	NextRole     workflow.Role   `gorm:"type:varchar(50);index" json:"next_role"`

	RejectionNote string `gorm:"type:text" json:"rejection_note,omitempty"`

	// Secondary procurement axis, meaningful once Status reaches
	// pending_procurement.
	ProcurementStatus      workflow.ProcurementStatus `gorm:"type:varchar(50);default:'pending'" json:"procurement_status"`
	ProcurementNote        string                     `gorm:"type:text" json:"procurement_note,omitempty"`
	ProcurementAssignedTo  string                     `gorm:"type:varchar(120)" json:"procurement_assigned_to,omitempty"`
	ProcurementUpdatedAt   *time.Time                 `json:"procurement_updated_at,omitempty"`
	ProcurementCompletedAt *time.Time                 `json:"procurement_completed_at,omitempty"`

	// Approval table, one embedded block per stage.
	RequesterApproval    StageApproval `gorm:"embedded;embeddedPrefix:requester_" json:"requester_approval"`
	ManagerApproval      StageApproval `gorm:"embedded;embeddedPrefix:manager_" json:"manager_approval"`
	FinanceApproval      StageApproval `gorm:"embedded;embeddedPrefix:finance_" json:"finance_approval"`
	DisbursementApproval StageApproval `gorm:"embedded;embeddedPrefix:disbursement_" json:"disbursement_approval"`

	CreatedBy string    `gorm:"type:varchar(120);index" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Items         []PurchaseItem    `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"items"`
	History       []ApprovalHistory `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"history,omitempty"`
	Notifications []Notification    `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"-"`
}

// SyncWorkflowFields keeps status, current_stage and next_role
// consistent. Must be called after any change to Status.
func (pr *PurchaseRequest) SyncWorkflowFields() {
	pr.Status = pr.Status.Normalize()
	pr.CurrentStage = pr.Status.Stage()
	pr.NextRole = pr.Status.NextRole()
	if pr.Status == workflow.StatusPendingProcurement && pr.ProcurementStatus == "" {
		pr.ProcurementStatus = workflow.ProcurementPending
	}
}

// BeforeSave normalizes the status once at the persistence boundary so
// no consumer ever sees an empty or inconsistent value.
func (pr *PurchaseRequest) BeforeSave(*gorm.DB) error {
	pr.SyncWorkflowFields()
	return nil
}

// AfterFind applies the same normalization to rows written before the
// workflow columns existed.
func (pr *PurchaseRequest) AfterFind(*gorm.DB) error {
	pr.SyncWorkflowFields()
	for i := range pr.Items {
		pr.Items[i].Status = pr.Items[i].Status.Normalize()
	}
	return nil
}

// PurchaseItem is one priced line within a purchase request,
// individually approvable during the manager stage.
type PurchaseItem struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	RequestID       uint                `gorm:"not null;index" json:"request_id"`
	ItemName        string              `gorm:"type:varchar(255);not null" json:"item_name"`
	Specification   string              `gorm:"type:varchar(500)" json:"specification"`
	Unit            string              `gorm:"type:varchar(50)" json:"unit"`
	Quantity        float64             `gorm:"not null;default:0" json:"quantity"`
	Price           decimal.Decimal     `gorm:"type:numeric(18,4);not null" json:"price"`
	Total           decimal.Decimal     `gorm:"type:numeric(18,4);not null" json:"total"`
	Status          workflow.ItemStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	RejectionReason string              `gorm:"type:text" json:"rejection_reason,omitempty"`
	DecidedBy       string              `gorm:"type:varchar(120)" json:"decided_by,omitempty"`
}

// RecalcTotal recomputes quantity × price for the line.
func (it *PurchaseItem) RecalcTotal() {
	it.Total = workflow.LineTotal(it.Quantity, it.Price)
}
