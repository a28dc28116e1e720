package core

import (
	"errors"
	"strings"
	"time"
)

// ProjectStatus is the lifecycle stage of a project. The set is closed:
// unknown strings are rejected at parse time instead of falling through
// to a default branch somewhere downstream.
type ProjectStatus string

const (
	StatusPending           ProjectStatus = "pending"
	StatusActive            ProjectStatus = "active"
	StatusNearingCompletion ProjectStatus = "nearing_completion"
	StatusCompleted         ProjectStatus = "completed"
	StatusAwaitingPO        ProjectStatus = "awaiting_po"
	StatusOnHold            ProjectStatus = "on_hold"
	StatusCancelled         ProjectStatus = "cancelled"
)

// ProjectStatuses lists every valid status in display order.
var ProjectStatuses = []ProjectStatus{
	StatusPending,
	StatusActive,
	StatusNearingCompletion,
	StatusCompleted,
	StatusAwaitingPO,
	StatusOnHold,
	StatusCancelled,
}

func (s ProjectStatus) Valid() bool {
	for _, known := range ProjectStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseProjectStatus validates a status string from storage or a request.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	st := ProjectStatus(strings.TrimSpace(s))
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// ProjectType is the commercial model for a project.
type ProjectType string

const (
	TypeFixedFee         ProjectType = "fixed_fee"
	TypeTimeAndMaterials ProjectType = "time_and_materials"
	TypeRetainer         ProjectType = "retainer"
)

func (t ProjectType) Valid() bool {
	switch t {
	case TypeFixedFee, TypeTimeAndMaterials, TypeRetainer:
		return true
	}
	return false
}

// PaymentType tags who a payment record went to.
type PaymentType string

const (
	PaymentContractor PaymentType = "contractor"
	PaymentSoftware   PaymentType = "software"
	PaymentCompany    PaymentType = "company"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentContractor, PaymentSoftware, PaymentCompany:
		return true
	}
	return false
}

// Date is a calendar date; the time portion is always midnight UTC.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidStatus   = errors.New("invalid project status")
	ErrInvalidCategory = errors.New("invalid cost category")
	ErrEmptyName       = errors.New("empty name")
	ErrMissingProject  = errors.New("payment record without project")
)

// Project is a read-only snapshot of one project row plus its embedded
// payment records, as fetched from storage in a single round trip. The
// core never mutates a Project; every derived figure below is computed
// fresh from the snapshot.
type Project struct {
	ID      int64
	Name    string
	Code    string
	Client  string
	Type    ProjectType
	Status  ProjectStatus
	IsDraft bool

	SalesPrice Money
	Costs      CostSheet

	StartDate Date
	EndDate   Date
	Notes     string

	Payments []PaymentRecord
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	if !p.Type.Valid() {
		return errors.New("invalid project type")
	}
	if p.SalesPrice.IsNegative() {
		return ErrInvalidAmount
	}
	for _, cat := range CostCategories {
		if p.Costs.Amount(cat).IsNegative() {
			return ErrInvalidAmount
		}
	}
	return nil
}

// PaymentRecord is one billed/paid line belonging to exactly one
// project. Category is an explicit tag; the invoice reference is a
// human label and is never parsed to recover the category.
type PaymentRecord struct {
	ID             int64
	ProjectID      int64
	Amount         Money
	PaidAmount     Money
	Date           Date
	Category       CostCategory
	Type           PaymentType
	InvoiceRef     string
	ContractorName string
	ImportBatchID  string
}

func (r PaymentRecord) Validate() error {
	if r.ProjectID <= 0 {
		return ErrMissingProject
	}
	if !r.Category.Valid() {
		return ErrInvalidCategory
	}
	if !r.Type.Valid() {
		return errors.New("invalid payment type")
	}
	if r.Amount.IsNegative() || r.PaidAmount.IsNegative() {
		return ErrInvalidAmount
	}
	// Paid may exceed billed: over-payment is a valid, flagged state.
	return nil
}
