package model

import "time"

// Status is the lifecycle state of a company record.
type Status int

const (
	// StatusInactive marks a logically deleted company.
	StatusInactive Status = 0
	// StatusActive is the state of every newly created company.
	StatusActive Status = 1
)

// Company is a registered company with its audit trail.
// This is a pure domain model with no database-specific dependencies or tags.
// Descriptive fields are nullable; a soft-deleted company stays in storage with StatusInactive.
type Company struct {
	ID                 int64   `json:"id"`
	LegalName          *string `json:"legalName"`
	DocumentType       *string `json:"documentType"`
	DocumentNumber     *string `json:"documentNumber"`
	TaxCondition       *string `json:"taxCondition"`
	Address            *string `json:"address"`
	District           *string `json:"district"`
	Province           *string `json:"province"`
	Department         *string `json:"department"`
	IsWithholdingAgent *bool   `json:"isWithholdingAgent"`
	Status             Status  `json:"status"`

	CreatedBy  string     `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	ModifiedBy *string    `json:"modifiedBy"`
	ModifiedAt *time.Time `json:"modifiedAt"`
	DeletedBy  *string    `json:"deletedBy"`
	DeletedAt  *time.Time `json:"deletedAt"`
}

// CompanyFields carries the descriptive fields a caller may supply on create or update.
// A nil field means "not supplied".
type CompanyFields struct {
	LegalName          *string
	DocumentType       *string
	DocumentNumber     *string
	TaxCondition       *string
	Address            *string
	District           *string
	Province           *string
	Department         *string
	IsWithholdingAgent *bool
}

// ApplyTo copies every supplied field onto c and leaves the rest of c untouched.
// Identity, status and audit fields are never touched.
func (f CompanyFields) ApplyTo(c *Company) {
	if f.LegalName != nil {
		c.LegalName = f.LegalName
	}
	if f.DocumentType != nil {
		c.DocumentType = f.DocumentType
	}
	if f.DocumentNumber != nil {
		c.DocumentNumber = f.DocumentNumber
	}
	if f.TaxCondition != nil {
		c.TaxCondition = f.TaxCondition
	}
	if f.Address != nil {
		c.Address = f.Address
	}
	if f.District != nil {
		c.District = f.District
	}
	if f.Province != nil {
		c.Province = f.Province
	}
	if f.Department != nil {
		c.Department = f.Department
	}
	if f.IsWithholdingAgent != nil {
		c.IsWithholdingAgent = f.IsWithholdingAgent
	}
}

// DisplayName returns the best human-readable name for c: the legal name,
// falling back to the document number.
func (c *Company) DisplayName() string {
	if c.LegalName != nil && *c.LegalName != "" {
		return *c.LegalName
	}
	if c.DocumentNumber != nil {
		return *c.DocumentNumber
	}
	return ""
}
