package patient

import (
	"strings"
	"time"

	"github.com/clinic/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Patient represents a registered clinic patient. PatientCode is the
// human-facing registration number assigned sequentially on first visit.
type Patient struct {
	shared.BaseAggregateRoot
	PatientCode string `gorm:"uniqueIndex;not null;size:32"`
	Name        string `gorm:"not null;size:255;index"`
	Age         int
	Gender      string  `gorm:"size:16"`
	Phone       string  `gorm:"size:32;index"`
	Address     string  `gorm:"size:512"`
	Prakriti    string  `gorm:"size:64"`
	Visits      []Visit `gorm:"foreignKey:PatientID;references:ID"`
}

// TableName returns the table name for GORM
func (Patient) TableName() string {
	return "patients"
}

// NewPatient registers a patient under the given code
func NewPatient(patientCode, name string) (*Patient, error) {
	if strings.TrimSpace(patientCode) == "" {
		return nil, shared.NewDomainError("INVALID_PATIENT_CODE", "Patient code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PATIENT_NAME", "Patient name cannot be empty")
	}
	return &Patient{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PatientCode:       patientCode,
		Name:              name,
		Visits:            make([]Visit, 0),
	}, nil
}

// UpdateDetails overwrites the mutable registration fields
func (p *Patient) UpdateDetails(name string, age int, gender, phone, address, prakriti string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_PATIENT_NAME", "Patient name cannot be empty")
	}
	if age < 0 {
		return shared.NewDomainError("INVALID_AGE", "Age cannot be negative")
	}
	p.Name = name
	p.Age = age
	p.Gender = gender
	p.Phone = phone
	p.Address = address
	p.Prakriti = prakriti
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// AddVisit appends a visit record for this patient
func (p *Patient) AddVisit(visitDate, doctorName, diagnosis, notes string, consultationFee decimal.Decimal) (*Visit, error) {
	visit, err := NewVisit(p.ID, visitDate, doctorName, diagnosis, notes, consultationFee)
	if err != nil {
		return nil, err
	}
	p.Visits = append(p.Visits, *visit)
	p.UpdatedAt = time.Now()
	return &p.Visits[len(p.Visits)-1], nil
}

// Visit represents one consultation of a patient
type Visit struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PatientID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	VisitDate       string          `gorm:"size:32"`
	DoctorName      string          `gorm:"size:255"`
	Diagnosis       string          `gorm:"size:1024"`
	Notes           string          `gorm:"size:2048"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt       time.Time
}

// TableName returns the table name for GORM
func (Visit) TableName() string {
	return "visits"
}

// NewVisit creates a validated visit record
func NewVisit(patientID uuid.UUID, visitDate, doctorName, diagnosis, notes string, consultationFee decimal.Decimal) (*Visit, error) {
	if patientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Patient ID cannot be empty")
	}
	if consultationFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Consultation fee cannot be negative")
	}
	return &Visit{
		ID:              uuid.New(),
		PatientID:       patientID,
		VisitDate:       visitDate,
		DoctorName:      doctorName,
		Diagnosis:       diagnosis,
		Notes:           notes,
		ConsultationFee: consultationFee,
		CreatedAt:       time.Now(),
	}, nil
}
