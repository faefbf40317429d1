package patient

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/clinic/backend/internal/domain/patient"
)

// RegisterPatientRequest represents a new patient registration
type RegisterPatientRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Age      int    `json:"age" binding:"min=0,max=150"`
	Gender   string `json:"gender" binding:"max=16"`
	Phone    string `json:"phone" binding:"max=32"`
	Address  string `json:"address" binding:"max=512"`
	Prakriti string `json:"prakriti" binding:"max=64"`
}

// UpdatePatientRequest represents a registration detail edit
type UpdatePatientRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Age      int    `json:"age" binding:"min=0,max=150"`
	Gender   string `json:"gender" binding:"max=16"`
	Phone    string `json:"phone" binding:"max=32"`
	Address  string `json:"address" binding:"max=512"`
	Prakriti string `json:"prakriti" binding:"max=64"`
}

// AddVisitRequest represents a consultation record for a patient
type AddVisitRequest struct {
	VisitDate       string          `json:"visit_date" binding:"max=32"`
	DoctorName      string          `json:"doctor_name" binding:"max=255"`
	Diagnosis       string          `json:"diagnosis" binding:"max=1024"`
	Notes           string          `json:"notes" binding:"max=2048"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
}

// VisitResponse represents one consultation in API responses
type VisitResponse struct {
	VisitDate       string          `json:"visit_date"`
	DoctorName      string          `json:"doctor_name"`
	Diagnosis       string          `json:"diagnosis"`
	Notes           string          `json:"notes"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PatientResponse represents a patient in API responses
type PatientResponse struct {
	PatientCode string          `json:"patient_code"`
	Name        string          `json:"name"`
	Age         int             `json:"age"`
	Gender      string          `json:"gender"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	Prakriti    string          `json:"prakriti"`
	Visits      []VisitResponse `json:"visits,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PatientListFilter carries patient list query parameters
type PatientListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Gender   string `form:"gender"`
	Prakriti string `form:"prakriti"`
}

// ToPatientResponse converts a domain patient to its response form
func ToPatientResponse(p *patient.Patient) PatientResponse {
	visits := make([]VisitResponse, 0, len(p.Visits))
	for _, v := range p.Visits {
		visits = append(visits, VisitResponse{
			VisitDate:       v.VisitDate,
			DoctorName:      v.DoctorName,
			Diagnosis:       v.Diagnosis,
			Notes:           v.Notes,
			ConsultationFee: v.ConsultationFee,
			CreatedAt:       v.CreatedAt,
		})
	}
	return PatientResponse{
		PatientCode: p.PatientCode,
		Name:        p.Name,
		Age:         p.Age,
		Gender:      p.Gender,
		Phone:       p.Phone,
		Address:     p.Address,
		Prakriti:    p.Prakriti,
		Visits:      visits,
		CreatedAt:   p.CreatedAt,
	}
}

// ToPatientResponses converts a slice of domain patients, without visits
func ToPatientResponses(patients []patient.Patient) []PatientResponse {
	responses := make([]PatientResponse, 0, len(patients))
	for i := range patients {
		p := &patients[i]
		responses = append(responses, PatientResponse{
			PatientCode: p.PatientCode,
			Name:        p.Name,
			Age:         p.Age,
			Gender:      p.Gender,
			Phone:       p.Phone,
			Address:     p.Address,
			Prakriti:    p.Prakriti,
			CreatedAt:   p.CreatedAt,
		})
	}
	return responses
}
