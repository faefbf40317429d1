package patient

import (
	"context"
	"time"

	"github.com/clinic/backend/internal/domain/patient"
	"github.com/clinic/backend/internal/domain/shared"
)

// PatientService handles the patient registry and visit history
type PatientService struct {
	patientRepo patient.PatientRepository
	now         func() time.Time
}

// NewPatientService creates a new PatientService
func NewPatientService(patientRepo patient.PatientRepository) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		now:         time.Now,
	}
}

// Register creates a patient under the next sequential registration code
func (s *PatientService) Register(ctx context.Context, req RegisterPatientRequest) (*PatientResponse, error) {
	code, err := s.patientRepo.NextCode(ctx)
	if err != nil {
		return nil, err
	}

	p, err := patient.NewPatient(code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateDetails(req.Name, req.Age, req.Gender, req.Phone, req.Address, req.Prakriti); err != nil {
		return nil, err
	}

	if err := s.patientRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	response := ToPatientResponse(p)
	return &response, nil
}

// Update edits a patient's registration details by code
func (s *PatientService) Update(ctx context.Context, patientCode string, req UpdatePatientRequest) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByCode(ctx, patientCode)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateDetails(req.Name, req.Age, req.Gender, req.Phone, req.Address, req.Prakriti); err != nil {
		return nil, err
	}
	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPatientResponse(p)
	return &response, nil
}

// AddVisit appends a consultation record to a patient's history
func (s *PatientService) AddVisit(ctx context.Context, patientCode string, req AddVisitRequest) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByCode(ctx, patientCode)
	if err != nil {
		return nil, err
	}

	visitDate := req.VisitDate
	if visitDate == "" {
		visitDate = s.now().Format("2006-01-02")
	}
	if _, err := p.AddVisit(visitDate, req.DoctorName, req.Diagnosis, req.Notes, req.ConsultationFee); err != nil {
		return nil, err
	}
	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPatientResponse(p)
	return &response, nil
}

// GetByCode retrieves a patient with visit history by registration code
func (s *PatientService) GetByCode(ctx context.Context, patientCode string) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByCode(ctx, patientCode)
	if err != nil {
		return nil, err
	}
	response := ToPatientResponse(p)
	return &response, nil
}

// Search finds patients by name or phone fragment
func (s *PatientService) Search(ctx context.Context, query string, limit int) ([]PatientResponse, error) {
	patients, err := s.patientRepo.SearchByName(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return ToPatientResponses(patients), nil
}

// List retrieves patients with filtering and pagination
func (s *PatientService) List(ctx context.Context, filter PatientListFilter) ([]PatientResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]interface{}{},
	}
	if filter.Gender != "" {
		domainFilter.Filters["gender"] = filter.Gender
	}
	if filter.Prakriti != "" {
		domainFilter.Filters["prakriti"] = filter.Prakriti
	}

	page, err := s.patientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPatientResponses(page.Items), page.Total, nil
}
