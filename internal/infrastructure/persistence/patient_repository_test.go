package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clinic/backend/internal/domain/patient"
	"github.com/clinic/backend/internal/domain/shared"
)

func setupPatientTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&patient.Patient{}, &patient.Visit{})
	require.NoError(t, err)

	return db
}

func seedPatient(t *testing.T, repo *GormPatientRepository, code, name string) *patient.Patient {
	t.Helper()
	p, err := patient.NewPatient(code, name)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPatientRepository_Create(t *testing.T) {
	db := setupPatientTestDB(t)
	repo := NewGormPatientRepository(db)
	ctx := context.Background()

	t.Run("creates and finds by code", func(t *testing.T) {
		seedPatient(t, repo, "P-00001", "Priya Menon")

		found, err := repo.FindByCode(ctx, "P-00001")
		require.NoError(t, err)
		assert.Equal(t, "Priya Menon", found.Name)
	})

	t.Run("duplicate code returns already exists", func(t *testing.T) {
		p, err := patient.NewPatient("P-00001", "Someone Else")
		require.NoError(t, err)
		err = repo.Create(ctx, p)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown code returns not found", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, "P-99999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPatientRepository_NextCode(t *testing.T) {
	db := setupPatientTestDB(t)
	repo := NewGormPatientRepository(db)
	ctx := context.Background()

	t.Run("starts at P-00001 with no patients", func(t *testing.T) {
		code, err := repo.NextCode(ctx)
		require.NoError(t, err)
		assert.Equal(t, "P-00001", code)
	})

	t.Run("extracts the numeric tail and increments it", func(t *testing.T) {
		seedPatient(t, repo, "P-00009", "Priya Menon")
		seedPatient(t, repo, "P-00041", "Arjun Nair")

		code, err := repo.NextCode(ctx)
		require.NoError(t, err)
		assert.Equal(t, "P-00042", code)
	})
}

func TestPatientRepository_Save(t *testing.T) {
	db := setupPatientTestDB(t)
	repo := NewGormPatientRepository(db)
	ctx := context.Background()

	t.Run("persists detail edits and appended visits", func(t *testing.T) {
		p := seedPatient(t, repo, "P-00001", "Priya Menon")

		require.NoError(t, p.UpdateDetails("Priya Menon", 34, "female", "9876543210", "Kochi", "vata-pitta"))
		_, err := p.AddVisit("2025-06-10", "Dr. Sharma", "Seasonal cold", "", decimal.NewFromInt(300))
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, p))

		found, err := repo.FindByCode(ctx, "P-00001")
		require.NoError(t, err)
		assert.Equal(t, 34, found.Age)
		assert.Equal(t, "vata-pitta", found.Prakriti)
		require.Len(t, found.Visits, 1)
		assert.Equal(t, "Dr. Sharma", found.Visits[0].DoctorName)
		assert.True(t, found.Visits[0].ConsultationFee.Equal(decimal.NewFromInt(300)))
	})
}

func TestPatientRepository_SearchByName(t *testing.T) {
	db := setupPatientTestDB(t)
	repo := NewGormPatientRepository(db)
	ctx := context.Background()

	priya := seedPatient(t, repo, "P-00001", "Priya Menon")
	priya.Phone = "9876543210"
	require.NoError(t, repo.Save(ctx, priya))
	seedPatient(t, repo, "P-00002", "Arjun Nair")

	t.Run("matches a name fragment", func(t *testing.T) {
		results, err := repo.SearchByName(ctx, "Menon", 20)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "P-00001", results[0].PatientCode)
	})

	t.Run("matches a phone fragment", func(t *testing.T) {
		results, err := repo.SearchByName(ctx, "98765", 20)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Priya Menon", results[0].Name)
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		results, err := repo.SearchByName(ctx, "Zzz", 20)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestPatientRepository_FindAll(t *testing.T) {
	db := setupPatientTestDB(t)
	repo := NewGormPatientRepository(db)
	ctx := context.Background()

	first := seedPatient(t, repo, "P-00001", "Priya Menon")
	require.NoError(t, first.UpdateDetails("Priya Menon", 34, "female", "", "", ""))
	require.NoError(t, repo.Save(ctx, first))
	seedPatient(t, repo, "P-00002", "Arjun Nair")
	seedPatient(t, repo, "P-00003", "Kavya Pillai")

	t.Run("paginates in code order", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 2, OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "P-00003", page.Items[0].PatientCode)
	})

	t.Run("filters by gender", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.Filter{
			Page:     1,
			PageSize: 10,
			Filters:  map[string]interface{}{"gender": "female"},
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "P-00001", page.Items[0].PatientCode)
	})
}
