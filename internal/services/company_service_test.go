package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyCompany(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCompanyService(db)
	mgr := seedManager(t, db, "manager@acme.test")

	company, err := svc.GetMyCompany(mgr)
	require.NoError(t, err)
	assert.Equal(t, mgr.CompanyID, company.ID)

	_, err = svc.GetMyCompany(principal.Manager{ID: uuid.New(), CompanyID: uuid.New()})
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestUpdateMyCompany(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCompanyService(db)
	mgr := seedManager(t, db, "manager@acme.test")

	company, err := svc.UpdateMyCompany(mgr, &dto.UpdateCompanyRequest{Name: "Acme Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Renamed", company.Name)

	var validation *ValidationError
	_, err = svc.UpdateMyCompany(mgr, &dto.UpdateCompanyRequest{Name: ""})
	require.ErrorAs(t, err, &validation)
}
