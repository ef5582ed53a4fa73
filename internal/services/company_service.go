package services

import (
	"errors"

	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"gorm.io/gorm"
)

var ErrCompanyNotFound = errors.New("company not found")

type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

func (s *CompanyService) GetMyCompany(mgr principal.Manager) (*models.Company, error) {
	var company models.Company
	if err := s.db.First(&company, "id = ?", mgr.CompanyID).Error; err != nil {
		return nil, ErrCompanyNotFound
	}
	return &company, nil
}

func (s *CompanyService) UpdateMyCompany(mgr principal.Manager, req *dto.UpdateCompanyRequest) (*models.Company, error) {
	if req.Name == "" {
		return nil, Validation("company name is required")
	}

	var company models.Company
	if err := s.db.First(&company, "id = ?", mgr.CompanyID).Error; err != nil {
		return nil, ErrCompanyNotFound
	}
	if err := s.db.Model(&company).Update("name", req.Name).Error; err != nil {
		return nil, err
	}
	company.Name = req.Name
	return &company, nil
}
