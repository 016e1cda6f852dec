package repository

import "github.com/jhoicas/pos-api/internal/domain/entity"

// CompanyRepository puerto de persistencia de empresas.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
}
