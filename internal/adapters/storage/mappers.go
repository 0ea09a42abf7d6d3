package storage

import "grove/internal/domain"

// toModel converts a domain repository to its GORM model
func toModel(repo domain.Repository) RepositoryModel {
	return RepositoryModel{
		ID:   repo.ID,
		Name: repo.Name,
		Path: repo.Path,
	}
}

// toDomain converts a GORM model to its domain repository
func toDomain(model RepositoryModel) domain.Repository {
	return domain.Repository{
		ID:   model.ID,
		Name: model.Name,
		Path: model.Path,
	}
}
