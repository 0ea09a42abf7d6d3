package storage

import "time"

// RepositoryModel is the GORM model for the repositories table
type RepositoryModel struct {
	CreatedAt time.Time
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null;default:''"`
	Path      string `gorm:"not null;uniqueIndex:idx_repo_path"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (RepositoryModel) TableName() string { return "repositories" }
