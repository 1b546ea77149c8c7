package repository

import (
	"context"

	"student_insight/internal/model"

	"gorm.io/gorm"
)

type EdgeRepository struct {
	DB *gorm.DB
}

func NewEdgeRepository(db *gorm.DB) *EdgeRepository {
	return &EdgeRepository{DB: db}
}

func (r *EdgeRepository) Create(ctx context.Context, edge *model.AStarEdge) error {
	return r.DB.WithContext(ctx).Create(edge).Error
}

func (r *EdgeRepository) List(ctx context.Context) ([]model.AStarEdge, error) {
	var edges []model.AStarEdge
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}
