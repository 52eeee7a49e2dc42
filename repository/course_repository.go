package repository

import (
	"context"

	"academy-service/models"

	"gorm.io/gorm"
)

// CourseRepository defines the interface for course data access.
type CourseRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Course, error)
	ListActive(ctx context.Context) ([]models.Course, error)
}

// GormCourseRepository implements CourseRepository using GORM.
type GormCourseRepository struct {
	db *gorm.DB
}

// NewGormCourseRepository creates a new GormCourseRepository.
func NewGormCourseRepository(db *gorm.DB) CourseRepository {
	return &GormCourseRepository{db: db}
}

// FindBySlug returns the course regardless of its active flag.
func (r *GormCourseRepository) FindBySlug(ctx context.Context, slug string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *GormCourseRepository) ListActive(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}
