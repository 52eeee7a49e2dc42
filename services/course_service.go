package services

import (
	"context"

	"academy-service/apperrors"
	"academy-service/cache"
	"academy-service/models"
	"academy-service/repository"
)

// CourseService serves the public catalog.
type CourseService interface {
	ListActive(ctx context.Context) ([]models.Course, error)
}

type courseServiceImpl struct {
	repo  repository.CourseRepository
	cache cache.CourseCache
}

// NewCourseService creates a CourseService. courseCache may be nil.
func NewCourseService(repo repository.CourseRepository, courseCache cache.CourseCache) CourseService {
	return &courseServiceImpl{repo: repo, cache: courseCache}
}

func (s *courseServiceImpl) ListActive(ctx context.Context) ([]models.Course, error) {
	if s.cache != nil {
		if courses, ok := s.cache.GetActive(ctx); ok {
			return courses, nil
		}
	}

	courses, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if courses == nil {
		courses = []models.Course{}
	}
	if s.cache != nil {
		s.cache.SetActive(ctx, courses)
	}
	return courses, nil
}
