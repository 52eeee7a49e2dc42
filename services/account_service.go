package services

import (
	"context"

	"academy-service/apperrors"
	"academy-service/models"
	"academy-service/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AccountService computes per-user projections.
type AccountService interface {
	Stats(ctx context.Context, userID uuid.UUID) (*models.AccountStats, error)
}

type accountServiceImpl struct {
	orders repository.OrderRepository
}

func NewAccountService(orders repository.OrderRepository) AccountService {
	return &accountServiceImpl{orders: orders}
}

// Stats runs the three counts concurrently.
func (s *accountServiceImpl) Stats(ctx context.Context, userID uuid.UUID) (*models.AccountStats, error) {
	var stats models.AccountStats
	pending := models.OrderStatusPending
	paid := models.OrderStatusPaid

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.orders.CountByUser(gctx, userID, nil)
		stats.TotalPurchases = n
		return err
	})
	g.Go(func() error {
		n, err := s.orders.CountByUser(gctx, userID, &pending)
		stats.Pending = n
		return err
	})
	g.Go(func() error {
		n, err := s.orders.CountByUser(gctx, userID, &paid)
		stats.ActiveCourses = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stats, nil
}
