package services

import (
	"context"

	"academy-service/apperrors"
	"academy-service/models"
	"academy-service/repository"

	"github.com/shopspring/decimal"
)

// CRMService backs the admin student and revenue reports.
type CRMService interface {
	Students(ctx context.Context) ([]models.StudentSummary, error)
	Revenue(ctx context.Context) ([]models.RevenueEntry, error)
}

type crmServiceImpl struct {
	users           repository.UserRepository
	orders          repository.OrderRepository
	defaultCurrency string
}

func NewCRMService(users repository.UserRepository, orders repository.OrderRepository, defaultCurrency string) CRMService {
	return &crmServiceImpl{users: users, orders: orders, defaultCurrency: defaultCurrency}
}

func (s *crmServiceImpl) Students(ctx context.Context) ([]models.StudentSummary, error) {
	users, err := s.users.ListStudentsWithPaidOrders(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]models.StudentSummary, 0, len(users))
	for _, u := range users {
		out = append(out, summarizeStudent(u))
	}
	return out, nil
}

// summarizeStudent expects u.Orders to hold only PAID orders.
func summarizeStudent(u models.User) models.StudentSummary {
	summary := models.StudentSummary{
		ID:                   u.ID,
		Name:                 u.Name,
		Lastname:             u.Lastname,
		Email:                u.Email,
		Telegram:             u.Telegram,
		CreatedAt:            u.CreatedAt,
		PurchasedCourses:     make([]string, 0, len(u.Orders)),
		TotalSpent:           decimal.Zero,
		TotalSpentByCurrency: map[string]decimal.Decimal{},
	}
	for _, o := range u.Orders {
		summary.PurchasedCourses = append(summary.PurchasedCourses, o.Course.Title)
		for _, p := range o.Payments {
			summary.TotalSpent = summary.TotalSpent.Add(p.Amount)
			summary.TotalSpentByCurrency[p.Currency] = summary.TotalSpentByCurrency[p.Currency].Add(p.Amount)
		}
	}
	return summary
}

func (s *crmServiceImpl) Revenue(ctx context.Context) ([]models.RevenueEntry, error) {
	orders, err := s.orders.ListPaid(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]models.RevenueEntry, 0, len(orders))
	for i := range orders {
		out = append(out, revenueEntry(&orders[i], s.defaultCurrency))
	}
	return out, nil
}

// revenueEntry falls back to the buyer fields for guest orders and to the
// course price when no payment was recorded. Payments are oldest first.
func revenueEntry(o *models.Order, defaultCurrency string) models.RevenueEntry {
	entry := models.RevenueEntry{
		ID:           o.ID,
		CreatedAt:    o.CreatedAt,
		StudentName:  o.BuyerName,
		StudentEmail: o.BuyerEmail,
		CourseTitle:  o.Course.Title,
		Amount:       o.Course.Price,
		Currency:     o.Course.Currency,
	}
	if o.User != nil {
		entry.StudentName = o.User.FullName()
		if o.User.Email != "" {
			entry.StudentEmail = o.User.Email
		}
	}
	if len(o.Payments) > 0 {
		first := o.Payments[0]
		if !first.Amount.IsZero() {
			entry.Amount = first.Amount
		}
		if first.Currency != "" {
			entry.Currency = first.Currency
		}
	}
	if entry.Currency == "" {
		entry.Currency = defaultCurrency
	}
	return entry
}
