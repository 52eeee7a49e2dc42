package services

import (
	"context"
	"testing"
	"time"

	"academy-service/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeStudent(t *testing.T) {
	user := models.User{
		ID: uuid.New(), Name: "Ana", Lastname: "Perez", Email: "ana@example.com",
		Orders: []models.Order{
			{
				Course: models.Course{Title: "Fansly Master"},
				Payments: []models.Payment{
					{Amount: decimal.NewFromInt(85000), Currency: "ARS"},
				},
			},
			{
				Course: models.Course{Title: "Fetichista Master"},
				Payments: []models.Payment{
					{Amount: decimal.NewFromInt(50), Currency: "USD"},
				},
			},
		},
	}

	s := summarizeStudent(user)
	assert.Equal(t, []string{"Fansly Master", "Fetichista Master"}, s.PurchasedCourses)
	assert.True(t, decimal.NewFromInt(85050).Equal(s.TotalSpent))
	assert.True(t, decimal.NewFromInt(85000).Equal(s.TotalSpentByCurrency["ARS"]))
	assert.True(t, decimal.NewFromInt(50).Equal(s.TotalSpentByCurrency["USD"]))
}

func TestSummarizeStudent_NoOrders(t *testing.T) {
	s := summarizeStudent(models.User{Name: "Ana"})
	assert.NotNil(t, s.PurchasedCourses)
	assert.Empty(t, s.PurchasedCourses)
	assert.True(t, s.TotalSpent.IsZero())
}

func TestRevenueEntry(t *testing.T) {
	course := models.Course{Title: "Fansly Master", Price: decimal.NewFromInt(85000), Currency: "ARS"}
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Registered Buyer With Payment", func(t *testing.T) {
		o := &models.Order{
			ID: uuid.New(), CreatedAt: created, BuyerName: "Typed Name", BuyerEmail: "typed@example.com",
			User:   &models.User{Name: "Ana", Lastname: "Perez", Email: "ana@example.com"},
			Course: course,
			Payments: []models.Payment{
				{Amount: decimal.NewFromInt(50), Currency: "USD"},
				{Amount: decimal.NewFromInt(99), Currency: "EUR"},
			},
		}
		e := revenueEntry(o, "ARS")
		assert.Equal(t, "Ana Perez", e.StudentName)
		assert.Equal(t, "ana@example.com", e.StudentEmail)
		assert.Equal(t, "Fansly Master", e.CourseTitle)
		assert.True(t, decimal.NewFromInt(50).Equal(e.Amount))
		assert.Equal(t, "USD", e.Currency)
		assert.Equal(t, created, e.CreatedAt)
	})

	t.Run("Registered Buyer Without Lastname", func(t *testing.T) {
		o := &models.Order{User: &models.User{Name: "Ana", Email: "ana@example.com"}, Course: course}
		assert.Equal(t, "Ana", revenueEntry(o, "ARS").StudentName)
	})

	t.Run("Guest Without Payment", func(t *testing.T) {
		o := &models.Order{BuyerName: "Guest", BuyerEmail: "guest@example.com", Course: course}
		e := revenueEntry(o, "USD")
		assert.Equal(t, "Guest", e.StudentName)
		assert.Equal(t, "guest@example.com", e.StudentEmail)
		assert.True(t, decimal.NewFromInt(85000).Equal(e.Amount))
		assert.Equal(t, "ARS", e.Currency)
	})

	t.Run("Zero Payment Falls Back To Course Price", func(t *testing.T) {
		o := &models.Order{
			BuyerName: "Guest", Course: models.Course{Title: "X", Price: decimal.NewFromInt(10)},
			Payments: []models.Payment{{Amount: decimal.Zero}},
		}
		e := revenueEntry(o, "ARS")
		assert.True(t, decimal.NewFromInt(10).Equal(e.Amount))
		assert.Equal(t, "ARS", e.Currency)
	})
}

func TestCRMService_Revenue(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	paid := f.createOrder(t, "fansly-master", "", nil)
	f.createOrder(t, "usd-course", "", nil)
	_, err := f.svc.UpdateStatus(ctx, paid, models.OrderStatusPaid)
	require.NoError(t, err)

	entries, err := NewCRMService(newFakeUserRepo(), f.orders, "ARS").Revenue(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, paid, entries[0].ID)
	assert.Equal(t, "Ana Perez", entries[0].StudentName)
	assert.True(t, decimal.NewFromInt(85000).Equal(entries[0].Amount))
}

func TestCRMService_StudentsEmpty(t *testing.T) {
	students, err := NewCRMService(newFakeUserRepo(), newFakeOrderStore(newFakeCourseRepo()), "ARS").Students(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}
