package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ReceiptUploadResponse is returned after a receipt is stored and recorded.
type ReceiptUploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// AccountStats summarizes the caller's orders.
type AccountStats struct {
	TotalPurchases int64 `json:"totalPurchases"`
	Pending        int64 `json:"pending"`
	ActiveCourses  int64 `json:"activeCourses"`
}

// StudentSummary is one row of the admin CRM student list. TotalSpent sums
// every currency together; TotalSpentByCurrency keeps them apart.
type StudentSummary struct {
	ID                   uuid.UUID                  `json:"id"`
	Name                 string                     `json:"name"`
	Lastname             string                     `json:"lastname"`
	Email                string                     `json:"email"`
	Telegram             *string                    `json:"telegram"`
	CreatedAt            time.Time                  `json:"createdAt"`
	PurchasedCourses     []string                   `json:"purchasedCourses"`
	TotalSpent           decimal.Decimal            `json:"totalSpent"`
	TotalSpentByCurrency map[string]decimal.Decimal `json:"totalSpentByCurrency"`
}

// RevenueEntry is one PAID order in the admin revenue report.
type RevenueEntry struct {
	ID           uuid.UUID       `json:"id"`
	CreatedAt    time.Time       `json:"createdAt"`
	StudentName  string          `json:"studentName"`
	StudentEmail string          `json:"studentEmail"`
	CourseTitle  string          `json:"courseTitle"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}
