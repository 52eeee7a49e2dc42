package models

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string   `json:"name" binding:"required,min=2,max=100"`
	Lastname string   `json:"lastname" binding:"required,min=2,max=100"`
	Email    string   `json:"email" binding:"required,email,max=255"`
	Password string   `json:"password" binding:"required,min=6,max=72"`
	Age      *int     `json:"age" binding:"omitempty,gt=0"`
	Telegram *string  `json:"telegram" binding:"omitempty,max=100"`
	Master   []string `json:"master" binding:"required,dive,min=1,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	BuyerName  string `json:"buyerName" binding:"required,min=2,max=200"`
	BuyerEmail string `json:"buyerEmail" binding:"required,email,max=255"`
	CourseSlug string `json:"courseSlug" binding:"required,slug"`
	Method     string `json:"method" binding:"omitempty,paymentmethod"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required,oneof=PAID REJECTED CANCELLED PENDING"`
}
