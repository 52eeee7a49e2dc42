package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"academy-service/apperrors"
	"academy-service/events"
	"academy-service/logger"
	"academy-service/models"
	"academy-service/repository"
	"academy-service/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ReceiptUploadedMessage = "Receipt uploaded successfully"

	publishTimeout    = 5 * time.Second
	compensateTimeout = 10 * time.Second
)

// ReceiptFile is an uploaded receipt as handed over by the transport layer.
type ReceiptFile struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// ObjectKeyer names stored receipt objects.
type ObjectKeyer interface {
	Key(orderID, filename string) string
}

// OrderService defines the order and payment lifecycle.
type OrderService interface {
	Create(ctx context.Context, req *models.CreateOrderRequest, userID *uuid.UUID) (*models.CreatedOrder, error)
	UploadReceipt(ctx context.Context, orderID uuid.UUID, file ReceiptFile) (*models.ReceiptUploadResponse, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
}

type orderServiceImpl struct {
	courses         repository.CourseRepository
	orders          repository.OrderRepository
	payments        repository.PaymentRepository
	store           storage.ReceiptStore
	keys            ObjectKeyer
	publisher       events.Publisher
	defaultCurrency string
	logger          *zap.Logger
}

// OrderDeps groups the collaborators of the order service.
type OrderDeps struct {
	Courses         repository.CourseRepository
	Orders          repository.OrderRepository
	Payments        repository.PaymentRepository
	Store           storage.ReceiptStore
	Keys            ObjectKeyer
	Publisher       events.Publisher
	DefaultCurrency string
	Logger          *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(d OrderDeps) OrderService {
	publisher := d.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &orderServiceImpl{
		courses:         d.Courses,
		orders:          d.Orders,
		payments:        d.Payments,
		store:           d.Store,
		keys:            d.Keys,
		publisher:       publisher,
		defaultCurrency: d.DefaultCurrency,
		logger:          d.Logger,
	}
}

// Create records a PENDING order for an active course. userID is nil for
// guest checkout.
func (s *orderServiceImpl) Create(ctx context.Context, req *models.CreateOrderRequest, userID *uuid.UUID) (*models.CreatedOrder, error) {
	course, err := s.courses.FindBySlug(ctx, req.CourseSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseUnavailable
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !course.IsActive {
		return nil, apperrors.ErrCourseUnavailable
	}

	order := &models.Order{
		UserID:     userID,
		BuyerName:  strings.TrimSpace(req.BuyerName),
		BuyerEmail: strings.TrimSpace(req.BuyerEmail),
		CourseID:   course.ID,
		Status:     models.OrderStatusPending,
		Source:     models.OrderSourceSite,
	}
	if method := NormalizeMethod(req.Method); method != "" {
		label := MethodLabel(method)
		order.PaymentMethod = &method
		order.Notes = &label
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.FromContext(ctx, s.logger).Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("course", course.Slug),
		zap.Bool("guest", userID == nil),
	)
	s.publish(ctx, events.New(events.OrderCreated, order.ID.String(), map[string]any{
		"orderId":       order.ID.String(),
		"courseId":      course.ID.String(),
		"courseSlug":    course.Slug,
		"buyerEmail":    order.BuyerEmail,
		"paymentMethod": order.PaymentMethod,
		"guest":         userID == nil,
	}))

	return &models.CreatedOrder{ID: order.ID, Status: order.Status}, nil
}

// UploadReceipt stores the file, then records or refreshes the order's
// PENDING_REVIEW payment. When recording fails the stored object is removed.
func (s *orderServiceImpl) UploadReceipt(ctx context.Context, orderID uuid.UUID, file ReceiptFile) (*models.ReceiptUploadResponse, error) {
	log := logger.FromContext(ctx, s.logger).With(zap.String("order_id", orderID.String()))

	order, err := s.orders.FindByIDWithDetails(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	obj, err := s.store.Put(ctx, s.keys.Key(order.ID.String(), file.Filename), file.Reader, file.Size, file.ContentType)
	if err != nil {
		log.Error("Receipt storage failed", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrReceiptStore, err)
	}

	quote := QuotePayment(order, s.defaultCurrency)
	payment := &models.Payment{
		Method:     quote.Method,
		Amount:     quote.Amount,
		Currency:   quote.Currency,
		ReceiptURL: obj.URL,
		ReceiptKey: obj.Key,
	}

	created, err := s.payments.SavePendingReview(ctx, order.ID, payment)
	if err != nil {
		s.compensate(ctx, obj, log)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrReceiptSave, err)
	}

	log.Info("Receipt recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.Bool("created", created),
		zap.String("method", quote.Method),
		zap.String("amount", quote.Amount.String()),
		zap.String("currency", quote.Currency),
	)
	s.publish(ctx, events.New(events.PaymentReceiptUploaded, order.ID.String(), map[string]any{
		"orderId":    order.ID.String(),
		"paymentId":  payment.ID.String(),
		"method":     quote.Method,
		"amount":     quote.Amount.String(),
		"currency":   quote.Currency,
		"receiptUrl": obj.URL,
		"replaced":   !created,
	}))

	return &models.ReceiptUploadResponse{Message: ReceiptUploadedMessage, URL: obj.URL}, nil
}

// compensate removes an object whose payment row could not be written.
func (s *orderServiceImpl) compensate(ctx context.Context, obj *storage.StoredObject, log *zap.Logger) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()

	if err := s.store.Delete(cctx, obj.Key); err != nil {
		log.Error("Orphaned receipt left in storage", zap.String("key", obj.Key), zap.Error(err))
		return
	}
	log.Warn("Receipt removed after failed payment write", zap.String("key", obj.Key))
}

// UpdateStatus overwrites the order status. Any transition is allowed.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.FromContext(ctx, s.logger).Info("Order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(status)),
	)
	s.publish(ctx, events.New(events.OrderStatusChanged, orderID.String(), map[string]any{
		"orderId":    orderID.String(),
		"status":     string(status),
		"buyerEmail": order.BuyerEmail,
	}))
	return order, nil
}

func (s *orderServiceImpl) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nonNilOrders(orders), nil
}

func (s *orderServiceImpl) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nonNilOrders(orders), nil
}

func (s *orderServiceImpl) publish(ctx context.Context, evt events.Event) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pctx, evt); err != nil {
		logger.FromContext(ctx, s.logger).Warn("Failed to publish event",
			zap.String("event_type", evt.Type),
			zap.String("event_id", evt.ID),
			zap.Error(err),
		)
	}
}

func nonNilOrders(orders []models.Order) []models.Order {
	if orders == nil {
		return []models.Order{}
	}
	return orders
}
