package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"academy-service/apperrors"
	"academy-service/middleware"
	"academy-service/models"
	"academy-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxReceiptBytes caps the size of an uploaded receipt file.
const MaxReceiptBytes = 5 << 20

// multipartEnvelopeBytes is the allowance for boundaries and part headers on
// top of the file itself.
const multipartEnvelopeBytes = 64 << 10

// OrderController handles checkout, receipt upload and order administration.
type OrderController struct {
	orderService services.OrderService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// Create handles POST /orders. A valid bearer token links the order to
// the caller; otherwise it is a guest order.
func (oc *OrderController) Create(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.FromValidation(err))
		return
	}

	userID := middleware.OptionalUserID(c)
	order, err := oc.orderService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	middleware.RecordOrderCreated(userID == nil)
	c.JSON(http.StatusCreated, order)
}

// ListMine handles GET /orders/me.
func (oc *OrderController) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Respond(c, apperrors.ErrUnauthorized)
		return
	}

	orders, err := oc.orderService.ListMine(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UploadReceipt handles POST /orders/:id/receipt (multipart field "file").
func (oc *OrderController) UploadReceipt(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxReceiptBytes+multipartEnvelopeBytes)
	header, err := c.FormFile("file")
	if err != nil {
		middleware.RecordReceiptUpload("rejected")
		apperrors.Respond(c, formFileError(err))
		return
	}
	if header.Size > MaxReceiptBytes {
		middleware.RecordReceiptUpload("rejected")
		apperrors.Respond(c, apperrors.ErrPayloadTooLarge)
		return
	}

	file, err := header.Open()
	if err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}
	defer file.Close()

	resp, err := oc.orderService.UploadReceipt(c.Request.Context(), orderID, services.ReceiptFile{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: contentType(header),
		Size:        header.Size,
	})
	if err != nil {
		middleware.RecordReceiptUpload("failed")
		apperrors.Respond(c, err)
		return
	}
	middleware.RecordReceiptUpload("stored")
	c.JSON(http.StatusOK, resp)
}

// ListAll handles GET /orders/admin (admin only).
func (oc *OrderController) ListAll(c *gin.Context) {
	orders, err := oc.orderService.ListAll(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateStatus handles PUT /orders/:id/status (admin only).
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.FromValidation(err))
		return
	}

	order, err := oc.orderService.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	middleware.RecordStatusChange(string(req.Status))
	c.JSON(http.StatusOK, order)
}

// parseOrderID answers 404 for ids that cannot name an order.
func parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.ErrOrderNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func formFileError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
		return apperrors.Wrap(apperrors.ErrPayloadTooLarge, err)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return apperrors.Wrap(apperrors.ErrMissingFile, err)
	default:
		return apperrors.Wrap(apperrors.ErrBadRequest, err)
	}
}

func contentType(h *multipart.FileHeader) string {
	if ct := h.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
