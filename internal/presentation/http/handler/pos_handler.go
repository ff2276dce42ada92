package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailops/backoffice-api/internal/application/service"
	"github.com/retailops/backoffice-api/internal/domain/enum"
	"github.com/retailops/backoffice-api/internal/domain/repository"
	"github.com/retailops/backoffice-api/internal/presentation/http/dto/request"
	"github.com/retailops/backoffice-api/internal/presentation/http/dto/response"
	"github.com/retailops/backoffice-api/pkg/pagination"
)

// POSHandler handles point-of-sale HTTP requests
type POSHandler struct {
	posService *service.POSService
}

// NewPOSHandler creates a new POS handler
func NewPOSHandler(posService *service.POSService) *POSHandler {
	return &POSHandler{posService: posService}
}

// RecordSale handles recording a completed sale
func (h *POSHandler) RecordSale(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.RecordSaleInput{
		CashierID: *userID,
		Customer: service.CustomerInfoInput{
			CustomerID: req.Customer.CustomerID,
			Name:       req.Customer.Name,
			Phone:      req.Customer.Phone,
			Email:      req.Customer.Email,
		},
		TaxAmount: req.TaxAmount,
		Notes:     req.Notes,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.SaleItemInput{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
		})
	}
	for _, payment := range req.Payments {
		input.Payments = append(input.Payments, service.SalePaymentInput{
			PaymentMethodID: payment.PaymentMethodID,
			Amount:          payment.Amount,
			ReferenceNumber: payment.ReferenceNumber,
		})
	}

	txn, err := h.posService.RecordSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", txn)
}

// Get handles retrieving a single transaction
func (h *POSHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.posService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", txn)
}

// List handles listing transactions
func (h *POSHandler) List(c *gin.Context) {
	var filter request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.POSTransactionFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}
	params.Pagination.Validate()

	if filter.Status != "" {
		status := enum.TransactionStatus(filter.Status)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid transaction status")
			return
		}
		params.Status = &status
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
	}
	if filter.CashierID != "" {
		cashierID, err := uuid.Parse(filter.CashierID)
		if err != nil {
			response.BadRequest(c, "Invalid cashier ID")
			return
		}
		params.CashierID = &cashierID
	}
	if filter.DateFrom != "" {
		from, err := time.Parse(time.RFC3339, filter.DateFrom)
		if err != nil {
			response.BadRequest(c, "Invalid date_from, expected RFC3339")
			return
		}
		params.DateFrom = &from
	}
	if filter.DateTo != "" {
		to, err := time.Parse(time.RFC3339, filter.DateTo)
		if err != nil {
			response.BadRequest(c, "Invalid date_to, expected RFC3339")
			return
		}
		params.DateTo = &to
	}

	result, err := h.posService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}
