package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	ordersdomain "github.com/minimarket/go-gin-shop-server/internal/domains/orders/domain"
	ordersports "github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"
	usersdomain "github.com/minimarket/go-gin-shop-server/internal/domains/users/domain"
	apierrors "github.com/minimarket/go-gin-shop-server/internal/shared/errors"
)

type orderLineRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int32 `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	Items []orderLineRequest `json:"items" binding:"required"`
}

type orderLineResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type orderResponse struct {
	ID       int64               `json:"id"`
	Number   string              `json:"number"`
	UserID   int64               `json:"userId"`
	PlacedAt time.Time           `json:"placedAt"`
	Total    decimal.Decimal     `json:"total"`
	Status   string              `json:"status"`
	Items    []orderLineResponse `json:"items"`
}

func toOrderResponse(order *ordersdomain.Order) orderResponse {
	items := make([]orderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, orderLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal(),
		})
	}
	return orderResponse{
		ID:       order.ID,
		Number:   order.Number,
		UserID:   order.UserID,
		PlacedAt: order.PlacedAt,
		Total:    order.Total,
		Status:   string(order.Status),
		Items:    items,
	}
}

func toOrderResponses(orders []*ordersdomain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toOrderResponse(order))
	}
	return result
}

// Post /orders/create
// Place an order for the authenticated customer
func (s *Server) CreateOrder(c *gin.Context) {
	var payload createOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	principal, ok := callerOf(c)
	if !ok {
		s.responder.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	lines := make([]ordersports.LineRequest, 0, len(payload.Items))
	for _, item := range payload.Items {
		lines = append(lines, ordersports.LineRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	order, err := s.orders.PlaceOrder(c.Request.Context(), principal.UserID, lines)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get /orders/customer
// List the authenticated caller's orders
func (s *Server) GetCustomerOrders(c *gin.Context) {
	principal, ok := callerOf(c)
	if !ok {
		s.responder.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	orders, err := s.orders.CustomerOrders(c.Request.Context(), principal.UserID)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Get /orders/:id
// Get an order by id; customers only see their own orders
func (s *Server) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.responder.Respond(c, apierrors.ErrBadRequest.WithDetail("id must be a positive integer"))
		return
	}
	principal, ok := callerOf(c)
	if !ok {
		s.responder.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	order, err := s.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if order.UserID != principal.UserID && !principal.HasRole(usersdomain.RoleAdmin) {
		s.responder.Respond(c, apierrors.ErrForbidden)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Get /orders/all
// List every order (admin)
func (s *Server) GetAllOrders(c *gin.Context) {
	orders, err := s.orders.AllOrders(c.Request.Context())
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Post /orders/refund/:id
// Refund an order (requires the refund capability)
func (s *Server) RefundOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.responder.Respond(c, apierrors.ErrBadRequest.WithDetail("id must be a positive integer"))
		return
	}
	order, err := s.orders.RefundOrder(c.Request.Context(), id)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}
