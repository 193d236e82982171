package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/domain"
	apierrors "github.com/minimarket/go-gin-shop-server/internal/shared/errors"
)

type productRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int32           `json:"stock"`
}

type productResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
	CreatedBy   int64           `json:"createdBy"`
}

func toProductResponse(product *catalogdomain.Product) productResponse {
	return productResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CreatedBy:   product.CreatedBy,
	}
}

// Post /products
// Add a product (admin)
func (s *Server) AddProduct(c *gin.Context) {
	var payload productRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	principal, _ := callerOf(c)
	product, err := catalogdomain.NewProduct(0, payload.Name, payload.Description, payload.Price, payload.Stock, principal.UserID)
	if err != nil {
		s.responder.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	saved, err := s.catalog.AddProduct(c.Request.Context(), product)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(saved))
}

// Get /products
// List all products
func (s *Server) ListProducts(c *gin.Context) {
	products, err := s.catalog.ListProducts(c.Request.Context())
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	result := make([]productResponse, 0, len(products))
	for _, product := range products {
		result = append(result, toProductResponse(product))
	}
	c.JSON(http.StatusOK, result)
}

// Get /products/:id
// Get a product by id
func (s *Server) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.responder.Respond(c, apierrors.ErrBadRequest.WithDetail("id must be a positive integer"))
		return
	}
	product, err := s.catalog.GetProductByID(c.Request.Context(), id)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// Put /products/:id
// Overwrite a product (admin)
func (s *Server) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		s.responder.Respond(c, apierrors.ErrBadRequest.WithDetail("id must be a positive integer"))
		return
	}
	var payload productRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	principal, _ := callerOf(c)
	product, err := catalogdomain.NewProduct(id, payload.Name, payload.Description, payload.Price, payload.Stock, principal.UserID)
	if err != nil {
		s.responder.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	updated, err := s.catalog.UpdateProduct(c.Request.Context(), product)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(updated))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
