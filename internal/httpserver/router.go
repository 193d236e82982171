package httpserver

import (
	"github.com/gin-gonic/gin"

	catalogports "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/ports"
	ordersports "github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"
	usersdomain "github.com/minimarket/go-gin-shop-server/internal/domains/users/domain"
	usersports "github.com/minimarket/go-gin-shop-server/internal/domains/users/ports"
	"github.com/minimarket/go-gin-shop-server/internal/platform/auth"
	apierrors "github.com/minimarket/go-gin-shop-server/internal/shared/errors"
)

// Server binds the use-case services to the gin HTTP surface.
type Server struct {
	users     usersports.Service
	catalog   catalogports.Service
	orders    ordersports.Service
	auth      *auth.Manager
	responder *apierrors.Responder
}

func NewServer(users usersports.Service, catalog catalogports.Service, orders ordersports.Service, authManager *auth.Manager) *Server {
	return &Server{
		users:     users,
		catalog:   catalog,
		orders:    orders,
		auth:      authManager,
		responder: newResponder(),
	}
}

// Router assembles all routes. Catalog mutation, the all-orders view, and
// refunds are privileged; everything under authenticate needs a valid token.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	authn := router.Group("/auth")
	{
		authn.POST("/register", s.Register)
		authn.POST("/login", s.Login)
		authn.GET("/profile", s.authenticate(), s.GetProfile)
	}

	products := router.Group("/products")
	{
		products.GET("", s.ListProducts)
		products.GET("/:id", s.GetProduct)
		products.POST("", s.authenticate(), s.requireRole(usersdomain.RoleAdmin), s.AddProduct)
		products.PUT("/:id", s.authenticate(), s.requireRole(usersdomain.RoleAdmin), s.UpdateProduct)
	}

	orders := router.Group("/orders", s.authenticate())
	{
		orders.POST("/create", s.requireRole(usersdomain.RoleCustomer), s.CreateOrder)
		orders.GET("/customer", s.GetCustomerOrders)
		orders.GET("/all", s.requireRole(usersdomain.RoleAdmin), s.GetAllOrders)
		orders.GET("/:id", s.GetOrder)
		orders.POST("/refund/:id", s.requireRefundCapability(), s.RefundOrder)
	}

	return router
}
