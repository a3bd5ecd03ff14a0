package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"laundromat/internal/database"
	"laundromat/internal/domain"
	"laundromat/internal/service"
	"laundromat/pkg/token"
)

type Server struct {
	auth    service.AuthService
	catalog service.CatalogService
	orders  service.OrderService
	tokens  *token.Manager
	health  database.Service
	logger  *slog.Logger
	engine  *gin.Engine
}

func NewServer(
	auth service.AuthService,
	catalog service.CatalogService,
	orders service.OrderService,
	tokens *token.Manager,
	health database.Service,
	logger *slog.Logger,
) *Server {
	s := &Server{
		auth:    auth,
		catalog: catalog,
		orders:  orders,
		tokens:  tokens,
		health:  health,
		logger:  logger,
		engine:  gin.New(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
	}))

	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/health", s.healthCheck)

	api := s.engine.Group("/api")
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	authed := api.Group("", s.authRequired)
	authed.GET("/services", s.listServices)
	authed.GET("/services/:id", s.getService)

	authed.POST("/orders", s.submitOrder)
	authed.GET("/orders", s.myOrders)
	authed.GET("/orders/:id/receipt", s.getReceipt)
	authed.GET("/orders/:id/receipt/qr", s.getReceiptQR)
	authed.GET("/orders/:id/payment", s.paymentInstructions)
	authed.POST("/orders/:id/payment/cash", s.payCash)
	authed.POST("/orders/:id/payment/online/confirm", s.confirmOnline)

	admin := authed.Group("/admin", s.adminRequired)
	admin.GET("/orders", s.listAllOrders)
	admin.PUT("/orders/:id/status", s.updateStatus)
	admin.GET("/users", s.listUsers)
	admin.POST("/services", s.createService)
	admin.PUT("/services/:id", s.updateService)
	admin.DELETE("/services/:id", s.deleteService)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, s.health.Health())
}

// respondError maps the domain error taxonomy onto HTTP statuses at the
// boundary; services never see status codes.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, token.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrAlreadyPaid), errors.Is(err, domain.ErrServiceInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
