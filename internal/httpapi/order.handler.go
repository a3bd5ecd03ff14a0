package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"laundromat/internal/domain"
	"laundromat/internal/pricing"
)

type submitOrderRequest struct {
	ServiceID int64   `json:"service_id"`
	Weight    float64 `json:"weight"`
}

type updateStatusRequest struct {
	Status     string     `json:"status"`
	PickupDate *time.Time `json:"pickup_date,omitempty"`
}

type orderResponse struct {
	ID            int64   `json:"id"`
	ServiceID     int64   `json:"service_id"`
	OrderDate     string  `json:"order_date"`
	PickupDate    string  `json:"pickup_date"`
	Status        string  `json:"status"`
	Weight        float64 `json:"weight"`
	TotalPrice    float64 `json:"total_price"`
	PaymentMethod string  `json:"payment_method"`
	PaymentStatus string  `json:"payment_status"`
	RemainingTime string  `json:"remaining_time,omitempty"`
	Customer      string  `json:"customer,omitempty"`
}

const timeLayout = "2006-01-02 15:04:05"

func toOrderResponse(o *domain.Order, now time.Time) orderResponse {
	method := "Not selected"
	if o.PaymentMethod != domain.PaymentUnset {
		method = string(o.PaymentMethod)
	}
	return orderResponse{
		ID:            o.ID,
		ServiceID:     o.ServiceID,
		OrderDate:     o.OrderDate.Format(timeLayout),
		PickupDate:    o.PickupDate.Format(timeLayout),
		Status:        string(o.Status),
		Weight:        o.Weight,
		TotalPrice:    pricing.DisplayPrice(o.TotalPrice),
		PaymentMethod: method,
		PaymentStatus: string(o.PaymentStatus),
		RemainingTime: o.RemainingTime(now),
	}
}

func (s *Server) submitOrder(c *gin.Context) {
	var req submitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	claims := currentClaims(c)
	order, err := s.orders.Submit(c.Request.Context(), claims.UserID, req.ServiceID, req.Weight)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order, time.Now()))
}

func (s *Server) myOrders(c *gin.Context) {
	claims := currentClaims(c)
	orders, err := s.orders.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	now := time.Now()
	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i], now))
	}
	c.JSON(http.StatusOK, gin.H{"orders": resp})
}

func (s *Server) listAllOrders(c *gin.Context) {
	orders, err := s.orders.ListAll(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	now := time.Now()
	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		r := toOrderResponse(&orders[i].Order, now)
		r.Customer = orders[i].Customer
		resp = append(resp, r)
	}
	c.JSON(http.StatusOK, gin.H{"orders": resp})
}

func (s *Server) updateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := s.orders.UpdateStatus(c.Request.Context(), id, domain.Status(req.Status), req.PickupDate)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order, time.Now()))
}

// ownsOrder gates customers to their own orders; admins see everything.
func (s *Server) ownsOrder(c *gin.Context, orderID int64) bool {
	claims := currentClaims(c)
	if claims.Admin {
		return true
	}
	order, err := s.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		s.respondError(c, err)
		return false
	}
	if order.UserID != claims.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return false
	}
	return true
}

func (s *Server) payCash(c *gin.Context) {
	id, ok := idParam(c)
	if !ok || !s.ownsOrder(c, id) {
		return
	}

	order, err := s.orders.SelectCashPayment(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order, time.Now()))
}

func (s *Server) confirmOnline(c *gin.Context) {
	id, ok := idParam(c)
	if !ok || !s.ownsOrder(c, id) {
		return
	}

	rec, err := s.orders.ConfirmOnlinePayment(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReceiptResponse(rec))
}

func (s *Server) paymentInstructions(c *gin.Context) {
	id, ok := idParam(c)
	if !ok || !s.ownsOrder(c, id) {
		return
	}

	in, err := s.orders.PaymentInstructions(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id":  in.OrderID,
		"bank":      in.Bank,
		"account":   in.Account,
		"amount":    in.Amount,
		"reference": in.Reference,
		"qr":        in.QR,
	})
}

type receiptResponse struct {
	OrderID       int64   `json:"order_id"`
	Customer      string  `json:"customer"`
	Service       string  `json:"service"`
	Weight        float64 `json:"weight"`
	TotalPrice    float64 `json:"total_price"`
	OrderDate     string  `json:"order_date"`
	PickupDate    string  `json:"pickup_date"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	PaymentMethod string  `json:"payment_method"`
	Artifact      []byte  `json:"artifact,omitempty"`
}

func toReceiptResponse(rec *domain.Receipt) receiptResponse {
	method := "Not selected"
	if rec.PaymentMethod != domain.PaymentUnset {
		method = string(rec.PaymentMethod)
	}
	return receiptResponse{
		OrderID:       rec.OrderID,
		Customer:      rec.Customer,
		Service:       rec.Service,
		Weight:        rec.Weight,
		TotalPrice:    pricing.DisplayPrice(rec.TotalPrice),
		OrderDate:     rec.OrderDate.Format(timeLayout),
		PickupDate:    rec.PickupDate.Format(timeLayout),
		Status:        string(rec.Status),
		PaymentStatus: string(rec.PaymentStatus),
		PaymentMethod: method,
		Artifact:      rec.Artifact,
	}
}

func (s *Server) getReceipt(c *gin.Context) {
	id, ok := idParam(c)
	if !ok || !s.ownsOrder(c, id) {
		return
	}

	rec, err := s.orders.Receipt(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReceiptResponse(rec))
}

func (s *Server) getReceiptQR(c *gin.Context) {
	id, ok := idParam(c)
	if !ok || !s.ownsOrder(c, id) {
		return
	}

	rec, err := s.orders.Receipt(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if len(rec.Artifact) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "receipt artifact not rendered yet"})
		return
	}
	c.Data(http.StatusOK, "image/png", rec.Artifact)
}
