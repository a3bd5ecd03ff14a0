package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laundromat/internal/domain"
	"laundromat/internal/service"
)

type serviceRequest struct {
	Name               string  `json:"name"`
	PricePerKg         float64 `json:"price_per_kg"`
	Description        string  `json:"description"`
	EstimatedTimeHours int     `json:"estimated_time_hours"`
}

type serviceResponse struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	PricePerKg         float64 `json:"price_per_kg"`
	Description        string  `json:"description"`
	EstimatedTimeHours int     `json:"estimated_time_hours"`
}

func toServiceResponse(svc *domain.Service) serviceResponse {
	return serviceResponse{
		ID:                 svc.ID,
		Name:               svc.Name,
		PricePerKg:         svc.PricePerKg,
		Description:        svc.Description,
		EstimatedTimeHours: svc.EstimatedTimeHours,
	}
}

func (s *Server) listServices(c *gin.Context) {
	services, err := s.catalog.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	resp := make([]serviceResponse, 0, len(services))
	for i := range services {
		resp = append(resp, toServiceResponse(&services[i]))
	}
	c.JSON(http.StatusOK, gin.H{"services": resp})
}

func (s *Server) getService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	svc, err := s.catalog.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(svc))
}

func (s *Server) createService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	svc, err := s.catalog.Create(c.Request.Context(), service.ServiceInput{
		Name:               req.Name,
		PricePerKg:         req.PricePerKg,
		Description:        req.Description,
		EstimatedTimeHours: req.EstimatedTimeHours,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toServiceResponse(svc))
}

func (s *Server) updateService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	svc, err := s.catalog.Update(c.Request.Context(), id, service.ServiceInput{
		Name:               req.Name,
		PricePerKg:         req.PricePerKg,
		Description:        req.Description,
		EstimatedTimeHours: req.EstimatedTimeHours,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(svc))
}

func (s *Server) deleteService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.catalog.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
