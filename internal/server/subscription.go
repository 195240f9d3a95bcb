package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/smallbiznis/subscriptions/internal/subscription/domain"
)

func (s *Server) CreateSubscriptionPlan(c *gin.Context) {
	in, err := bindInput(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.subscriptionSvc.CreatePlan(c.Request.Context(), in)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListSubscriptionPlans(c *gin.Context) {
	resp, err := s.subscriptionSvc.ListPlans(c.Request.Context(), subscriptiondomain.ListPlansRequest{
		Pagination: parsePagination(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     resp.Plans,
		"page":     resp.Page,
		"limit":    resp.Limit,
		"has_more": resp.HasMore,
	})
}

func (s *Server) GetSubscriptionPlanByID(c *gin.Context) {
	resp, err := s.subscriptionSvc.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreatePlanVariation(c *gin.Context) {
	in, err := bindInput(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.subscriptionSvc.CreateVariation(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) CreateSubscription(c *gin.Context) {
	in, err := bindInput(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.subscriptionSvc.CreateSubscription(c.Request.Context(), in)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
