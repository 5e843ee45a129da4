package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/internal/workflow"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	requestService service.RequestService
}

func NewAdminHandler(requestService service.RequestService) *AdminHandler {
	return &AdminHandler{requestService: requestService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/api/admin", middleware.RequireRole(workflow.RoleAdmin))
	{
		admin.GET("/requests", h.RecentRequests)
		admin.POST("/reset-db", h.ResetDB)
	}
}

// RecentRequests returns the latest requests across all departments
// @Summary      Recent requests (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum rows, default 50"
// @Success      200    {object}  response.Response{data=[]service.RequestResponse}
// @Router       /api/admin/requests [get]
func (h *AdminHandler) RecentRequests(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	requests, err := h.requestService.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// ResetDB wipes all requests, items, history and notifications
// @Summary      Reset request data (admin)
// @Description  Deletes every purchase request together with its items and history. FOR DEMO ENVIRONMENTS ONLY.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /api/admin/reset-db [post]
func (h *AdminHandler) ResetDB(c *gin.Context) {
	if err := h.requestService.ResetAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"reset": true}))
}
