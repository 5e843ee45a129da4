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

type ProcurementHandler struct {
	procurementService service.ProcurementService
}

func NewProcurementHandler(procurementService service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{procurementService: procurementService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ProcurementHandler) RegisterRoutes(router *gin.RouterGroup) {
	procurement := router.Group("/api/procurement", middleware.RequireRole(workflow.RoleProcurement))
	{
		procurement.GET("/requests", h.List)
		procurement.PATCH("/requests/:id", h.Update)
	}
}

// List returns the procurement workspace
// @Summary      List procurement requests
// @Description  Requests at the procurement stage plus completed ones, optionally narrowed by procurement status or "completed"
// @Tags         procurement
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending | adjusted | purchased | cancelled | completed | all"
// @Success      200     {object}  response.Response{data=[]service.RequestResponse}
// @Failure      400     {object}  response.Response
// @Router       /api/procurement/requests [get]
func (h *ProcurementHandler) List(c *gin.Context) {
	requests, err := h.procurementService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// Update applies a procurement adjustment or closes the request
// @Summary      Update procurement state
// @Description  Changes the secondary procurement status with a mandatory note, optionally adjusting line items; purchased or mark_completed closes the request
// @Tags         procurement
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                           true  "Request ID"
// @Param        payload  body      service.ProcurementUpdateDTO  true  "Adjustment"
// @Success      200      {object}  response.Response{data=service.ProcurementUpdateResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/procurement/requests/{id} [patch]
func (h *ProcurementHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request id"))
		return
	}

	var update service.ProcurementUpdateDTO
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid payload: "+err.Error()))
		return
	}

	actor := middleware.ActorFromContext(c)
	result, err := h.procurementService.Update(c.Request.Context(), uint(id), actor, update)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
