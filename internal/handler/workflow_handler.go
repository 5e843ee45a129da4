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

type WorkflowHandler struct {
	workflowService service.WorkflowService
}

func NewWorkflowHandler(workflowService service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowService: workflowService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *WorkflowHandler) RegisterRoutes(router *gin.RouterGroup) {
	approverRoles := middleware.RequireRole(
		workflow.RoleManager,
		workflow.RoleFinance,
		workflow.RoleDisbursement,
		workflow.RoleProcurement,
	)

	requests := router.Group("/api/requests", approverRoles)
	{
		requests.PATCH("/:id/status", h.UpdateStatus)
		requests.POST("/:id/items/:itemID/action", h.ItemAction)
	}
}

// UpdateStatus approves or rejects a request at its current stage
// @Summary      Approve or reject a request
// @Description  Moves the request forward one stage on approve, applying auto-skip when consecutive stages share an approver, or to rejected with a mandatory note
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                      true  "Request ID"
// @Param        payload  body      service.StatusUpdateDTO  true  "Decision"
// @Success      200      {object}  response.Response{data=service.StatusUpdateResult}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/requests/{id}/status [patch]
func (h *WorkflowHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request id"))
		return
	}

	var update service.StatusUpdateDTO
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "action is required"))
		return
	}

	actor := middleware.ActorFromContext(c)
	result, err := h.workflowService.UpdateStatus(c.Request.Context(), uint(id), actor, update)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ItemAction approves or rejects a single line item during the manager stage
// @Summary      Decide one line item
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                    true  "Request ID"
// @Param        itemID   path      int                    true  "Item ID"
// @Param        payload  body      service.ItemActionDTO  true  "Decision"
// @Success      200      {object}  response.Response{data=service.ItemActionResult}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/requests/{id}/items/{itemID}/action [post]
func (h *WorkflowHandler) ItemAction(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request id"))
		return
	}
	itemID, err := strconv.ParseUint(c.Param("itemID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid item id"))
		return
	}

	var update service.ItemActionDTO
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "action is required"))
		return
	}

	actor := middleware.ActorFromContext(c)
	result, err := h.workflowService.ItemAction(c.Request.Context(), uint(requestID), uint(itemID), actor, update)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
