package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/internal/workflow"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		requests := api.Group("/requests", middleware.RequireAuth())
		{
			requests.POST("", h.Create)
			requests.GET("", h.List)
			requests.GET("/:id", h.Get)
		}

		my := api.Group("/my", middleware.RequireAuth())
		{
			my.GET("/queue", h.Queue)
			my.GET("/approved", h.Approved)
			my.GET("/rejected", h.Rejected)
			my.GET("/requests", h.OwnRequests)
		}

		// Legacy alias kept for older frontends
		api.GET("/user/requests", middleware.RequireAuth(), h.OwnRequests)
	}
}

// Create submits a new purchase request
// @Summary      Create purchase request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRequestDTO  true  "New request"
// @Success      201      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var req service.CreateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request payload: "+err.Error()))
		return
	}

	actor := middleware.ActorFromContext(c)
	result, err := h.requestService.Create(c.Request.Context(), actor, req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// List returns requests visible to the caller, optionally filtered
// @Summary      List purchase requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "Workflow status filter"
// @Param        department  query     string  false  "Department filter (admin only)"
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Page size, max 100"
// @Success      200         {object}  response.Response{data=[]service.RequestResponse}
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	params := pagination.Parse(c)
	filter := service.ListRequestsFilter{
		Status:     workflow.Status(c.Query("status")),
		Department: c.Query("department"),
		Limit:      params.Limit,
		Offset:     params.Offset,
	}

	requests, err := h.requestService.List(c.Request.Context(), actor, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// Get returns one request with its items and approval table
// @Summary      Get purchase request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.RequestResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request id"))
		return
	}

	result, err := h.requestService.Get(c.Request.Context(), uint(id))
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Queue returns the caller's pending work with dashboard counters
// @Summary      My approval queue
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.QueueResponse}
// @Router       /api/my/queue [get]
func (h *RequestHandler) Queue(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	queue, err := h.requestService.Queue(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, queue))
}

// Approved lists requests the caller has approved
// @Summary      Requests I approved
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.DecisionResponse}
// @Router       /api/my/approved [get]
func (h *RequestHandler) Approved(c *gin.Context) {
	h.decided(c, workflow.ActionApprove)
}

// Rejected lists requests the caller has rejected
// @Summary      Requests I rejected
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.DecisionResponse}
// @Router       /api/my/rejected [get]
func (h *RequestHandler) Rejected(c *gin.Context) {
	h.decided(c, workflow.ActionReject)
}

func (h *RequestHandler) decided(c *gin.Context, action workflow.Action) {
	actor := middleware.ActorFromContext(c)

	result, err := h.requestService.DecidedByMe(c.Request.Context(), actor.Username, action)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// OwnRequests lists the caller's submitted requests
// @Summary      My submitted requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.RequestResponse}
// @Router       /api/my/requests [get]
func (h *RequestHandler) OwnRequests(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	requests, err := h.requestService.OwnRequests(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}
