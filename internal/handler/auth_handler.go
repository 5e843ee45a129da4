package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.POST("/login", h.Login)
		api.GET("/me", middleware.RequireAuth(), h.Me)
		api.GET("/my-signature", middleware.RequireAuth(), h.GetSignature)
		api.POST("/my-signature", middleware.RequireAuth(), h.SaveSignature)
		api.GET("/approval-managers", middleware.RequireAuth(), h.ApprovalManagers)
	}
}

// Login handles POST /api/login to authenticate and return a JWT token
// @Summary      Login user
// @Description  Authenticates a user by username and password, returning a JWT token and dashboard redirect
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "username and password are required"))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Me returns the authenticated user's profile
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid user id in token"))
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// GetSignature returns the stored signature image for the current user
// @Summary      Get my signature
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.SignatureResponse}
// @Router       /api/my-signature [get]
func (h *AuthHandler) GetSignature(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid user id in token"))
		return
	}

	sig, err := h.authService.GetSignature(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sig))
}

// SaveSignature stores a signature image for reuse on approvals
// @Summary      Save my signature
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      object{signature=string}  true  "Base64 signature image"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/my-signature [post]
func (h *AuthHandler) SaveSignature(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid user id in token"))
		return
	}

	var req struct {
		Signature string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "signature is required"))
		return
	}

	if err := h.authService.SaveSignature(c.Request.Context(), userID, req.Signature); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"saved": true}))
}

// ApprovalManagers resolves the approver names shown on the new-request form
// @Summary      Approval managers for a department
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        department  query     string  false  "Department name, defaults to the caller's"
// @Success      200         {object}  response.Response{data=service.ApprovalManagersResponse}
// @Router       /api/approval-managers [get]
func (h *AuthHandler) ApprovalManagers(c *gin.Context) {
	department := c.Query("department")
	if department == "" {
		department = middleware.ActorFromContext(c).Department
	}

	managers, err := h.authService.ApprovalManagers(c.Request.Context(), department)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, managers))
}
