package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/internal/workflow"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AccountTypeHandler struct {
	accountTypeService service.AccountTypeService
}

func NewAccountTypeHandler(accountTypeService service.AccountTypeService) *AccountTypeHandler {
	return &AccountTypeHandler{accountTypeService: accountTypeService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AccountTypeHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.POST("/upload/account-types", middleware.RequireRole(workflow.RoleFinance), h.Upload)
		api.GET("/account-types", middleware.RequireAuth(), h.List)
	}
}

// Upload imports the chart of accounts from an .xlsx workbook
// @Summary      Upload account types
// @Description  Replaces the account type table with the rows of the uploaded Excel sheet
// @Tags         account-types
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  ".xlsx workbook"
// @Success      200   {object}  response.Response{data=service.ImportResult}
// @Failure      400   {object}  response.Response
// @Router       /api/upload/account-types [post]
func (h *AccountTypeHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "failed to read uploaded file"))
		return
	}
	defer file.Close()

	result, err := h.accountTypeService.ImportExcel(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// List returns the active account types with parent names resolved
// @Summary      List account types
// @Tags         account-types
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.AccountTypeResponse}
// @Router       /api/account-types [get]
func (h *AccountTypeHandler) List(c *gin.Context) {
	accountTypes, err := h.accountTypeService.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, accountTypes))
}
