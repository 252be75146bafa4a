// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/campus-marketplace/internal/i18n"
	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/services"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /admin/reports
func (h *AdminHandler) GetReports(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.AdminReportFilter{
		PaginationParams: params,
	}
	if targetType := c.Query("target_type"); targetType != "" {
		t := models.ReportTargetType(targetType)
		filter.TargetType = &t
	}

	reports, total, err := h.adminService.GetReports(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(reports, total, params))
}

// GET /admin/notifications
func (h *AdminHandler) GetNotifications(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.AdminNotificationFilter{
		PaginationParams: params,
	}
	if status := c.Query("status"); status != "" {
		s := models.NotificationStatus(status)
		filter.Status = &s
	}

	notifications, total, err := h.adminService.GetNotifications(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(notifications, total, params))
}

// PUT /admin/notifications/:id/read
func (h *AdminHandler) MarkNotificationRead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, utils.CodeBadRequest, i18n.T(lang, i18n.KeyValidationInvalid, "notification ID"), nil)
		return
	}

	notification, err := h.adminService.MarkNotificationRead(c.Request.Context(), id)
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			utils.Fail(c, utils.CodeNotFound, i18n.T(lang, i18n.KeyNotificationNotFound), nil)
			return
		}
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyNotificationRead),
		"notification": notification,
	})
}

// POST /admin/products/:id/questions
func (h *AdminHandler) RecordQuestion(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, utils.CodeBadRequest, i18n.T(lang, i18n.KeyValidationInvalid, "product ID"), nil)
		return
	}

	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, utils.CodeBadRequest, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	question, err := h.adminService.RecordQuestion(c.Request.Context(), productID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, question)
}
