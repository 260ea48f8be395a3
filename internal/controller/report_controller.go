package controller

import (
	"juegos_edu_backend/internal/service"
	"juegos_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportingService *service.ReportingService
}

func NewReportController(reportingService *service.ReportingService) *ReportController {
	return &ReportController{ReportingService: reportingService}
}

type generateReportRequest struct {
	RecentDays int `json:"recentDays"`
}

// @Summary Narrative progress report for a student
// @Description Windows the student's recent attempts and asks the text generator for a family-facing report
// @Router /api/students/{studentId}/report [post]
func (c *ReportController) GenerateReport(ctx *gin.Context) {
	studentID := ctx.Param("studentId")

	var req generateReportRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}
	if req.RecentDays < 0 {
		util.BadRequest(ctx, "recentDays: must be >= 0")
		return
	}

	report, err := c.ReportingService.GenerateReport(ctx.Request.Context(), studentID, req.RecentDays)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, report)
}
