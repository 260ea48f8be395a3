package controller

import (
	"juegos_edu_backend/internal/service"
	"juegos_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatisticsController struct {
	ReportingService *service.ReportingService
}

func NewStatisticsController(reportingService *service.ReportingService) *StatisticsController {
	return &StatisticsController{ReportingService: reportingService}
}

// @Summary Teacher dashboard for one game
// @Description totalStudents, averagePoints, averageAccuracy and completionRate across every student who played
// @Router /api/games/{gameId}/statistics [get]
func (c *StatisticsController) GetGameStatistics(ctx *gin.Context) {
	gameID := ctx.Param("gameId")

	stats, err := c.ReportingService.GetGameStatistics(ctx.Request.Context(), gameID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// @Summary Per-game progress rollup across a course roster
// @Router /api/courses/{courseId}/progress [get]
func (c *StatisticsController) GetCourseProgress(ctx *gin.Context) {
	courseID := ctx.Param("courseId")

	rollup, err := c.ReportingService.GetCourseProgressByGame(ctx.Request.Context(), courseID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, rollup)
}
