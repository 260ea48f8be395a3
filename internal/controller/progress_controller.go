package controller

import (
	"juegos_edu_backend/internal/service"
	"juegos_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ReportingService *service.ReportingService
	ProgressService  *service.ProgressService
	CatalogService   *service.CatalogService
}

func NewProgressController(
	reportingService *service.ReportingService,
	progressService *service.ProgressService,
	catalogService *service.CatalogService,
) *ProgressController {
	return &ProgressController{
		ReportingService: reportingService,
		ProgressService:  progressService,
		CatalogService:   catalogService,
	}
}

// @Summary Progress snapshots for a student
// @Description One snapshot per attempted game, or a single one when gameId is given
// @Router /api/students/{studentId}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	studentID := ctx.Param("studentId")
	gameID := ctx.Param("gameId")

	snapshots, err := c.ReportingService.GetProgress(studentID, gameID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, snapshots)
}

// @Summary Highest level the student may play
// @Router /api/students/{studentId}/unlocked/{gameId} [get]
func (c *ProgressController) GetUnlockedLevel(ctx *gin.Context) {
	studentID := ctx.Param("studentId")
	gameID := ctx.Param("gameId")

	level := c.ProgressService.MaxUnlockedLevel(studentID, gameID)

	util.Success(ctx, gin.H{
		"gameId":           gameID,
		"maxUnlockedLevel": level,
	})
}

// @Summary Level catalog for a game
// @Router /api/games/{gameId}/levels [get]
func (c *ProgressController) GetGameLevels(ctx *gin.Context) {
	gameID := ctx.Param("gameId")

	levels, err := c.CatalogService.LevelsForGame(gameID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, levels)
}
