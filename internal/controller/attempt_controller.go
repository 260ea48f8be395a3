package controller

import (
	"juegos_edu_backend/internal/model"
	"juegos_edu_backend/internal/service"
	"juegos_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	SubmissionService *service.SubmissionService
}

func NewAttemptController(submissionService *service.SubmissionService) *AttemptController {
	return &AttemptController{SubmissionService: submissionService}
}

// @Summary Submit one activity attempt
// @Description Appends an immutable attempt record carrying the student's cumulative point total
// @Router /api/attempts [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	var in service.SubmissionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// Students may only write their own log.
	if claims := util.GetUserFromContext(ctx); claims != nil {
		if claims.Role == model.Student && claims.UserID != in.StudentID {
			util.Forbidden(ctx)
			return
		}
	}

	attempt, err := c.SubmissionService.Submit(in)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, attempt)
}
