package controller

import (
	"errors"
	"trade_edu_backend/internal/service"
	"trade_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 记录资料完成
// @Description 标记一份学习资料为已完成，首次完成奖励经验
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "资料ID"
// @Success 200 {object} util.Response
// @Router /api/materials/{id}/complete [post]
func (c *ProgressController) RecordCompletion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	materialID := ctx.Param("id")
	if materialID == "" {
		util.BadRequest(ctx, "invalid material id")
		return
	}

	completion, err := c.ProgressService.RecordCompletion(claims.UserID, materialID)
	if err != nil {
		if errors.Is(err, util.ErrMaterialNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	if completion == nil {
		util.Success(ctx, gin.H{"message": "Already completed"})
		return
	}

	util.Created(ctx, completion)
}

// @Summary 学习进度概览
// @Description 返回行为计数、推算经验与等级
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.ProgressService.GetProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}
