package controller

import (
	"errors"
	"os"
	"path/filepath"
	"trade_edu_backend/internal/model"
	"trade_edu_backend/internal/service"
	"trade_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// @Summary 上传学习资料
// @Description 导师/管理员上传文章或课程视频
// @Tags 学习资料
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "资料文件"
// @Param title formData string true "标题"
// @Param type formData string true "类型 article/video"
// @Success 201 {object} util.Response
// @Router /api/mentor/materials [post]
func (c *ContentController) UploadMaterial(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.MaterialUploadRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	// 先落到临时文件，视频探测需要本地路径
	tmpPath := filepath.Join(os.TempDir(), model.GenerateUUID()+filepath.Ext(fileHeader.Filename))
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	material, err := c.ContentService.CreateMaterial(
		ctx.Request.Context(),
		claims.UserID,
		req,
		tmpPath,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, material)
}

// @Summary 学习资料列表
// @Tags 学习资料
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param category query string false "分类"
// @Param type query string false "类型 article/video"
// @Success 200 {object} util.Response
// @Router /api/materials [get]
func (c *ContentController) ListMaterials(ctx *gin.Context) {
	page, limit := parsePagination(ctx)
	category := ctx.Query("category")
	materialType := model.MaterialType(ctx.Query("type"))

	materials, total, err := c.ContentService.ListMaterials(page, limit, category, materialType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  materials,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 资料详情
// @Tags 学习资料
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "资料ID"
// @Success 200 {object} util.Response
// @Router /api/materials/{id} [get]
func (c *ContentController) GetMaterial(ctx *gin.Context) {
	material, err := c.ContentService.GetMaterial(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrMaterialNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, material)
}

// @Summary 删除资料
// @Tags 学习资料
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "资料ID"
// @Success 200 {object} util.Response
// @Router /api/mentor/materials/{id} [delete]
func (c *ContentController) DeleteMaterial(ctx *gin.Context) {
	if err := c.ContentService.DeleteMaterial(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Material deleted"})
}
