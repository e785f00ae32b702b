package controller

import (
	"errors"

	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	ModuleService *service.ModuleService
}

func NewModuleController(moduleService *service.ModuleService) *ModuleController {
	return &ModuleController{ModuleService: moduleService}
}

// List godoc
// @Summary 模块列表
// @Description 返回所有可选模块，可按学科过滤
// @Tags 模块
// @Produce  json
// @Security BearerAuth
// @Param   subject query string false "学科名称"
// @Success 200 {object} util.Response{data=[]service.ModuleSummary}
// @Router /api/modules [get]
func (c *ModuleController) List(ctx *gin.Context) {
	modules, err := c.ModuleService.List(ctx.Query("subject"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// Get godoc
// @Summary 模块详情
// @Description 学生视角：题目不含正确答案与解析
// @Tags 模块
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "模块 ID"
// @Success 200 {object} util.Response{data=service.ModuleDetail}
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{id} [get]
func (c *ModuleController) Get(ctx *gin.Context) {
	module, err := c.ModuleService.Detail(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, module)
}

// Create godoc
// @Summary 创建模块
// @Tags 教师
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ModuleInput true "模块信息"
// @Success 201 {object} util.Response{data=model.Module}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无教师权限"
// @Router /api/teacher/modules [post]
func (c *ModuleController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.ModuleInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.ModuleService.Create(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// Update godoc
// @Summary 更新模块
// @Tags 教师
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "模块 ID"
// @Param   body body service.ModuleInput true "模块信息"
// @Success 200 {object} util.Response{data=model.Module}
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/teacher/modules/{id} [put]
func (c *ModuleController) Update(ctx *gin.Context) {
	var input service.ModuleInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.ModuleService.Update(ctx.Request.Context(), ctx.Param("id"), input)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, module)
}

// Delete godoc
// @Summary 删除模块
// @Description 级联删除题目与答题记录
// @Tags 教师
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "模块 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/teacher/modules/{id} [delete]
func (c *ModuleController) Delete(ctx *gin.Context) {
	err := c.ModuleService.Delete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// DeleteBySubject godoc
// @Summary 删除某学科下的全部模块
// @Tags 教师
// @Produce  json
// @Security BearerAuth
// @Param   subject query string true "学科名称"
// @Success 200 {object} util.Response{data=object} "返回删除数量"
// @Failure 400 {object} util.Response "缺少 subject 参数"
// @Router /api/teacher/modules [delete]
func (c *ModuleController) DeleteBySubject(ctx *gin.Context) {
	subject := ctx.Query("subject")
	if subject == "" {
		util.BadRequest(ctx, "缺少 subject 参数")
		return
	}

	deleted, err := c.ModuleService.DeleteBySubject(ctx.Request.Context(), subject)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": deleted})
}
