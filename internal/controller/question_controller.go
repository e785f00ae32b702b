package controller

import (
	"errors"

	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// ListByModule godoc
// @Summary 模块题目列表（含答案与解析）
// @Tags 教师
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "模块 ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/teacher/modules/{id}/questions [get]
func (c *QuestionController) ListByModule(ctx *gin.Context) {
	questions, err := c.QuestionService.ListByModule(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, questions)
}

// Create godoc
// @Summary 新增题目
// @Tags 教师
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "模块 ID"
// @Param   body body service.QuestionInput true "题目内容"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response "题目校验失败"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/teacher/modules/{id}/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var input service.QuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Create(ctx.Param("id"), input)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, question)
}

// Update godoc
// @Summary 更新题目
// @Tags 教师
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "题目 ID"
// @Param   body body service.QuestionInput true "题目内容"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response "题目校验失败"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/teacher/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	var input service.QuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Update(ctx.Param("id"), input)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, question)
}

// Delete godoc
// @Summary 删除题目
// @Tags 教师
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "题目 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/teacher/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	if err := c.QuestionService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
