package controller

import (
	"errors"

	"classquiz_backend/internal/model"
	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

type StartSessionRequest struct {
	ModuleID string `json:"moduleId" binding:"required"`
}

// Start godoc
// @Summary 选择模块并创建答题会话
// @Description 加载并洗牌题目；会话处于 ready 状态，计时尚未开始
// @Tags 答题
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body StartSessionRequest true "模块 ID"
// @Success 201 {object} util.Response{data=service.SessionView}
// @Failure 404 {object} util.Response "模块不存在"
// @Failure 422 {object} util.Response "模块暂无题目"
// @Router /api/quiz/session [post]
func (c *SessionController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.SessionService.Start(ctx.Request.Context(), claims.UserID, claims.Email, req.ModuleID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrModuleEmpty):
			util.Error(ctx, 422, "该模块还没有题目")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, view)
}

// Begin godoc
// @Summary 开始答题，启动倒计时
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 404 {object} util.Response "没有进行中的会话"
// @Failure 409 {object} util.Response "会话状态不允许该操作"
// @Router /api/quiz/session/begin [post]
func (c *SessionController) Begin(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.SessionService.Begin(claims.UserID)
	if err != nil {
		c.sessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Snapshot godoc
// @Summary 查看当前会话状态
// @Description 返回剩余秒数与低时警告；警告一旦触发保持为 true
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 404 {object} util.Response "没有进行中的会话"
// @Router /api/quiz/session [get]
func (c *SessionController) Snapshot(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.SessionService.Snapshot(claims.UserID)
	if err != nil {
		c.sessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// SaveAnswer godoc
// @Summary 保存某题的作答
// @Description 重复提交同一题会覆盖之前的作答
// @Tags 答题
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   questionId path string true "题目 ID"
// @Param   body body model.AnswerValue true "作答内容，kind 必须与题目一致"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 400 {object} util.Response "作答校验失败"
// @Failure 404 {object} util.Response "会话或题目不存在"
// @Failure 409 {object} util.Response "会话不在答题中"
// @Router /api/quiz/session/answers/{questionId} [put]
func (c *SessionController) SaveAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var answer model.AnswerValue
	if err := ctx.ShouldBindJSON(&answer); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.SessionService.SaveAnswer(claims.UserID, ctx.Param("questionId"), answer)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAnswerKindMismatch):
			util.BadRequest(ctx, "作答类型与题目类型不一致")
		case errors.Is(err, util.ErrSessionNotFound), errors.Is(err, util.ErrSessionPhase):
			c.sessionError(ctx, err)
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, view)
}

// Submit godoc
// @Summary 交卷
// @Description 手动交卷要求全部题目已作答；超时后该限制失效
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.QuizResult}
// @Failure 404 {object} util.Response "没有进行中的会话"
// @Failure 409 {object} util.Response "会话状态不允许交卷"
// @Failure 422 {object} util.Response "还有未作答的题目"
// @Router /api/quiz/session/submit [post]
func (c *SessionController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.SessionService.Submit(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrIncompleteAnswers) {
			util.Error(ctx, 422, "还有未作答的题目")
			return
		}
		c.sessionError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Result godoc
// @Summary 查看已交卷会话的逐题回顾
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.QuizResult}
// @Failure 404 {object} util.Response "没有已完成的会话"
// @Router /api/quiz/session/result [get]
func (c *SessionController) Result(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.SessionService.Result(claims.UserID)
	if err != nil {
		c.sessionError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Reset godoc
// @Summary 放弃/结束当前会话
// @Description 取消计时器并丢弃会话状态
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "没有进行中的会话"
// @Router /api/quiz/session [delete]
func (c *SessionController) Reset(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.SessionService.Reset(claims.UserID); err != nil {
		c.sessionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reset": true})
}

func (c *SessionController) sessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrAlreadySubmitted):
		util.Conflict(ctx, "该会话已交卷")
	case errors.Is(err, util.ErrSessionPhase):
		util.Conflict(ctx, "会话状态不允许该操作")
	default:
		util.LogInternalError(ctx, err)
	}
}
