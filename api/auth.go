package api

import (
	"errors"
	"log"
	"strings"
	"time"

	"protrack/config"
	"protrack/middleware"
	"protrack/models"
	"protrack/store"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var timeNow = time.Now

// ResetMailer 发送密码重置邮件，*service.EmailService 满足该接口
type ResetMailer interface {
	SendPasswordResetEmail(toEmail, name, resetLink string) error
}

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg    *config.Config
	users  store.UserStore
	mailer ResetMailer
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, users store.UserStore, mailer ResetMailer) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		users:  users,
		mailer: mailer,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required" example:"test@example.com"`
	Name     string `json:"name" binding:"max=50" example:"Asha"`
	Password string `json:"password" binding:"required,min=6,max=50" example:"password123"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"test@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail 用 gin 的校验器检查去除首尾空白后的邮箱
func validEmail(email string) bool {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	return ok && v.Var(email, "required,email") == nil
}

// Register 用户注册
// @Summary 用户注册
// @Description 使用邮箱创建新用户账号
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=models.User} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "邮箱已注册"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	email := normalizeEmail(req.Email)
	if !validEmail(email) {
		BadRequest(c, "请输入有效的邮箱地址")
		return
	}

	// 检查邮箱是否已注册
	if _, err := h.users.GetUserByEmail(c.Request.Context(), email); err == nil {
		Conflict(c, "邮箱已注册")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		InternalError(c, SafeErrorMessage(err, "查询用户失败"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	user := models.User{
		Email:    email,
		Name:     strings.TrimSpace(req.Name),
		Password: string(hashedPassword),
	}
	if err := h.users.CreateUser(c.Request.Context(), &user); err != nil {
		InternalError(c, SafeErrorMessage(err, "创建用户失败"))
		return
	}

	SuccessWithMessage(c, "注册成功", user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 使用邮箱和密码登录，获取 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Failure 429 {object} Response "尝试过于频繁"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), normalizeEmail(req.Email))
	if err != nil {
		Unauthorized(c, "邮箱或密码错误")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "邮箱或密码错误")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, LoginResponse{
		Token:    token,
		UserInfo: *user,
	})
}

// GetProfile 获取用户信息
// @Summary 获取当前用户信息
// @Description 获取当前登录用户的详细信息
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		NotFound(c, "用户不存在")
		return
	}
	Success(c, user)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"oldpassword123"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50" example:"newpassword123"`
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Description 修改当前用户密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "密码信息"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "原密码错误"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.GetUser(ctx, middleware.GetCurrentUserID(c))
	if err != nil {
		NotFound(c, "用户不存在")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		Unauthorized(c, "原密码错误")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	if err := h.users.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		InternalError(c, SafeErrorMessage(err, "更新密码失败"))
		return
	}

	SuccessWithMessage(c, "密码修改成功", nil)
}

// RequestResetRequest 请求重置密码
type RequestResetRequest struct {
	Email string `json:"email" binding:"required" example:"test@example.com"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50"`
}

// RequestPasswordReset 请求密码重置（发送邮件）
// @Summary 请求密码重置
// @Description 通过邮箱请求密码重置，系统会发送包含重置链接的邮件。即使邮箱未注册也返回成功。
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RequestResetRequest true "邮箱地址"
// @Success 200 {object} Response "请求成功（无论邮箱是否注册）"
// @Failure 400 {object} Response "参数错误"
// @Failure 500 {object} Response "邮件发送失败"
// @Router /api/v1/auth/password/request-reset [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req RequestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请输入有效的邮箱地址")
		return
	}
	email := normalizeEmail(req.Email)
	if !validEmail(email) {
		BadRequest(c, "请输入有效的邮箱地址")
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.GetUserByEmail(ctx, email)
	if err != nil {
		SuccessWithMessage(c, "如果该邮箱已注册，您将收到密码重置邮件", nil)
		return
	}

	reset, err := models.NewPasswordReset(*user, timeNow())
	if err != nil {
		InternalError(c, "生成令牌失败")
		return
	}
	if err := h.users.CreatePasswordReset(ctx, reset); err != nil {
		InternalError(c, SafeErrorMessage(err, "创建重置令牌失败"))
		return
	}

	resetLink := h.cfg.Server.BaseURL + "/#/reset-password?token=" + reset.Token
	if err := h.mailer.SendPasswordResetEmail(user.Email, user.Name, resetLink); err != nil {
		log.Printf("发送重置邮件失败: user=%d err=%v", user.ID, err)
		InternalError(c, SafeErrorMessage(err, "邮件发送失败"))
		return
	}

	SuccessWithMessage(c, "密码重置邮件已发送，请检查您的邮箱", nil)
}

// ResetPassword 使用令牌重置密码
// @Summary 重置密码
// @Description 使用邮件中的令牌设置新密码，令牌 30 分钟内有效且只能使用一次
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "令牌与新密码"
// @Success 200 {object} Response "重置成功"
// @Failure 400 {object} Response "令牌无效、已使用或已过期"
// @Router /api/v1/auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	ctx := c.Request.Context()
	reset, err := h.users.GetPasswordReset(ctx, req.Token)
	if err != nil {
		BadRequest(c, "无效的令牌")
		return
	}
	if !reset.IsValid() {
		message := "令牌已失效"
		if reset.Used {
			message = "令牌已被使用"
		} else if reset.IsExpired() {
			message = "令牌已过期"
		}
		BadRequest(c, message)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	if err := h.users.ConsumePasswordReset(ctx, reset, string(hashedPassword)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			BadRequest(c, "令牌已被使用")
			return
		}
		InternalError(c, SafeErrorMessage(err, "重置密码失败"))
		return
	}

	SuccessWithMessage(c, "密码重置成功，请使用新密码登录", nil)
}
