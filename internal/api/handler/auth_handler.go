package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/logger"
	"github.com/d60-Lab/gin-blog/pkg/metrics"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

const (
	msgAlreadySignedUp = "You've already signed up with that email, log in instead!"
	msgBadCredentials  = "Email or password incorrect, please try again."
)

func (h *Handler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": registerForm{}})
}

// Register 注册后自动登录
func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	errs, err := bindForm(c, &form)
	if err != nil {
		response.BadRequest(c, "Malformed form submission.")
		return
	}
	if errs != nil {
		form.Password = ""
		h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": form, "Errors": errs})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:    form.Email,
		Password: form.Password,
		Name:     form.Name,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			metrics.AuthEvent(metrics.EventRegisterTaken)
			h.redirect(c, "/login", msgAlreadySignedUp)
			return
		}
		response.InternalError(c, err)
		return
	}

	if _, err := h.sessions.Login(c.Request.Context(), c.Writer, c.Request, user.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	metrics.AuthEvent(metrics.EventRegister)
	h.redirect(c, "/")
}

func (h *Handler) LoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Log In", "Form": loginForm{}})
}

// Login 账号不存在与密码错误返回同一提示
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	errs, err := bindForm(c, &form)
	if err != nil {
		response.BadRequest(c, "Malformed form submission.")
		return
	}
	if errs != nil {
		form.Password = ""
		h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Log In", "Form": form, "Errors": errs})
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.AuthEvent(metrics.EventLoginFailed)
			h.redirect(c, "/login", msgBadCredentials)
			return
		}
		response.InternalError(c, err)
		return
	}

	if _, err := h.sessions.Login(c.Request.Context(), c.Writer, c.Request, user.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	metrics.AuthEvent(metrics.EventLogin)
	h.redirect(c, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), c.Writer, c.Request); err != nil {
		// Cookie 已清除，服务端会话到期后自然失效
		logger.Warn("delete session failed", zap.Error(err))
	}
	metrics.AuthEvent(metrics.EventLogout)
	h.redirect(c, "/")
}
