package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"Clubhouse_Hub/internal/repository"
	"Clubhouse_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	CodeValidation   = "validation_error"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeAuthFailed   = "auth_failed"
	CodeNotSupported = "not_supported"
	CodeInternal     = "internal_error"
)

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params", "code": CodeValidation})
}

// fail 业务错误映射为 HTTP 状态码，未知错误只记录日志不外泄
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrEmailRequired):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error(), "code": CodeValidation})
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrMembershipRequired):
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error(), "code": CodeForbidden})
	case errors.Is(err, service.ErrProfileNotReady):
		c.JSON(http.StatusForbidden, gin.H{"msg": "profile required", "code": CodeForbidden})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found", "code": CodeNotFound})
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidLogin):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error(), "code": CodeAuthFailed})
	case errors.Is(err, repository.ErrNotSupported):
		c.JSON(http.StatusNotImplemented, gin.H{"msg": err.Error(), "code": CodeNotSupported})
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error", "code": CodeInternal})
	}
}
