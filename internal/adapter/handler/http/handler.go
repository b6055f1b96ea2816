package http

import (
	"net/http"

	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:     http.StatusInternalServerError,
	domain.ErrDataNotFound: http.StatusNotFound,

	domain.ErrBadRequest:        http.StatusBadRequest,
	domain.ErrInvalidSignature:  http.StatusBadRequest,
	domain.ErrMalformedCallback: http.StatusBadRequest,
	domain.ErrAmountMismatch:    http.StatusBadRequest,
	domain.ErrCurrencyMismatch:  http.StatusBadRequest,
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// handleError maps a domain error to a status and a JSON error body.
func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode, ok := errorStatusMap[err]
	if !ok {
		statusCode = http.StatusInternalServerError
		h.logger.Error("error processing request", zap.Error(err))
	}
	ctx.JSON(statusCode, gin.H{"error": err.Error()})
}

func (h *Handler) handleSuccess(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
