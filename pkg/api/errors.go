package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxifrota/pkg/cep"
	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/service"
	"taxifrota/storage"
	"taxifrota/storage/files"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError maps service and storage errors to HTTP statuses. Anything
// unexpected is logged and answered with a generic 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "dados inválidos", Fields: verr.Fields})
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, cep.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "não encontrado"})
	case errors.Is(err, models.ErrInvalidStatus), errors.Is(err, cep.ErrInvalidCEP):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse{Error: "registro já existe"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "credenciais inválidas"})
	case errors.Is(err, files.ErrDisabled), errors.Is(err, service.ErrLookupDisabled):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		h.log.Error("request failed",
			logger.String("method", c.Request.Method),
			logger.String("path", c.FullPath()),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "erro interno"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}
