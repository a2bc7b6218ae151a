package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catena/internal/service"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// Fail maps the service error taxonomy onto HTTP statuses: validation 422,
// missing record 404, rules-engine failure 502, anything else 500.
func Fail(c *gin.Context, err error) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		Error(c, http.StatusUnprocessableEntity, validation.Reason, nil)
		return
	}
	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		Error(c, http.StatusNotFound, notFound.Error(), nil)
		return
	}
	var svc *service.ServiceError
	if errors.As(err, &svc) {
		Error(c, http.StatusBadGateway, svc.Error(), nil)
		return
	}
	Error(c, http.StatusInternalServerError, err.Error(), nil)
}
