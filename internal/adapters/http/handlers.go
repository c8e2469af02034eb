package http

import (
	"errors"
	"net/http"

	"github.com/dkeye/Activities/internal/app"
	"github.com/dkeye/Activities/internal/domain"
	"github.com/dkeye/Activities/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ActivityRegistry is what the handlers need from app.Registry.
type ActivityRegistry interface {
	List() app.Catalog
	Get(name string) (domain.Activity, error)
	Signup(name, email string) (string, error)
	Unregister(name, email string) (string, error)
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type Handlers struct {
	Registry ActivityRegistry
}

func (h *Handlers) listActivities(c *gin.Context) {
	c.JSON(http.StatusOK, h.Registry.List())
}

func (h *Handlers) getActivity(c *gin.Context) {
	a, err := h.Registry.Get(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handlers) signup(c *gin.Context) {
	msg, err := h.Registry.Signup(c.Param("name"), c.Query("email"))
	metrics.RegistrationsTotal.WithLabelValues("signup", outcomeFor(err)).Inc()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

func (h *Handlers) unregister(c *gin.Context) {
	msg, err := h.Registry.Unregister(c.Param("name"), c.Query("email"))
	metrics.RegistrationsTotal.WithLabelValues("unregister", outcomeFor(err)).Inc()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, domain.ErrInvalid):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.Request.URL.Path).Msg("request failed")
		detail = "internal error"
	}
	c.JSON(status, ErrorResponse{Detail: detail})
}
