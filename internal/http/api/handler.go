package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/logitrack/internal/registration"
)

// healthLayout matches an ISO 8601 local time with microseconds.
const healthLayout = "2006-01-02T15:04:05.000000"

type Handler struct {
	RegistrationService *registration.Service
	now                 func() time.Time
}

func NewHandler(r *registration.Service) *Handler {
	return &Handler{
		RegistrationService: r,
		now:                 time.Now,
	}
}

// GET /api/health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Message:   "Servidor funcionando correctamente",
		Timestamp: h.now().Format(healthLayout),
	})
}

// POST /api/registrations
func (h *Handler) CreateRegistration(c echo.Context) error {
	var req registration.Request
	if err := c.Bind(&req); err != nil {
		log.Printf("POST /api/registrations: bind: %v", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Cuerpo de la solicitud inválido",
		})
	}

	res, err := h.RegistrationService.Create(c.Request().Context(), &req)
	if err != nil {
		var vErr *registration.ValidationError
		if errors.As(err, &vErr) {
			log.Printf("POST /api/registrations: rejected %s: %v", vErr.Kind, vErr)
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: vErr.Error(),
			})
		}

		log.Printf("POST /api/registrations: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Error del servidor: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, CreateResponse{
		Success:   true,
		Message:   "Registro guardado exitosamente en " + h.RegistrationService.StoreName(),
		Timestamp: res.Registration.Timestamp.Format(registration.TimestampLayout),
		Row:       res.Row,
	})
}

// GET /api/registrations
func (h *Handler) ListRegistrations(c echo.Context) error {
	records, err := h.RegistrationService.List(c.Request().Context())
	if err != nil {
		log.Printf("GET /api/registrations: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Data:    records,
		Count:   len(records),
	})
}
