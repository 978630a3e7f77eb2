package presenter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agencyvault/agencyvault/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Created wraps a successful creation.
func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}

func BadRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func Unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: msg})
}

// Error maps a domain error to its HTTP status. Existence errors win
// over ownership, ownership over state conflicts, matching the order
// the usecases check them in.
func Error(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalid):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrExpiredToken):
		return c.JSON(http.StatusGone, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUpstream):
		slog.Error("upstream failure", slog.String("error", err.Error()), slog.String("module", "rest"))
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		slog.Error("internal error", slog.String("error", err.Error()), slog.String("module", "rest"))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
