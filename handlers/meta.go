package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/liuzy0419/pksync/models"
)

// Calendars returns the most recent calendar periods, newest first.
func (h *Handler) Calendars(c echo.Context) error {
	var calendars []models.Calendar
	err := h.db.NewSelect().
		Model(&calendars).
		OrderExpr("cal.calendarId DESC").
		Limit(8).
		Scan(c.Request().Context())
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, err.Error())
	}
	return jsonOk(c, calendars)
}

// Campuses returns all campus reference rows.
func (h *Handler) Campuses(c echo.Context) error {
	var campuses []models.Campus
	if err := h.db.NewSelect().Model(&campuses).Scan(c.Request().Context()); err != nil {
		return jsonErr(c, http.StatusInternalServerError, err.Error())
	}
	return jsonOk(c, campuses)
}

// Faculties returns all faculty reference rows.
func (h *Handler) Faculties(c echo.Context) error {
	var faculties []models.Faculty
	if err := h.db.NewSelect().Model(&faculties).Scan(c.Request().Context()); err != nil {
		return jsonErr(c, http.StatusInternalServerError, err.Error())
	}
	return jsonOk(c, faculties)
}

// LatestUpdateTime returns the date of the most recent sync run as
// "YYYY-MM-DD", or null when no run has been recorded.
func (h *Handler) LatestUpdateTime(c echo.Context) error {
	var logRow models.FetchLog
	err := h.db.NewSelect().
		Model(&logRow).
		OrderExpr("fl.fetchTime DESC").
		Limit(1).
		Scan(c.Request().Context())
	if errors.Is(err, sql.ErrNoRows) {
		return jsonOk(c, nil)
	}
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, err.Error())
	}
	return jsonOk(c, time.Unix(logRow.FetchTime, 0).UTC().Format("2006-01-02"))
}
