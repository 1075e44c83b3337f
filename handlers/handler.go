package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db        *bun.DB
	JWTKey    []byte
	adminHash string
}

// New creates a Handler with the given database connection, JWT signing key
// and admin bcrypt hash.
func New(db *bun.DB, jwtKey []byte, adminHash string) *Handler {
	return &Handler{db: db, JWTKey: jwtKey, adminHash: adminHash}
}

// envelope is the response shape every public endpoint returns.
type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

func jsonOk(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Code: 200, Msg: "查询成功", Data: data})
}

func jsonErr(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Code: status, Msg: msg, Data: map[string]any{}})
}
