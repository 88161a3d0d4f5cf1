package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/corpgpt/auth-service/internal/core/ports"
)

const defaultAuditLimit = 50

type AuditHandler struct {
	repo ports.AuditRepository
}

func NewAuditHandler(repo ports.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

type auditEntryResponse struct {
	Actor    string    `json:"actor"`
	Action   string    `json:"action"`
	Metadata string    `json:"metadata,omitempty"`
	At       time.Time `json:"at"`
}

// List returns the most recent audit entries, newest first. Admin only.
//
// @Summary      List audit entries
// @Tags         audit
// @Produce      json
// @Param        limit  query     int  false  "Max entries (default 50)"
// @Success      200    {array}   auditEntryResponse
// @Failure      403    {object}  map[string]string
// @Router       /api/audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	limit := int64(defaultAuditLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		limit = n
	}

	entries, err := h.repo.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryResponse{
			Actor:    e.Actor,
			Action:   e.Action,
			Metadata: e.Metadata,
			At:       e.At,
		})
	}
	return c.JSON(http.StatusOK, out)
}
