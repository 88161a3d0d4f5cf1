package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/corpgpt/auth-service/internal/core/domain"
)

func runRBAC(t *testing.T, role string, allowed ...domain.Role) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := RBAC(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return rec, handler(c)
}

func TestRBAC_AllowsListedRole(t *testing.T) {
	rec, err := runRBAC(t, "admin", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("expected pass-through, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_ForbidsOtherRole(t *testing.T) {
	_, err := runRBAC(t, "employee", domain.RoleAdmin)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRBAC_ForbidsMissingRole(t *testing.T) {
	_, err := runRBAC(t, "", domain.RoleAdmin)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRBAC_MultipleRoles(t *testing.T) {
	rec, err := runRBAC(t, "hr", domain.RoleAdmin, domain.RoleHR)
	if err != nil {
		t.Fatalf("expected pass-through, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
