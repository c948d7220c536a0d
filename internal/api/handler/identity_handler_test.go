package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/facetrack/attendance-system/internal/core/domain"
	"github.com/facetrack/attendance-system/internal/core/ports"
)

func TestRegisterIdentityHandler(t *testing.T) {
	svc := &stubAttendanceService{
		register: func(_ context.Context, input ports.RegisterIdentityInput) (*ports.RegisterIdentityResult, error) {
			if input.DisplayName != "Alice" || input.EmployeeCode != "emp-001" {
				t.Errorf("unexpected input: %+v", input)
			}
			if len(input.Descriptors) != 2 {
				t.Errorf("got %d descriptors, want 2", len(input.Descriptors))
			}
			return &ports.RegisterIdentityResult{
				IdentityID:   "id-1",
				EmployeeCode: "EMP-001",
				Descriptors:  2,
			}, nil
		},
	}

	body := `{"name":"Alice","employee_code":"emp-001","descriptors":[[0.1,0.2],[0.3,0.4]]}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/identities", body)
	if err := NewIdentityHandler(svc).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}

	var resp registerIdentityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.IdentityID != "id-1" || resp.EmployeeCode != "EMP-001" || resp.Descriptors != 2 {
		t.Errorf("unexpected body: %+v", resp)
	}
}

func TestRegisterIdentityHandlerValidation(t *testing.T) {
	svc := &stubAttendanceService{
		register: func(context.Context, ports.RegisterIdentityInput) (*ports.RegisterIdentityResult, error) {
			t.Fatal("service must not be called on invalid payload")
			return nil, nil
		},
	}
	h := NewIdentityHandler(svc)

	for name, body := range map[string]string{
		"missing name":      `{"employee_code":"EMP-001","descriptors":[[0.1]]}`,
		"missing code":      `{"name":"Alice","descriptors":[[0.1]]}`,
		"no descriptors":    `{"name":"Alice","employee_code":"EMP-001","descriptors":[]}`,
		"empty descriptor":  `{"name":"Alice","employee_code":"EMP-001","descriptors":[[]]}`,
		"malformed payload": `{"name":`,
	} {
		c, _ := newTestContext(t, http.MethodPost, "/v1/identities", body)
		err := h.Register(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusBadRequest {
			t.Errorf("%s: err = %v, want 400", name, err)
		}
	}
}

func TestRegisterIdentityHandlerPropagatesConflicts(t *testing.T) {
	for _, sentinel := range []error{domain.ErrDuplicateEmployeeCode, domain.ErrDuplicateFace} {
		svc := &stubAttendanceService{
			register: func(context.Context, ports.RegisterIdentityInput) (*ports.RegisterIdentityResult, error) {
				return nil, sentinel
			},
		}
		body := `{"name":"Alice","employee_code":"EMP-001","descriptors":[[0.1]]}`
		c, _ := newTestContext(t, http.MethodPost, "/v1/identities", body)
		if err := NewIdentityHandler(svc).Register(c); !errors.Is(err, sentinel) {
			t.Errorf("err = %v, want %v passed through", err, sentinel)
		}
	}
}

func TestDeactivateIdentityHandler(t *testing.T) {
	var captured string
	svc := &stubAttendanceService{
		deactivate: func(_ context.Context, employeeCode string) error {
			captured = employeeCode
			return nil
		},
	}

	c, rec := newTestContext(t, http.MethodDelete, "/v1/identities/EMP-001", "")
	c.SetParamNames("code")
	c.SetParamValues("EMP-001")

	if err := NewIdentityHandler(svc).Deactivate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if captured != "EMP-001" {
		t.Errorf("deactivated %q, want EMP-001", captured)
	}
}

func TestDeactivateIdentityHandlerNotFound(t *testing.T) {
	svc := &stubAttendanceService{
		deactivate: func(context.Context, string) error {
			return domain.ErrIdentityNotFound
		},
	}

	c, _ := newTestContext(t, http.MethodDelete, "/v1/identities/EMP-404", "")
	c.SetParamNames("code")
	c.SetParamValues("EMP-404")

	if err := NewIdentityHandler(svc).Deactivate(c); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Errorf("err = %v, want ErrIdentityNotFound passed through", err)
	}
}
