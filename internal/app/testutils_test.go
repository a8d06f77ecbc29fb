package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/hall-designer/api"
	"github.com/metinatakli/hall-designer/internal/domain"
	"github.com/metinatakli/hall-designer/internal/validator"
	"github.com/shopspring/decimal"
)

func newTestApplication(opts ...func(*application)) *application {
	app := &application{
		validator:      validator.NewValidator(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionManager: scs.New(),
		rand:           rand.New(rand.NewPCG(1, 1)),
	}

	app.config.env = "test"
	app.config.managerPasscode = "test-passcode"
	app.config.ticketBasePrice = decimal.NewFromFloat(12.00)

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

// withURLParams attaches chi route parameters to a request built outside a
// router.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withSession loads an empty session into the request context so handlers
// that consult the session manager can run outside the middleware chain.
func withSession(t *testing.T, app *application, r *http.Request) *http.Request {
	t.Helper()

	ctx, err := app.sessionManager.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	return r.WithContext(ctx)
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	t.Helper()

	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	switch wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if wantErrMessage != "" && !errorSet[wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if wantErrMessage != "" && errorResp.Message != wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
		}
	}
}

// hallFixture builds a hall with a screen across row 0 and standard seats
// filling every remaining row.
func hallFixture(t *testing.T, name string, rows, cols int) *domain.HallLayout {
	t.Helper()

	layout, err := domain.NewHallLayout(rows, cols, name)
	if err != nil {
		t.Fatal(err)
	}

	for c := 0; c < cols; c++ {
		layout, err = layout.ApplyTool(0, c, domain.ToolScreen, "")
		if err != nil {
			t.Fatal(err)
		}
	}

	for r := 1; r < rows; r++ {
		for c := 0; c < cols; c++ {
			layout, err = layout.ApplyTool(r, c, domain.ToolSeat, domain.CategoryStandard)
			if err != nil {
				t.Fatal(err)
			}
		}
	}

	return layout
}

func ptr[T any](v T) *T {
	return &v
}
