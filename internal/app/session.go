package app

import (
	"crypto/subtle"
	"net/http"

	"github.com/metinatakli/hall-designer/api"
)

type sessionKey string

const (
	SessionKeyManager = sessionKey("manager")
	SessionKeyGuest   = sessionKey("guest")
)

func (s sessionKey) String() string {
	return string(s)
}

// CreateManagerSession grants the manager flag to the current session when
// the passcode matches. The flag is the only ambient state the editor keeps;
// it lives in the session store, never in a package variable.
func (app *application) CreateManagerSession(w http.ResponseWriter, r *http.Request) {
	var input api.ManagerSessionRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if app.config.managerPasscode == "" ||
		subtle.ConstantTimeCompare([]byte(input.Passcode), []byte(app.config.managerPasscode)) != 1 {
		app.unauthorizedAccessResponse(w, r)
		return
	}

	err = app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.sessionManager.Put(r.Context(), SessionKeyManager.String(), true)

	w.WriteHeader(http.StatusNoContent)
}

// DeleteManagerSession drops the manager flag (logout).
func (app *application) DeleteManagerSession(w http.ResponseWriter, r *http.Request) {
	app.sessionManager.Remove(r.Context(), SessionKeyManager.String())

	err := app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
