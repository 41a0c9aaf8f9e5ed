package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gridclash/arena-api/services"
)

// maxBodyBytes caps JSON request bodies. Uploads go through multipart
// handlers with their own limit.
const maxBodyBytes = 1 << 20

type envelope map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return fmt.Errorf("request body exceeds %d bytes", maxBytesErr.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return fmt.Errorf("invalid JSON body: %w", err)
		}
	}

	// A second document after the first is a malformed request.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"error": message})
}

func badRequest(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusBadRequest, err.Error())
}

// urlParamInt extracts a positive integer path parameter.
func urlParamInt(r *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return value, nil
}

// mapServiceError translates the service error taxonomy into an HTTP
// response. Unrecognized errors become opaque 500s so internals never
// leak to clients.
func mapServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrRegistrationNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrNotFound):
		errorResponse(w, http.StatusNotFound, err.Error())

	// Duplicates surface as 400 with a message naming the field, the
	// same shape as other validation failures.
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrPhoneTaken),
		errors.Is(err, services.ErrTeamNameTaken),
		errors.Is(err, services.ErrMemberExists),
		errors.Is(err, services.ErrAlreadyRegistered),
		errors.Is(err, services.ErrTeamTooSmall),
		errors.Is(err, services.ErrTournamentFull),
		errors.Is(err, services.ErrTournamentClosed),
		errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrInvalidGameType),
		errors.Is(err, services.ErrInvalidTeamMode),
		errors.Is(err, services.ErrInvalidMemberRole),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrRoomCredentialsNeeded),
		errors.Is(err, services.ErrTeamModeMismatch):
		errorResponse(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		errorResponse(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrOwnerOnly),
		errors.Is(err, services.ErrAdminOnly),
		errors.Is(err, services.ErrProtectedIdentity):
		errorResponse(w, http.StatusForbidden, err.Error())

	default:
		slog.Error("unhandled service error", slog.Any("error", err))
		errorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}
