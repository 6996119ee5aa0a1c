package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/respond"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report JSON field names instead of Go field names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// maxbytes bounds len(s) in bytes; max counts runes.
	_ = validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
}

// errorKind maps an error kind to its response status and stable code.
type errorKind struct {
	kind    error
	status  int
	code    string
	message string
}

// Order matters: the first kind matched wins.
var errorKinds = []errorKind{
	{apperr.ErrBadCredentials, http.StatusUnauthorized, "unauthorized", "incorrect username or password"},
	{apperr.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "could not validate credentials"},
	{apperr.ErrInvalidPagination, http.StatusBadRequest, "invalid_pagination", "invalid pagination"},
	{apperr.ErrValidation, http.StatusBadRequest, "validation_failed", "validation failed"},
	{apperr.ErrNotFound, http.StatusNotFound, "not_found", "not found"},
	{apperr.ErrDuplicateUsername, http.StatusConflict, "duplicate_username", "username already exists"},
	{apperr.ErrDuplicateOwner, http.StatusConflict, "duplicate_owner", "user already owns a candidate profile"},
	{apperr.ErrReportNotReady, http.StatusConflict, "report_not_ready", "report is not yet ready"},
}

// JSONError writes err as an error envelope. Known kinds map to their status
// and code; anything else is logged and answered with a generic 500.
func JSONError(w http.ResponseWriter, r *http.Request, err error) {
	for _, k := range errorKinds {
		if !errors.Is(err, k.kind) {
			continue
		}
		if k.status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		var fe *apperr.FieldError
		if errors.As(err, &fe) {
			respond.ValidationError(w, k.status, k.code, k.message, map[string]string{fe.Field: fe.Message})
			return
		}
		respond.Error(w, k.status, k.code, k.message)
		return
	}

	slog.Error("request failed",
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
	respond.Error(w, http.StatusInternalServerError, "internal", ErrMessageInternal)
}

// JSONValidationError sends a 400 envelope with field-level details.
func JSONValidationError(w http.ResponseWriter, fields map[string]string) {
	respond.ValidationError(w, http.StatusBadRequest, "validation_failed", "validation failed", fields)
}

// decodeJSON decodes the request body into dst and validates it. On failure
// the response has been written and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respond.Error(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
		case errors.Is(err, io.EOF):
			respond.Error(w, http.StatusBadRequest, "invalid_json", "request body is empty")
		default:
			respond.Error(w, http.StatusBadRequest, "invalid_json", "invalid JSON")
		}
		return false
	}
	return validateStruct(w, dst)
}

// validateStruct runs the validate tags on v.
func validateStruct(w http.ResponseWriter, v any) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respond.Error(w, http.StatusBadRequest, "validation_failed", err.Error())
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	JSONValidationError(w, fields)
	return false
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "maxbytes":
		return "must be at most " + fe.Param() + " bytes"
	case "gte":
		return "must be >= " + fe.Param()
	case "printascii":
		return "must be printable ASCII"
	default:
		return "invalid (" + fe.Tag() + ")"
	}
}
