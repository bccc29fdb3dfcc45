package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"github.com/erazemk/assetdesk/internal/model"
	"github.com/erazemk/assetdesk/internal/store"
)

var validate = newValidate()

// newValidate returns a validator that reports JSON field names. It adds the
// "role" and "product_status" tags.
func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.ValidRole(fl.Field().String())
	})
	v.RegisterValidation("product_status", func(fl validator.FieldLevel) bool {
		return model.ValidProductStatus(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// storeFailure writes the response for a failed store call on entity.
// Unexpected errors are logged and reported as "failed to <action> <entity>".
func storeFailure(w http.ResponseWriter, err error, action, entity string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, store.ErrDuplicate):
		jsonError(w, http.StatusConflict, entity+" already exists")
	default:
		slog.Error("failed to "+action+" "+entity, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to "+action+" "+entity)
	}
}

// decodeJSON decodes a JSON request body into target and checks its
// validate tags.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("invalid request body")
	}
	if err := validate.Struct(target); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError turns validator errors into a short client message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch {
	case strings.HasPrefix(fe.Tag(), "required"):
		return fmt.Errorf("%s required", fe.Field())
	case fe.Tag() == "unique":
		return fmt.Errorf("duplicate %s", fe.Field())
	}
	return fmt.Errorf("invalid %s", fe.Field())
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}
