package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/algoaura/dashboard-backend/pkg/errors"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]bool   `json:"fields,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// LegacyErrorResponse is the error body of the auth routes, which predate the envelope
type LegacyErrorResponse struct {
	Error   string            `json:"error"`
	Fields  map[string]bool   `json:"fields,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Meta contains "load more" pagination metadata
type Meta struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"hasMore"`
	NextOffset *int `json:"nextOffset"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	})
}

// JSONWithMeta sends a JSON response with metadata
func JSONWithMeta(w http.ResponseWriter, statusCode int, data interface{}, meta *Meta) {
	writeJSON(w, statusCode, Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
		Meta:    meta,
	})
}

// Raw sends v as the whole body, without the envelope
func Raw(w http.ResponseWriter, statusCode int, v interface{}) {
	writeJSON(w, statusCode, v)
}

// Error sends an error response. AppErrors keep their status; anything else
// is a 500 carrying the error text.
func Error(w http.ResponseWriter, err error) {
	status, body := errorBody(err)
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Error:   body.Error,
		Fields:  body.Fields,
		Details: body.Details,
	})
}

// ErrorLegacy sends an error in the {error, fields} shape used by the auth routes
func ErrorLegacy(w http.ResponseWriter, err error) {
	status, body := errorBody(err)
	writeJSON(w, status, body)
}

func errorBody(err error) (int, LegacyErrorResponse) {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode, LegacyErrorResponse{
			Error:   appErr.Message,
			Fields:  appErr.Fields,
			Details: appErr.Details,
		}
	}

	message := "an unexpected error occurred"
	if err != nil {
		message = err.Error()
	}
	return http.StatusInternalServerError, LegacyErrorResponse{Error: message}
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// NoContent sends a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Created sends a 201 Created response
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// DecodeJSON decodes the request body into the provided struct.
// Unknown fields are rejected so write payloads stay explicit.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.BadRequest(fmt.Sprintf("invalid JSON body: %s", describeDecodeError(err)))
	}
	return nil
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type.String())
	}
	return err.Error()
}
