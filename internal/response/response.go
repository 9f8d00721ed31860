package response

import (
	"encoding/json"
	"net/http"
	"time"

	"learnhub/internal/contextutils"
	"learnhub/internal/models"
	"learnhub/internal/services"

	"go.uber.org/zap"
)

// ===============================
// RESPONSE TYPES
// ===============================

// APIResponse is the envelope every JSON endpoint returns
type APIResponse struct {
	Success   bool          `json:"success"`
	Data      interface{}   `json:"data,omitempty"`
	Error     *ErrorDetail  `json:"error,omitempty"`
	Meta      *ResponseMeta `json:"meta,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Timestamp int64         `json:"timestamp,omitempty"`
}

// ErrorDetail carries structured error information in API responses
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ResponseMeta contains metadata about the response
type ResponseMeta struct {
	Pagination *models.PaginationMeta `json:"pagination,omitempty"`
	Extra      map[string]interface{} `json:"extra,omitempty"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder constructs standardized responses
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a new response builder
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// Success writes a 200 response with the given data
func (b *Builder) Success(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.write(w, r, http.StatusOK, &APIResponse{Success: true, Data: data})
}

// Created writes a 201 response with the given data
func (b *Builder) Created(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.write(w, r, http.StatusCreated, &APIResponse{Success: true, Data: data})
}

// NoContent writes a 204 response
func (b *Builder) NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Paginated writes a 200 response carrying one page and its metadata
func (b *Builder) Paginated(w http.ResponseWriter, r *http.Request, data interface{}, pagination models.PaginationMeta) {
	b.write(w, r, http.StatusOK, &APIResponse{
		Success: true,
		Data:    data,
		Meta:    &ResponseMeta{Pagination: &pagination},
	})
}

// Error writes the response for a service error, mapping its taxonomy to an
// HTTP status. Internal error details are masked; the cause stays in the logs.
func (b *Builder) Error(w http.ResponseWriter, r *http.Request, err error) {
	serviceErr := services.GetServiceError(err)
	status := serviceErr.GetStatusCode()

	detail := &ErrorDetail{
		Type:    serviceErr.Type,
		Message: serviceErr.Message,
		Code:    serviceErr.Code,
		Details: serviceErr.Details,
	}
	if status >= http.StatusInternalServerError {
		detail.Message = "an internal error occurred"
		detail.Details = nil
		b.logger.Error("Request failed",
			zap.String("request_id", contextutils.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	b.write(w, r, status, &APIResponse{Success: false, Error: detail})
}

// BadRequest writes a 400 for malformed input caught before the service layer
func (b *Builder) BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	b.write(w, r, http.StatusBadRequest, &APIResponse{
		Success: false,
		Error:   &ErrorDetail{Type: "VALIDATION_ERROR", Message: message},
	})
}

func (b *Builder) write(w http.ResponseWriter, r *http.Request, status int, resp *APIResponse) {
	resp.RequestID = contextutils.GetRequestID(r.Context())
	resp.Timestamp = time.Now().Unix()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		b.logger.Error("Failed to encode response", zap.Error(err))
	}
}
