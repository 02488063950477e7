package http

import (
	"encoding/json"
	"net/http"
)

// SuccessResponse wraps a successful response with the envelope the
// dashboard expects.
type SuccessResponse struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ListResponse wraps a list of items with its count
type ListResponse[T any] struct {
	Status string `json:"status"`
	Data   []T    `json:"data"`
	Count  int    `json:"count"`
}

// PageResponse wraps one page of items with a continuation hint
type PageResponse[T any] struct {
	Status  string `json:"status"`
	Data    []T    `json:"data"`
	Page    int    `json:"page"`
	HasMore bool   `json:"has_more"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Log the error but don't try to write again
		// The header has already been sent
	}
}

// WriteSuccess writes a success response
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, SuccessResponse{Status: "success", Data: data})
}

// WriteList writes a simple list response
func WriteList[T any](w http.ResponseWriter, data []T) {
	response := ListResponse[T]{
		Status: "success",
		Data:   data,
		Count:  len(data),
	}

	WriteJSON(w, http.StatusOK, response)
}

// WritePage writes a single page of results with a continuation hint
func WritePage[T any](w http.ResponseWriter, data []T, page int, hasMore bool) {
	response := PageResponse[T]{
		Status:  "success",
		Data:    data,
		Page:    page,
		HasMore: hasMore,
	}

	WriteJSON(w, http.StatusOK, response)
}
