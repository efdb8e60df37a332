package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// Stable machine-readable error codes. Client UIs branch on these, so they
// are part of the API contract and must stay distinct.
const (
	ErrCodeNotFound           = "not_found"
	ErrCodeUnauthenticated    = "unauthenticated"
	ErrCodeInvalidToken       = "invalid_token"
	ErrCodeTokenExpired       = "token_expired"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeLinkExpired        = "link_expired"
	ErrCodeQuotaExceeded      = "quota_exceeded"
	ErrCodeDownloadsDisabled  = "downloads_disabled"
	ErrCodeEmptyResult        = "empty_result"
	ErrCodeThrottled          = "throttled"
	ErrCodeEmailUnconfirmed   = "email_unconfirmed"
	ErrCodeValidation         = "validation_error"
	ErrCodeConflict           = "conflict"
	ErrCodeInternal           = "internal_error"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}
