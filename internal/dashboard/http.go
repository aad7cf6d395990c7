package dashboard

import (
	"encoding/json"
	"net/http"

	apperr "electwatch/internal/errors"
)

const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeBusy           = "REFRESH_IN_PROGRESS"
	ErrCodeFetchFailed    = "FETCH_FAILED"
	ErrCodeInternalServer = "INTERNAL_SERVER_ERROR"
)

// APIError is the JSON body of a failed request.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

// ToAPIError maps application error kinds to HTTP statuses.
func ToAPIError(err error) *APIError {
	switch apperr.KindOf(err) {
	case apperr.KindBusy:
		return &APIError{Status: http.StatusConflict, Code: ErrCodeBusy, Message: "이미 업데이트가 진행 중입니다."}
	case apperr.KindFetch:
		return &APIError{Status: http.StatusBadGateway, Code: ErrCodeFetchFailed, Message: "선거 현황을 불러오지 못했습니다: " + err.Error()}
	case apperr.KindNotFound:
		return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: err.Error()}
	default:
		return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, err error) {
	apiErr := ToAPIError(err)
	respondJSON(w, apiErr.Status, apiErr)
}
