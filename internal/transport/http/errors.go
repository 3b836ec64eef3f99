package http

import (
	"encoding/json"
	"net/http"

	"github.com/PauGgimenez/Practica4/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeEmptyOrder           = "empty_order"
	codeInvalidQuantity      = "invalid_quantity"
	codeUserRequired         = "user_required"
	codeInvalidID            = "invalid_id"
	codeInvalidPrice         = "invalid_price"
	codeInvalidStock         = "invalid_stock"
	codeProductNameRequired  = "product_name_required"
	codeInvalidStatus        = "invalid_status"
	codeProductNotFound      = "product_not_found"
	codeOrderNotFound        = "order_not_found"
	codeProductAlreadyExists = "product_already_exists"
	codeInsufficientStock    = "insufficient_stock"
	codeInvalidTransition    = "invalid_transition"
	codeConflict             = "conflict"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the service error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrEmptyOrder:
		writeError(w, http.StatusBadRequest, codeEmptyOrder, err.Error())
	case domain.ErrInvalidQuantity:
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case domain.ErrUserRequired:
		writeError(w, http.StatusBadRequest, codeUserRequired, err.Error())
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrInvalidPrice:
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case domain.ErrInvalidStock:
		writeError(w, http.StatusBadRequest, codeInvalidStock, err.Error())
	case domain.ErrProductNameRequired:
		writeError(w, http.StatusBadRequest, codeProductNameRequired, err.Error())
	case domain.ErrInvalidStatus:
		writeError(w, http.StatusBadRequest, codeInvalidStatus, err.Error())
	case domain.ErrProductNotFound:
		writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
	case domain.ErrOrderNotFound:
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case domain.ErrProductAlreadyExists:
		writeError(w, http.StatusConflict, codeProductAlreadyExists, err.Error())
	case domain.ErrInsufficientStock:
		writeError(w, http.StatusConflict, codeInsufficientStock, err.Error())
	case domain.ErrInvalidTransition:
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case domain.ErrConflict:
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
