package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iho/debtledger/internal/domain"
)

func writeError(w http.ResponseWriter, status int, kind domain.Kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   string(kind),
		"message": message,
	})
}
