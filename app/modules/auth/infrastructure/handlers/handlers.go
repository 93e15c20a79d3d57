package authhandlers

import (
	"encoding/json"
	"net/http"
	"time"
)

type whoAmIResponse struct {
	Subject   string    `json:"subject"`
	Club      string    `json:"club,omitempty"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HandleWhoAmI reports the identity behind the bearer token.
func HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(whoAmIResponse{
		Subject:   claims.Subject,
		Club:      claims.Club,
		Role:      claims.Role.String(),
		ExpiresAt: claims.ExpiresAt,
	})
}
