// This is a **mock authentication service**, designed to provide JWT tokens
// for the candidate service, simulating a real identity provider. Tokens
// carry the caller identity (user, tenant, role) the candidate service
// scopes every operation with.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/vgurov/talentflow/internal/candidate/auth"
	"github.com/vgurov/talentflow/internal/candidate/models"
)

const (
	defaultPort   = "8081"       // Default port for the authentication service
	defaultSecret = "jwt_secret" // Secret for signing JWT
)

// TokenResponse represents the response structure
type TokenResponse struct {
	Token string `json:"token"`
}

// tokenHandler generates a JWT for the requested identity and returns it
// in a JSON response. user and tenant are required; role defaults to
// RECRUITER.
func tokenHandler(w http.ResponseWriter, r *http.Request) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = defaultSecret
	}

	userID := r.URL.Query().Get("user")
	tenantID := r.URL.Query().Get("tenant")
	if userID == "" || tenantID == "" {
		http.Error(w, "user and tenant query parameters required", http.StatusBadRequest)
		return
	}

	role := models.RoleRecruiter
	if r.URL.Query().Get("role") == string(models.RoleAdmin) {
		role = models.RoleAdmin
	}

	token, err := auth.GenerateToken(userID, tenantID, role, secret)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	resp := TokenResponse{Token: token}
	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(resp)
	if err != nil {
		http.Error(w, "Failed to encode token", http.StatusInternalServerError)
	}
}

func main() {
	port := os.Getenv("AUTH_PORT")
	if port == "" {
		port = defaultPort
	}

	http.HandleFunc("/token", tokenHandler)

	log.Printf("Authentication service listening on :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}
