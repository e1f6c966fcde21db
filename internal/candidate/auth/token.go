// Package auth provides JWT validation middleware for the candidate
// service and helpers to mint tokens. Tokens carry the caller identity
// (subject, tenant, role) that scopes every operation.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vgurov/talentflow/internal/candidate/models"
)

// GenerateToken mints an HS256 token carrying the caller identity claims.
func GenerateToken(userID, tenantID string, role models.Role, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":       userID,
		"tenant_id": tenantID,
		"role":      string(role),
		"exp":       time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// validateToken checks the token signature and returns parsed claims if valid.
func validateToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}

// identityFromClaims builds the caller identity from validated claims.
// All three identity claims are required; the role must be a known one.
func identityFromClaims(claims jwt.MapClaims) (models.Identity, error) {
	sub, _ := claims["sub"].(string)
	tenantID, _ := claims["tenant_id"].(string)
	roleStr, _ := claims["role"].(string)

	if sub == "" || tenantID == "" {
		return models.Identity{}, fmt.Errorf("missing identity claims")
	}

	role := models.Role(roleStr)
	switch role {
	case models.RoleRecruiter, models.RoleAdmin:
	default:
		return models.Identity{}, fmt.Errorf("unknown role %q", roleStr)
	}

	return models.Identity{
		ID:       sub,
		TenantID: tenantID,
		Role:     role,
	}, nil
}
