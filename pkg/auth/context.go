package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GetUserIDFromContext extracts the token subject from the context.
// Returns empty string if not authenticated.
func GetUserIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}

// GetUserUUIDFromContext extracts the token subject and parses it as a UUID.
func GetUserUUIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDStr := GetUserIDFromContext(ctx)
	if userIDStr == "" {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// RequireUserUUIDFromContext is GetUserUUIDFromContext returning an error when
// the subject is missing or not a UUID.
func RequireUserUUIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := GetUserUUIDFromContext(ctx)
	if !ok {
		return uuid.Nil, fmt.Errorf("valid user UUID not found in context")
	}
	return userID, nil
}

// AuthorizeActor checks that an authenticated request acts for userID.
// Requests without claims pass; the middleware decides whether claims are required.
func AuthorizeActor(ctx context.Context, userID uuid.UUID) error {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return nil
	}
	if claims.Subject != userID.String() {
		return ErrSubjectMismatch
	}
	return nil
}
