package utils

import (
	"context"

	"complaint-analytics/pkg/contextkeys"
	apperrors "complaint-analytics/pkg/errors"
)

// WithIdentity stores the authenticated caller on ctx.
func WithIdentity(ctx context.Context, userID uint64, role string, wardID uint64) context.Context {
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, userID)
	ctx = context.WithValue(ctx, contextkeys.UserRoleKey, role)
	return context.WithValue(ctx, contextkeys.WardIDKey, wardID)
}

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrIdentityNotFoundInContext
	}
	return userID, nil
}

func GetUserRoleFromCtx(ctx context.Context) (string, error) {
	role, ok := ctx.Value(contextkeys.UserRoleKey).(string)
	if !ok {
		return "", apperrors.ErrIdentityNotFoundInContext
	}
	return role, nil
}

// GetWardIDFromCtx returns 0 when the caller has no ward.
func GetWardIDFromCtx(ctx context.Context) uint64 {
	wardID, _ := ctx.Value(contextkeys.WardIDKey).(uint64)
	return wardID
}
