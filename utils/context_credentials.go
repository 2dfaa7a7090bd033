package utils

import (
	"context"

	"github.com/civicwaste/swm-backend/models"
)

func CredentialsFromCtx(ctx context.Context) (models.Credentials, bool) {
	creds, ok := ctx.Value(ContextKeyCredentials).(models.Credentials)
	return creds, ok
}

func StoreCredentialsInContext(ctx context.Context, creds models.Credentials) context.Context {
	return context.WithValue(ctx, ContextKeyCredentials, creds)
}
