package testutil

import (
	"context"

	"github.com/stayquote/stayquote/internal/types"
)

// DefaultUserID is the guest every test context acts as
const DefaultUserID = "user_test"

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetUserID(ctx, DefaultUserID)
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	return ctx
}
