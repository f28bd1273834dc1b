package middleware

import (
	"context"
	"strings"

	"github.com/connectus-app/backend/internal/model"
	"github.com/connectus-app/backend/pkg/errorx"
	"github.com/connectus-app/backend/pkg/router"
	"github.com/connectus-app/backend/pkg/xcontext"
)

// NewAuthVerifier requires a valid bearer access token and installs the
// caller's user id into the context.
func NewAuthVerifier() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		authorization := xcontext.HTTPRequest(ctx).Header.Get("Authorization")
		if !strings.HasPrefix(authorization, "Bearer ") {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		token := strings.TrimPrefix(authorization, "Bearer ")

		var accessToken model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &accessToken); err != nil {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}
