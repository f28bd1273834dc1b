package middleware

import (
	"context"
	"errors"

	"github.com/connectus-app/backend/pkg/errorx"
	"github.com/connectus-app/backend/pkg/router"
	"github.com/connectus-app/backend/pkg/xcontext"
)

// Logger records every finished request with its resolved error code.
func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return
		}

		err := xcontext.Error(ctx)
		if err == nil {
			xcontext.Logger(ctx).Infof("%s %s ok", req.Method, req.URL.Path)
			return
		}

		var xerr errorx.Error
		if errors.As(err, &xerr) {
			xcontext.Logger(ctx).Infof("%s %s failed with code %d: %s",
				req.Method, req.URL.Path, xerr.Code, xerr.Message)
			return
		}

		xcontext.Logger(ctx).Warnf("%s %s failed: %v", req.Method, req.URL.Path, err)
	}
}
