package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/connectus-app/backend/config"
	"github.com/connectus-app/backend/pkg/authenticator"
	"github.com/connectus-app/backend/pkg/errorx"
	"github.com/connectus-app/backend/pkg/logger"
	"github.com/connectus-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc can replace the request context by returning a non-nil one.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is rendered, regardless of errors.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux

	cfg         config.Configs
	log         logger.Logger
	db          *gorm.DB
	tokenEngine authenticator.TokenEngine

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, log logger.Logger) *Router {
	return &Router{
		mux:         http.NewServeMux(),
		cfg:         cfg,
		log:         log,
		db:          db,
		tokenEngine: authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
	}
}

// Branch creates a router sharing the same mux but with an independent
// middleware chain.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = append([]MiddlewareFunc{}, r.befores...)
	clone.afters = append([]MiddlewareFunc{}, r.afters...)
	clone.closers = append([]CloserFunc{}, r.closers...)
	return &clone
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Mount registers a raw http.Handler, bypassing the endpoint wrapper. Used
// for non-JSON surfaces like websockets.
func (r *Router) Mount(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) newContext(req *http.Request, w http.ResponseWriter) context.Context {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.log)
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	return xcontext.WithCapture(ctx)
}

func wrapHandler[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := r.newContext(req, w)
		defer func() {
			handleResponse(ctx)
			for _, closer := range r.closers {
				closer(ctx)
			}
		}()

		if req.Method != method {
			xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Not supported method %s", req.Method))
			return
		}

		for _, middleware := range r.befores {
			newCtx, err := middleware(ctx)
			if err != nil {
				xcontext.SetError(ctx, err)
				return
			}

			if newCtx != nil {
				ctx = newCtx
			}
		}

		var reqObj Request
		if err := bindRequest(req, method, &reqObj); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
			xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Invalid request"))
			return
		}

		resp, err := handler(ctx, &reqObj)
		if err != nil {
			xcontext.SetError(ctx, err)
			return
		}
		xcontext.SetResponse(ctx, resp)

		for _, middleware := range r.afters {
			newCtx, err := middleware(ctx)
			if err != nil {
				xcontext.SetError(ctx, err)
				return
			}

			if newCtx != nil {
				ctx = newCtx
			}
		}
	}
}

func bindRequest(req *http.Request, method string, obj any) error {
	switch method {
	case http.MethodGet, http.MethodDelete:
		return bindQuery(req, obj)

	default:
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return err
		}

		if len(b) == 0 {
			return nil
		}

		return json.Unmarshal(b, obj)
	}
}

func bindQuery(req *http.Request, obj any) error {
	v := reflect.ValueOf(obj).Elem()
	for i := 0; i < v.NumField(); i++ {
		name := v.Type().Field(i).Tag.Get("json")
		queryVal := req.URL.Query().Get(name)
		if queryVal == "" {
			continue
		}

		switch v.Field(i).Kind() {
		case reflect.String:
			v.Field(i).SetString(queryVal)

		case reflect.Int, reflect.Int64:
			val, err := strconv.ParseInt(queryVal, 10, 64)
			if err != nil {
				return err
			}
			v.Field(i).SetInt(val)

		case reflect.Bool:
			val, err := strconv.ParseBool(queryVal)
			if err != nil {
				return err
			}
			v.Field(i).SetBool(val)
		}
	}

	return nil
}
