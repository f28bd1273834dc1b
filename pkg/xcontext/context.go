package xcontext

import (
	"context"
	"net/http"

	"github.com/connectus-app/backend/config"
	"github.com/connectus-app/backend/pkg/authenticator"
	"github.com/connectus-app/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	dbKey          struct{}
	txKey          struct{}
	loggerKey      struct{}
	configsKey     struct{}
	tokenEngineKey struct{}
	httpRequestKey struct{}
	httpWriterKey  struct{}
	userIDKey      struct{}
	responseKey    struct{}
	errorKey       struct{}
)

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current database handle. If a transaction was opened with
// WithDBTransaction and not yet finished, the transaction is returned
// instead.
func DB(ctx context.Context) *gorm.DB {
	if holder, ok := ctx.Value(txKey{}).(*txHolder); ok && !holder.done {
		return holder.tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("no database in context")
	}

	return db
}

type txHolder struct {
	tx   *gorm.DB
	done bool
}

// WithDBTransaction begins a transaction and makes DB() return it until the
// transaction is committed or rolled back.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &txHolder{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the current transaction if any. It is a
// no-op if the transaction already finished.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	if holder, ok := ctx.Value(txKey{}).(*txHolder); ok && !holder.done {
		holder.tx.Commit()
		holder.done = true
	}

	return ctx
}

// WithRollbackDBTransaction rollbacks the current transaction if any. It is
// safe to defer right after WithDBTransaction; it does nothing after a
// commit.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if holder, ok := ctx.Value(txKey{}).(*txHolder); ok && !holder.done {
		holder.tx.Rollback()
		holder.done = true
	}

	return ctx
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		panic("no logger in context")
	}

	return l
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		panic("no configs in context")
	}

	return cfg
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	engine, ok := ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine)
	if !ok {
		panic("no token engine in context")
	}

	return engine
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	r, _ := ctx.Value(httpRequestKey{}).(*http.Request)
	return r
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(httpWriterKey{}).(http.ResponseWriter)
	return w
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

type responseHolder struct {
	resp any
}

type errorHolder struct {
	err error
}

// WithCapture installs mutable response and error slots. The router installs
// it once per request so middlewares and closers can read what the handler
// produced.
func WithCapture(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, responseKey{}, &responseHolder{})
	return context.WithValue(ctx, errorKey{}, &errorHolder{})
}

func SetResponse(ctx context.Context, resp any) {
	if holder, ok := ctx.Value(responseKey{}).(*responseHolder); ok {
		holder.resp = resp
	}
}

func Response(ctx context.Context) any {
	if holder, ok := ctx.Value(responseKey{}).(*responseHolder); ok {
		return holder.resp
	}

	return nil
}

func SetError(ctx context.Context, err error) {
	if holder, ok := ctx.Value(errorKey{}).(*errorHolder); ok {
		holder.err = err
	}
}

func Error(ctx context.Context) error {
	if holder, ok := ctx.Value(errorKey{}).(*errorHolder); ok {
		return holder.err
	}

	return nil
}
