package server

import (
	"context"
)

type contextKey string

const pageContextKey contextKey = "page"

// setPageContext adds the session's page to context
func setPageContext(ctx context.Context, lp *livePage) context.Context {
	return context.WithValue(ctx, pageContextKey, lp)
}

// getPageFromContext retrieves the session's page from context
func getPageFromContext(ctx context.Context) *livePage {
	lp, _ := ctx.Value(pageContextKey).(*livePage)
	return lp
}
