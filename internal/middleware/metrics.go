package middleware

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// RequestObserver receives HTTP request timings.
type RequestObserver interface {
	RequestStarted()
	RequestFinished(method, route string, status int, elapsed time.Duration)
}

// Metrics returns a Huma middleware reporting every operation to observer, labelled by route template.
func Metrics(observer RequestObserver) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		observer.RequestStarted()
		next(ctx)

		status := ctx.Status()
		if status == 0 {
			status = http.StatusOK
		}

		observer.RequestFinished(ctx.Method(), operationPath(ctx), status, time.Since(start))
	}
}
