package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"priceview/internal/metrics"
)

const headerRequestID = "X-Request-ID"

// Recover turns handler panics into 500 responses.
func Recover(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					logger.Error().Err(perr).Bytes("stack", debug.Stack()).Msg("panic recovered")
					err = DataResponse(c, http.StatusInternalServerError, "Internal Server Error")
				}
			}()
			return next(c)
		}
	}
}

// RequestLogging tags each request with an id and logs it once served.
func RequestLogging(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			id := req.Header.Get(headerRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			res.Header().Set(headerRequestID, id)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			event := logger.Info()
			if res.Status >= http.StatusInternalServerError {
				event = logger.Error().Err(err)
			}
			event.
				Str("request_id", id).
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Msg("http request")
			return nil
		}
	}
}

// Metrics records request counts and latency by route template.
func Metrics(rec *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			rec.RecordHTTP(route, c.Request().Method, status, time.Since(start))
			return err
		}
	}
}
