package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"priceview/internal/cache"
	"priceview/internal/history"
	"priceview/internal/metrics"
	"priceview/internal/render"
	"priceview/internal/selection"
	"priceview/internal/service"
)

// Handler serves the viewer over HTTP.
type Handler struct {
	viewer  *service.Viewer
	charts  cache.ChartCache
	metrics *metrics.Recorder
	logger  zerolog.Logger
	width   int
	height  int
}

// NewHandler constructs the route handler. charts and rec may be nil.
func NewHandler(viewer *service.Viewer, charts cache.ChartCache, rec *metrics.Recorder, chart render.Options, logger zerolog.Logger) *Handler {
	if charts == nil {
		charts = cache.Nop{}
	}
	return &Handler{
		viewer:  viewer,
		charts:  charts,
		metrics: rec,
		logger:  logger.With().Str("component", "http_handler").Logger(),
		width:   chart.Width,
		height:  chart.Height,
	}
}

// RegisterRoutes mounts every route on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Page)
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/products", h.Products)
	g.GET("/view", h.View)
	g.GET("/chart.png", h.Chart)
}

// Page renders the interactive dashboard.
func (h *Handler) Page(c echo.Context) error {
	frame, verr, err := h.update(c)
	if verr != nil {
		return BadRequestResponse(c, verr)
	}
	if err != nil {
		appErr := toAppError(err)
		return c.String(appErr.Status, appErr.Message)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, newPageData(frame, h.viewer.Products())); err != nil {
		h.logger.Error().Err(err).Msg("render page")
		return AppErrorResponse(c, err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// Health reports liveness and the number of loaded products.
func (h *Handler) Health(c echo.Context) error {
	return SuccessResponse(c, map[string]interface{}{
		"status":   "ok",
		"products": len(h.viewer.Products()),
	})
}

// Products lists the dropdown options.
func (h *Handler) Products(c echo.Context) error {
	return SuccessResponse(c, map[string]interface{}{
		"products": h.viewer.Products(),
	})
}

// View applies one interaction and returns the resulting frame.
func (h *Handler) View(c echo.Context) error {
	frame, verr, err := h.update(c)
	if verr != nil {
		return BadRequestResponse(c, verr)
	}
	if err != nil {
		return AppErrorResponse(c, err)
	}
	return SuccessResponse(c, frame)
}

// Chart renders the selection as a PNG, served from cache when possible.
func (h *Handler) Chart(c echo.Context) error {
	req := &ChartRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	sel, err := req.Selection()
	if err != nil {
		return AppErrorResponse(c, err)
	}

	opts := chartSize(req.Width, req.Height, h.width, h.height)

	ctx := c.Request().Context()
	key := cache.Key(sel, opts.Width, opts.Height)
	if png, ok, err := h.charts.Get(ctx, key); err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("chart cache lookup failed")
	} else {
		h.metrics.RecordCache(ok)
		if ok {
			return c.Blob(http.StatusOK, "image/png", png)
		}
	}

	res, err := h.viewer.Select(sel)
	var empty *selection.EmptySeriesError
	var unknown *history.UnknownProductError
	switch {
	case errors.As(err, &unknown):
		return AppErrorResponse(c, err)
	case errors.As(err, &empty):
		res = selection.Result{Selection: sel}
	case err != nil:
		return AppErrorResponse(c, err)
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := render.PNG(&buf, render.NewChartSpec(sel.Product, res.Series), opts); err != nil {
		h.logger.Error().Err(err).Str("product", sel.Product).Msg("render chart")
		return AppErrorResponse(c, err)
	}
	h.metrics.RecordLatency("render", time.Since(start))

	if err := h.charts.Set(ctx, key, buf.Bytes()); err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("chart cache store failed")
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// chartSize applies a requested size, capped at the configured chart size.
func chartSize(width, height, maxWidth, maxHeight int) render.Options {
	opts := render.Options{Width: maxWidth, Height: maxHeight}
	if width > 0 {
		opts.Width = min(width, maxWidth)
	}
	if height > 0 {
		opts.Height = min(height, maxHeight)
	}
	return opts
}

func (h *Handler) update(c echo.Context) (service.Frame, interface{}, error) {
	req := &ViewRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return service.Frame{}, verr, nil
	}
	prior, err := req.Prior()
	if err != nil {
		return service.Frame{}, nil, err
	}
	frame, err := h.viewer.Update(prior, req.Event())
	return frame, nil, err
}
