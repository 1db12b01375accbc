// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/iliyamo/showtime-booking/internal/handler"
	"github.com/iliyamo/showtime-booking/internal/metrics"
	"github.com/iliyamo/showtime-booking/internal/middleware"
)

// Deps carries everything New needs.  CacheMW and LimitMW may be nil.
type Deps struct {
	Catalog  *handler.CatalogHandler
	Seats    *handler.SeatHandler
	Bookings *handler.BookingHandler
	Payments *handler.PaymentHandler

	Gatherer prometheus.Gatherer
	Metrics  *metrics.Metrics
	Logger   *zap.Logger

	CacheMW echo.MiddlewareFunc
	LimitMW echo.MiddlewareFunc
}

// New builds the Echo instance with the global middleware chain and every
// route registered.
func New(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(d.Logger)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Logger, d.Metrics))
	e.Use(middleware.Identity())

	RegisterRoutes(e, d.Gatherer)
	RegisterCatalog(e, d.Catalog, d.Seats, d.CacheMW)
	RegisterBooking(e, d.Bookings, d.Payments, d.LimitMW)
	return e
}

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo, g prometheus.Gatherer) {
	e.GET("/healthz", handler.Health)
	if g != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	}
}

// RegisterCatalog registers the browse endpoints.  Catalog reads go
// through the response cache; the seat map is live and never cached.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, s *handler.SeatHandler, cache echo.MiddlewareFunc) {
	v1 := e.Group("/v1")
	cached := v1.Group("")
	if cache != nil {
		cached.Use(cache)
	}
	cached.GET("/movies", h.ListMovies)
	cached.GET("/movies/:id", h.GetMovie)
	cached.GET("/theaters", h.ListTheaters)
	cached.GET("/theaters/:id", h.GetTheater)
	cached.GET("/now-showing", h.NowShowing)
	cached.GET("/recommendations", h.Recommendations)
	cached.GET("/showtimes", h.ListShowtimes)

	v1.GET("/showtimes/:id/seats", s.GetSeatMap)
}

// RegisterBooking registers the booking and payment endpoints behind the
// rate limiter.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, p *handler.PaymentHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/bookings", b.Create)
	g.GET("/bookings/:id", b.Get)
	g.POST("/bookings/:id/cancel", b.Cancel)
	g.GET("/bookings/:id/payments", p.ListByBooking)
	g.GET("/users/:id/bookings", b.ListByUser)

	g.POST("/payments", p.Create)
	g.GET("/payments/:id", p.Get)
}
