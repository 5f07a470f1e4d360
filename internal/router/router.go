package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/petclinic-api/internal/handler"
	analyticshandler "github.com/jwalitptl/petclinic-api/internal/handler/analytics"
	authhandler "github.com/jwalitptl/petclinic-api/internal/handler/auth"
	bookinghandler "github.com/jwalitptl/petclinic-api/internal/handler/booking"
	recordhandler "github.com/jwalitptl/petclinic-api/internal/handler/record"
	vethandler "github.com/jwalitptl/petclinic-api/internal/handler/vet"
	"github.com/jwalitptl/petclinic-api/internal/middleware"
	"github.com/jwalitptl/petclinic-api/internal/model"
)

type Router struct {
	engine     *gin.Engine
	auth       *middleware.AuthMiddleware
	authH      *authhandler.Handler
	bookingH   *bookinghandler.Handler
	recordH    *recordhandler.Handler
	vetH       *vethandler.Handler
	analyticsH *analyticshandler.Handler
	h          *handler.Handler
	metrics    *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimit     rate.Limit
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
	Timeout       time.Duration
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authhandler.Handler,
	bookingH *bookinghandler.Handler,
	recordH *recordhandler.Handler,
	vetH *vethandler.Handler,
	analyticsH *analyticshandler.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:     engine,
		auth:       auth,
		authH:      authH,
		bookingH:   bookingH,
		recordH:    recordH,
		vetH:       vetH,
		analyticsH: analyticsH,
		h:          h,
		metrics:    initRouterMetrics(config.MetricsPrefix),
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = middleware.DefaultTimeoutConfig().Duration
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: timeout}),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORSConfig),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.setupHealthCheck(api)
	r.setupPublicRoutes(api)

	owner := api.Group("")
	owner.Use(r.auth.RequireRealm(model.RealmOwner))
	r.setupOwnerRoutes(owner)

	vet := api.Group("/vet")
	vet.Use(r.auth.RequireRealm(model.RealmVet))
	r.setupVetRoutes(vet)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", r.authH.RegisterOwner)
		auth.POST("/login", r.authH.LoginOwner)
		auth.POST("/vet/register", r.authH.RegisterVet)
		auth.POST("/vet/login", r.authH.LoginVet)
		auth.POST("/refresh", r.authH.Refresh)
		auth.POST("/logout", r.authH.Logout)
	}

	// The booking form needs the scheduling vocabulary before login.
	rg.GET("/meta", r.bookingH.BookingMeta)
}

func (r *Router) setupOwnerRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", r.authH.OwnerProfile)

	bookings := rg.Group("/bookings")
	{
		bookings.POST("", r.bookingH.CreateBooking)
		bookings.GET("", r.bookingH.ListMyBookings)
	}

	records := rg.Group("/records")
	{
		records.GET("", r.recordH.ListMyRecords)
		records.GET("/completed", r.recordH.ListCompleted)
		records.GET("/pet/:petName", r.recordH.PetHistory)
		records.GET("/:id", r.recordH.GetRecord)
	}
}

func (r *Router) setupVetRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", r.authH.VetProfile)

	bookings := rg.Group("/bookings")
	{
		bookings.GET("/pending", r.vetH.ListPendingBookings)
		bookings.GET("/:id/record", r.vetH.GetBookingRecord)
		bookings.POST("/:id/complete", r.vetH.CompleteVisit)
	}

	rg.GET("/analytics", r.analyticsH.Snapshot)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
