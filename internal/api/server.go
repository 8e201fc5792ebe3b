package api

import (
	"fmt"
	"net/http"

	"usher/internal/cache"
	"usher/internal/config"
	"usher/internal/database"
	"usher/internal/handlers"
	"usher/internal/inventory"
	"usher/internal/logger"
	"usher/internal/messaging"
	"usher/internal/metrics"
	"usher/internal/middleware"
	"usher/internal/repository"
	"usher/internal/search"
	"usher/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API server. NATS, Valkey and Elasticsearch are
// optional: when unavailable the server runs without eventing, caching and
// full-text search respectively.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	es       *search.ElasticsearchClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Get().Warn("NATS unavailable, continuing without eventing", "error", err)
		natsClient = nil
	}

	var valkeyClient *cache.ValkeyClient
	if cfg.ValkeyAddr != "" {
		valkeyClient, err = cache.NewValkeyClient(cfg.ValkeyAddr, cfg.ValkeyPassword)
		if err != nil {
			logger.Get().Warn("Valkey unavailable, continuing without cache", "error", err)
			valkeyClient = nil
		}
	}

	var esClient *search.ElasticsearchClient
	if cfg.Elasticsearch.Enabled {
		esClient, err = search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			logger.Get().Warn("Elasticsearch unavailable, continuing without search", "error", err)
			esClient = nil
		}
	}

	repos := repository.NewRepositories(db)

	catalog := inventory.NewCatalog(repos.Types)
	capacity := inventory.NewCapacityLedger(repos.Locations)
	ledger := inventory.NewSalesLedger(repository.NewLedgerStore(repos))

	var publisher service.Publisher
	if natsClient != nil {
		publisher = natsClient
	}
	services := service.NewServices(repos, catalog, capacity, ledger, publisher, valkeyClient, esClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(metrics.PrometheusMiddleware())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		es:       esClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	{
		// Public read endpoints
		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.GET("/:id", h.GetEvent)
			events.GET("/:id/types", h.ListTicketTypes)
			events.GET("/:id/remaining", h.GetRemaining)
		}

		locations := api.Group("/locations")
		{
			locations.GET("", h.ListLocations)
			locations.GET("/:id", h.GetLocation)
			locations.GET("/:id/rooms", h.ListRooms)
		}

		// Authenticated ticket endpoints
		tickets := api.Group("/tickets")
		tickets.Use(middleware.JWTAuth(s.config.JWTSecret))
		{
			tickets.POST("", h.PurchaseTicket)
			tickets.GET("", h.ListMyTickets)
			tickets.GET("/:id", h.GetTicket)
			tickets.DELETE("/:id", h.CancelTicket)
			tickets.PATCH("/:id/seat", h.ReassignSeat)
		}

		// Admin configuration endpoints
		admin := api.Group("")
		admin.Use(middleware.JWTAuth(s.config.JWTSecret), middleware.RequireAdmin())
		{
			admin.POST("/events", h.CreateEvent)
			admin.PUT("/events/:id/rooms/:roomId", h.LinkRoom)
			admin.PUT("/events/:id/types/:label/price", h.SetTypePrice)
			admin.PUT("/events/:id/types/:label/quota", h.SetTypeQuota)
			admin.POST("/locations", h.CreateLocation)
			admin.POST("/locations/:id/rooms", h.AssignRoom)
			admin.PATCH("/rooms/:id", h.ResizeRoom)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	health := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":  health.Status,
		"service": "usher-api",
		"db":      health,
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			logger.Get().Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
