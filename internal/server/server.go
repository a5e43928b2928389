package server

import (
	"backend-cityguide/internal/auth"
	"backend-cityguide/internal/config"
	"backend-cityguide/internal/gpt"
	"backend-cityguide/internal/places"
	"backend-cityguide/internal/poi"
	"backend-cityguide/internal/profile"
	"backend-cityguide/internal/route"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	// Postgres-backed storage when a pool is configured, in-memory
	// otherwise. Same policy for the generation lock and redis.
	var routeRepo route.Repository
	var profileStore profile.Store
	var authStore auth.Store
	if s.DB != nil {
		routeRepo = route.NewPostgresRepository(s.DB)
		profileStore = profile.NewPostgresStore(s.DB)
		authStore = auth.NewPostgresStore(s.DB)
	} else {
		routeRepo = route.NewMemoryRepository()
		profileStore = profile.NewMemoryStore()
		authStore = auth.NewMemoryStore()
	}

	var locker route.Locker
	if s.Redis != nil {
		locker = route.NewRedisLocker(s.Redis)
	} else {
		locker = route.NewMemoryLocker()
	}

	placesClient := places.NewClient(s.Cfg.GoogleMapsAPIKey, s.Redis)
	gptClient := gpt.NewClient(s.Cfg.OpenAIAPIKey, s.Cfg.GPTModel)

	generator := route.NewGenerator(route.Collaborators{
		Candidates: poi.NewSource(gptClient, placesClient, placesClient),
		Ranker:     gptClient,
		Orderer:    gptClient,
		Directions: places.NewDirectionsClient(),
	}, routeRepo, locker)

	profileSvc := profile.NewService(profileStore)
	routeSvc := route.NewService(routeRepo, generator, profileSvc)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, authStore))
	profile.RegisterRoutes(s.App.Group("/profile"), profileSvc, jwtMiddleware)
	route.RegisterRoutes(s.App.Group("/routes"), routeSvc, jwtMiddleware)
}
