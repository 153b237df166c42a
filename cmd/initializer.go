package main

import (
	"database/sql"
	"log"

	"github.com/redis/go-redis/v9"

	"naimuBack/internal/config"
	"naimuBack/internal/geo"
	"naimuBack/internal/handlers"
	"naimuBack/internal/notify"
	"naimuBack/internal/repositories"
	"naimuBack/internal/scoring"
	services "naimuBack/internal/services"
)

type application struct {
	errorLog   *log.Logger
	infoLog    *log.Logger
	signingKey string
	db         *sql.DB

	taskRepo         *repositories.TaskRepository
	offerRepo        *repositories.OfferRepository
	chatRepo         *repositories.ChatRepository
	notificationRepo *repositories.NotificationRepository
	proRepo          *repositories.ProfessionalRepository

	taskService    *services.TaskService
	offerService   *services.OfferService
	rankingService *services.RankingService
	feedService    *services.FeedService

	taskHandler         *handlers.TaskHandler
	offerHandler        *handlers.OfferHandler
	rankingHandler      *handlers.RankingHandler
	feedHandler         *handlers.FeedHandler
	chatHandler         *handlers.ChatHandler
	notificationHandler *handlers.NotificationHandler
	locationHandler     *handlers.LocationHandler

	wsManager *WebSocketManager
}

func initializeApp(db *sql.DB, rdb *redis.Client, queue *notify.Client, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	taskRepo := &repositories.TaskRepository{DB: db}
	offerRepo := &repositories.OfferRepository{DB: db}
	chatRepo := &repositories.ChatRepository{DB: db}
	notificationRepo := &repositories.NotificationRepository{DB: db}
	proRepo := &repositories.ProfessionalRepository{DB: db}

	locator := geo.NewProLocator(rdb)
	wsManager := NewWebSocketManager()

	taskService := &services.TaskService{TaskRepo: taskRepo}
	offerService := &services.OfferService{
		Offers:        offerRepo,
		Tasks:         taskRepo,
		Chats:         chatRepo,
		Notifications: notificationRepo,
		Emails:        proRepo,
		Queue:         queue,
		Pusher:        wsManager,
		ErrorLog:      errorLog,
	}
	rankingService := &services.RankingService{
		TaskRepo: taskRepo,
		ProRepo:  proRepo,
		Locator:  locator,
		Engine:   scoring.NewEngine(cfg.Scoring),
	}
	feedService := &services.FeedService{TaskRepo: taskRepo, ProRepo: proRepo}

	return &application{
		errorLog:   errorLog,
		infoLog:    infoLog,
		signingKey: cfg.Auth.SigningKey,
		db:         db,

		taskRepo:         taskRepo,
		offerRepo:        offerRepo,
		chatRepo:         chatRepo,
		notificationRepo: notificationRepo,
		proRepo:          proRepo,

		taskService:    taskService,
		offerService:   offerService,
		rankingService: rankingService,
		feedService:    feedService,

		taskHandler:         &handlers.TaskHandler{TaskService: taskService},
		offerHandler:        &handlers.OfferHandler{OfferService: offerService},
		rankingHandler:      &handlers.RankingHandler{RankingService: rankingService},
		feedHandler:         &handlers.FeedHandler{FeedService: feedService},
		chatHandler:         &handlers.ChatHandler{ChatRepo: chatRepo, Pusher: wsManager},
		notificationHandler: &handlers.NotificationHandler{NotificationRepo: notificationRepo},
		locationHandler:     &handlers.LocationHandler{Locator: locator},

		wsManager: wsManager,
	}
}
