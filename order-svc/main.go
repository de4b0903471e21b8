package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/lemon630/order-meal/config"
	httpapi "github.com/lemon630/order-meal/order-svc/internal/api/http"
	"github.com/lemon630/order-meal/order-svc/internal/service"
	"github.com/lemon630/order-meal/order-svc/internal/session"
	"github.com/lemon630/order-meal/order-svc/internal/storage"
)

func main() {
	config.LoadEnv()
	settings := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auth, err := service.NewAdminAuthenticator(settings.AdminPasswordHash, settings.AdminPassword)
	if err != nil {
		log.Fatal("Failed to configure admin login:", err)
	}

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	var publisher service.OrderPublisher
	if settings.KafkaEnabled {
		writer := config.NewKafkaWriter(config.OrdersTopic)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	} else {
		log.Println("WARNING: KAFKA_BROKER not set; order events will not be published")
	}

	images := service.NewImageEmbedder(settings.ImageWidth, settings.ImageMinWidth, settings.ImageMaxWidth)
	catalog := service.NewCatalogService(repo, images, settings.Categories)
	if err := catalog.Seed(ctx); err != nil {
		log.Fatal("Failed to seed menu:", err)
	}
	orders := service.NewOrderService(repo, repo, publisher, settings.TableMax)
	stats := service.NewStatsService(storage.NewRedisStats(rdb))

	router := session.NewRouter(catalog, orders, stats, auth, session.RenderOptions{
		PlaceholderImage: settings.PlaceholderImage,
		ImageWidth:       images.DefaultWidth,
		ImageMinWidth:    images.MinWidth,
		ImageMaxWidth:    images.MaxWidth,
	})
	sessions := session.NewManager(storage.NewRedisSessionStore(rdb, settings.SessionTTL), router)

	receipts, err := service.NewReceiptPrinter(settings.ReceiptFont)
	if err != nil {
		log.Fatal("Failed to load receipt font:", err)
	}
	if !receipts.HasFont() {
		log.Println("WARNING: RECEIPT_FONT not set; non-Latin dish names print as dish numbers on receipts")
	}

	handler := httpapi.NewHandler(catalog, orders, stats, sessions, service.TableQRGenerator{BaseURL: settings.PublicBaseURL}, receipts)
	if err := httpapi.StartServer(ctx, ":"+settings.Port, httpapi.NewRouter(handler, settings.CORSOrigins)); err != nil {
		log.Fatal("Server failed:", err)
	}
}
