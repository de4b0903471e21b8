package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/lemon630/order-meal/config"
	"github.com/lemon630/order-meal/stats-svc/internal/service"
	"github.com/lemon630/order-meal/stats-svc/internal/storage"
)

func main() {
	config.LoadEnv()
	if !config.Load().KafkaEnabled {
		log.Fatal("KAFKA_BROKER must be set for stats-svc")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(config.OrdersTopic, "stats-svc-consumer")
	defer reader.Close()

	consumer := service.NewConsumer(reader, storage.NewStore(rdb))
	if err := consumer.Start(ctx); err != nil {
		log.Fatal("Consumer failed:", err)
	}
}
