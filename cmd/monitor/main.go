package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ECG_monitor/configs"
	"ECG_monitor/internal/auth"
	"ECG_monitor/internal/database"
	"ECG_monitor/internal/handlers"
	"ECG_monitor/internal/models"
	"ECG_monitor/internal/mqtt_client"
	"ECG_monitor/internal/pipeline"
	"ECG_monitor/internal/stream"
)

func main() {
	log.Println(" === ECG MONITOR (12-lead Stream Processing) ===")

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Файл .env не найден, используем переменные окружения")
	}

	auth.InitLogger()

	// 1. Конфигурация
	cfg := configs.LoadConfig()
	log.Printf("Конфигурация загружена: DB=%s:%s, MQTT=%s, NATS=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.MQTT.Broker, cfg.NATS.URL)

	// 2. База данных
	db, err := database.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}
	defer database.CloseDatabase()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Ошибка миграций: %v", err)
	}

	// 3. Персистентность метрик и сессии
	metricsBuffer := handlers.NewMetricsBuffer(db)
	sessionManager := handlers.NewSessionManager(db, metricsBuffer)

	// 4. Конвейер обработки
	p := pipeline.NewPipeline(cfg)

	// 5. NATS публикация метрик. Недоступность NATS не мешает мониторингу.
	var publisher *stream.Publisher
	if pub, err := stream.Connect(cfg.NATS); err != nil {
		log.Printf("⚠️ NATS недоступен, метрики не публикуются: %v", err)
	} else {
		publisher = pub
		defer publisher.Close()
	}

	p.OnMetrics(func(record models.MetricsRecord) {
		if publisher != nil {
			publisher.Publish(record)
		}
		sessionManager.RecordSnapshot(cfg.Signal.DeviceID, record)
	})
	p.Run()
	p.Start()

	// 6. MQTT: кадры от аппарата. Ошибка подключения фатальна.
	mqttClient, err := mqtt_client.InitClient(cfg.MQTT, p.Ingest)
	if err != nil {
		log.Fatalf("Ошибка MQTT: %v", err)
	}
	defer mqttClient.Disconnect(250)

	// 7. Аутентификация и REST API
	jwtService := auth.NewJWTService()
	authService := auth.NewService(db, jwtService)
	authHandler := auth.NewHandler(authService, jwtService)

	restAPI := handlers.NewRESTAPIServer(p, sessionManager, authHandler, cfg.Signal.DeviceID)
	router := restAPI.SetupRoutes()

	go func() {
		log.Printf("REST API Server запущен на :%s", cfg.App.Port)
		if err := http.ListenAndServe(":"+cfg.App.Port, router); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Ошибка HTTP сервера: %v", err)
		}
	}()

	log.Println("Сервис запущен → Ctrl+C для остановки")
	log.Println("MQTT → Конвейер → {REST API, NATS, Снимки метрик → Database}")

	// 8. Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Graceful shutdown...")
	p.Close()
	metricsBuffer.Stop()
	log.Println("Сервис полностью остановлен")
}
