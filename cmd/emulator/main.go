package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"

	"ECG_monitor/configs"
	"ECG_monitor/internal/mqtt_client"
	"ECG_monitor/internal/signalgen"
)

var mqttClient mqtt.Client

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	fmt.Println("✓ Подключение к MQTT брокеру установлено")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	fmt.Printf("Соединение с MQTT брокером потеряно: %v\n", err)
}

func initMQTTClient(broker string) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(fmt.Sprintf("ecg-device-%d", time.Now().Unix()))
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler
	mqttClient = mqtt.NewClient(opts)
	if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("ошибка подключения к MQTT: %v", token.Error())
	}
	return nil
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func main() {
	fmt.Println("=== ЭМУЛЯТОР АППАРАТА ЭКГ (синтетический 12-канальный сигнал) ===")

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Файл .env не найден, используем переменные окружения")
	}

	cfg := configs.LoadConfig()
	hrBPM := envFloat("EMULATOR_HR", 72)
	noise := envFloat("EMULATOR_NOISE", 0.02)

	if err := initMQTTClient(cfg.MQTT.Broker); err != nil {
		log.Fatalf("Не удалось инициализировать MQTT клиент: %v", err)
	}
	defer mqttClient.Disconnect(250)

	topic := mqtt_client.PublishTopic(cfg.Signal.DeviceID)
	gen := signalgen.NewGenerator(cfg.Signal.SamplingRate, hrBPM, noise)

	fmt.Printf("📡 Публикация в %s: fs=%.0f Гц, ритм %.0f уд/мин\n",
		topic, cfg.Signal.SamplingRate, hrBPM)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Кадры уходят пачками каждые 50 мс, чтобы не будить планировщик
	// на каждый сэмпл
	const batchInterval = 50 * time.Millisecond
	batchSize := int(cfg.Signal.SamplingRate * batchInterval.Seconds())
	if batchSize < 1 {
		batchSize = 1
	}

	ticker := time.NewTicker(batchInterval)
	defer ticker.Stop()

	sent := 0
	for {
		select {
		case <-ticker.C:
			for i := 0; i < batchSize; i++ {
				token := mqttClient.Publish(topic, byte(cfg.MQTT.QoS), false, gen.NextFrame())
				if !token.WaitTimeout(2 * time.Second) {
					log.Println("⚠️ Таймаут отправки кадра")
					break
				}
				if err := token.Error(); err != nil {
					log.Printf("Ошибка отправки кадра: %v", err)
					break
				}
				sent++
			}
			if sent%int(cfg.Signal.SamplingRate*10) < batchSize {
				fmt.Printf("✅ Отправлено кадров: %d\n", sent)
			}
		case <-sigChan:
			fmt.Printf("\n🏁 Эмуляция завершена, отправлено %d кадров\n", sent)
			return
		}
	}
}
