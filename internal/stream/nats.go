// Package stream публикация свежих записей метрик в NATS для внешних
// потребителей (дашборды, алертинг).
package stream

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"ECG_monitor/configs"
	"ECG_monitor/internal/models"
)

// Publisher публикует записи метрик в сабжект {prefix}.{deviceID}
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// Connect подключается к NATS с бесконечным переподключением
func Connect(cfg configs.NATSConfig) (*Publisher, error) {
	conn, err := nats.Connect(
		cfg.URL,
		nats.Name("ecg-monitor"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("подключение к NATS: %w", err)
	}

	log.Printf("📤 Подключены к NATS: %s", cfg.URL)
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish отправляет запись метрик. Ошибка публикации логируется и не
// останавливает конвейер.
func (p *Publisher) Publish(record models.MetricsRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		log.Printf("❌ Сериализация записи метрик: %v", err)
		return
	}

	subject := fmt.Sprintf("%s.%s", p.subject, record.DeviceID)
	if err := p.conn.Publish(subject, payload); err != nil {
		log.Printf("⚠️ Публикация в NATS не удалась: %v", err)
	}
}

// Close дожидается отправки буферизованных сообщений и закрывает соединение
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		log.Printf("⚠️ Ошибка при закрытии NATS: %v", err)
	}
}
