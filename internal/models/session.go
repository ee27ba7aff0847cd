package models

import (
	"time"

	"github.com/google/uuid"
)

// ECGSession сессия мониторинга: метаданные плюс аппендабельная серия
// снимков метрик. Сырые сэмплы не сохраняются — буферы живут только в памяти.
type ECGSession struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeviceID string    `json:"device_id" gorm:"type:varchar(100);not null;index"`

	PatientName string `json:"patient_name" gorm:"type:varchar(200)"`

	StartTime time.Time  `json:"start_time" gorm:"not null;index"`
	EndTime   *time.Time `json:"end_time" gorm:"index"` // null пока сессия активна

	// Снимки метрик как аппендабельный JSONB массив
	Metrics MetricsSeries `json:"metrics" gorm:"serializer:json;type:jsonb"`
}

func (ECGSession) TableName() string {
	return "ecg_sessions"
}

// MetricsSeries оптимизированная структура для аппенда снимков
type MetricsSeries struct {
	Points   []MetricsSnapshot `json:"points"`
	LastTime float64           `json:"last_time"`
	Count    int               `json:"count"`
}

// MetricsSnapshot компактный снимок метрик для персистентности
type MetricsSnapshot struct {
	T     float64     `json:"t"` // секунды от начала сессии
	HR    Measurement `json:"hr"`
	PR    Measurement `json:"pr"`
	QRS   Measurement `json:"qrs"`
	QT    Measurement `json:"qt"`
	QTc   Measurement `json:"qtc"`
	Axis  AxisResult  `json:"axis"`
	ST    STResult    `json:"st"`
	Label string      `json:"label"`
}
