package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"ECG_monitor/internal/auth"
	"ECG_monitor/internal/models"
)

// RunMigrations выполняет миграции базы данных
func RunMigrations(db *gorm.DB) error {
	log.Println("🔄 Запуск миграций базы данных...")

	err := db.AutoMigrate(
		&models.ECGSession{},
		&auth.User{},
	)
	if err != nil {
		return fmt.Errorf("ошибка миграции: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("ошибка создания индексов: %w", err)
	}

	log.Println("✅ Миграции выполнены успешно")
	return nil
}

// createIndexes создает дополнительные индексы
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_ecg_sessions_device_active ON ecg_sessions(device_id, end_time) WHERE end_time IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_ecg_sessions_start_time_desc ON ecg_sessions(start_time DESC)",

		// GIN индекс для JSONB с рядами метрик
		"CREATE INDEX IF NOT EXISTS idx_ecg_sessions_metrics_gin ON ecg_sessions USING GIN (metrics)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Не удалось создать индекс: %s, ошибка: %v", indexSQL, err)
		}
	}

	return nil
}
