package handlers

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ECG_monitor/internal/models"
)

// newMockedMetricsBuffer буфер метрик поверх подставной БД,
// без автофлаш-воркера
func newMockedMetricsBuffer(t *testing.T) (*MetricsBuffer, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm: %v", err)
	}

	return &MetricsBuffer{
		db:             db,
		sessionBuffers: make(map[uuid.UUID]*sessionMetricsBuffer),
	}, mock
}

func TestSessionBufferDrain(t *testing.T) {
	buf := &sessionMetricsBuffer{
		sessionID: uuid.New(),
		lastFlush: time.Now().Add(-time.Minute),
	}
	buf.points = append(buf.points,
		models.MetricsSnapshot{T: 0.2},
		models.MetricsSnapshot{T: 0.4},
	)

	points := buf.drain()
	if len(points) != 2 || points[1].T != 0.4 {
		t.Fatalf("drain вернул %+v", points)
	}
	if len(buf.points) != 0 {
		t.Errorf("буфер не очищен: %d точек", len(buf.points))
	}
	if time.Since(buf.lastFlush) > time.Second {
		t.Error("lastFlush не обновлен")
	}
}

// Остановка сессии дописывает последний неполный пакет снимков
// в БД до удаления буфера из карты
func TestRemoveSessionBufferFlushesTail(t *testing.T) {
	mb, mock := newMockedMetricsBuffer(t)
	sessionID := uuid.New()

	for i := 0; i < 3; i++ {
		mb.AddSnapshot(sessionID, models.MetricsSnapshot{
			T:     float64(i) * 0.2,
			Label: string(models.LabelNoneDetected),
		})
	}

	mock.ExpectExec(`UPDATE "ecg_sessions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mb.RemoveSessionBuffer(sessionID)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("хвост снимков не дописан до возврата: %v", err)
	}

	mb.mu.RLock()
	_, exists := mb.sessionBuffers[sessionID]
	mb.mu.RUnlock()
	if exists {
		t.Error("буфер сессии не удален")
	}
}
