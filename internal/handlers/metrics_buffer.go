package handlers

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ECG_monitor/internal/models"
)

// MetricsBuffer копит снимки метрик и пакетно дописывает их в JSONB
// колонку сессии. Сырые сэмплы в БД не попадают.
type MetricsBuffer struct {
	db             *gorm.DB
	sessionBuffers map[uuid.UUID]*sessionMetricsBuffer
	mu             sync.RWMutex
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
}

type sessionMetricsBuffer struct {
	sessionID uuid.UUID
	points    []models.MetricsSnapshot
	lastFlush time.Time
	mu        sync.Mutex
}

// NewMetricsBuffer создает буфер и запускает автофлаш
func NewMetricsBuffer(db *gorm.DB) *MetricsBuffer {
	ctx, cancel := context.WithCancel(context.Background())

	buffer := &MetricsBuffer{
		db:             db,
		sessionBuffers: make(map[uuid.UUID]*sessionMetricsBuffer),
		ctx:            ctx,
		cancel:         cancel,
	}

	buffer.wg.Add(1)
	go buffer.autoFlushWorker()

	log.Println("💾 Буфер метрик инициализирован")
	return buffer
}

// AddSnapshot добавляет снимок метрик в буфер сессии
func (mb *MetricsBuffer) AddSnapshot(sessionID uuid.UUID, snapshot models.MetricsSnapshot) {
	mb.mu.RLock()
	buf, exists := mb.sessionBuffers[sessionID]
	mb.mu.RUnlock()

	if !exists {
		mb.mu.Lock()
		if buf, exists = mb.sessionBuffers[sessionID]; !exists {
			buf = &sessionMetricsBuffer{
				sessionID: sessionID,
				points:    make([]models.MetricsSnapshot, 0, 100),
				lastFlush: time.Now(),
			}
			mb.sessionBuffers[sessionID] = buf
		}
		mb.mu.Unlock()
	}

	buf.mu.Lock()
	buf.points = append(buf.points, snapshot)
	shouldFlush := len(buf.points) >= 50 || time.Since(buf.lastFlush) > 30*time.Second
	buf.mu.Unlock()

	if shouldFlush {
		go mb.flushSessionAsync(sessionID)
	}
}

// FlushAll флашит все буферы
func (mb *MetricsBuffer) FlushAll() {
	mb.mu.RLock()
	var sessionIDs []uuid.UUID
	for sessionID := range mb.sessionBuffers {
		sessionIDs = append(sessionIDs, sessionID)
	}
	mb.mu.RUnlock()

	for _, sessionID := range sessionIDs {
		mb.flushSessionAsync(sessionID)
	}
}

// drain атомарно забирает накопленные точки и сбрасывает буфер
func (b *sessionMetricsBuffer) drain() []models.MetricsSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	points := make([]models.MetricsSnapshot, len(b.points))
	copy(points, b.points)
	b.points = b.points[:0]
	b.lastFlush = time.Now()
	return points
}

// flushSessionAsync выгружает накопленные снимки одной сессии
func (mb *MetricsBuffer) flushSessionAsync(sessionID uuid.UUID) {
	mb.mu.RLock()
	buf, exists := mb.sessionBuffers[sessionID]
	mb.mu.RUnlock()

	if !exists {
		return
	}
	mb.flushBuffer(buf)
}

func (mb *MetricsBuffer) flushBuffer(buf *sessionMetricsBuffer) {
	points := buf.drain()
	if len(points) == 0 {
		return
	}

	if err := mb.appendToDatabase(buf.sessionID, points); err != nil {
		log.Printf("❌ Ошибка записи метрик сессии %s: %v", buf.sessionID, err)
	} else {
		log.Printf("💾 Записано в БД: сессия %s, %d снимков метрик", buf.sessionID, len(points))
	}
}

// appendToDatabase дописывает снимки в JSONB без перечитывания всей серии
func (mb *MetricsBuffer) appendToDatabase(sessionID uuid.UUID, points []models.MetricsSnapshot) error {
	pointsJSON, err := json.Marshal(points)
	if err != nil {
		return err
	}
	lastTimeStr := strconv.FormatFloat(points[len(points)-1].T, 'f', -1, 64)

	return mb.db.Model(&models.ECGSession{}).
		Where("id = ?", sessionID).
		Update("metrics", gorm.Expr(
			`jsonb_set(
       jsonb_set(
         jsonb_set(metrics,
           '{points}', COALESCE(metrics->'points','[]'::jsonb)||?::jsonb),
         '{count}', (COALESCE((metrics->>'count')::int,0)+?)::text::jsonb),
       '{last_time}', ?::text::jsonb)`,
			string(pointsJSON),
			len(points),
			lastTimeStr,
		)).Error
}

// RemoveSessionBuffer удаляет буфер завершенной сессии. Хвост
// недосброшенных снимков дописывается в БД синхронно до возврата,
// иначе остановка сессии теряла бы последний неполный пакет.
func (mb *MetricsBuffer) RemoveSessionBuffer(sessionID uuid.UUID) {
	mb.mu.Lock()
	buf, exists := mb.sessionBuffers[sessionID]
	delete(mb.sessionBuffers, sessionID)
	mb.mu.Unlock()

	if exists {
		mb.flushBuffer(buf)
	}
}

// autoFlushWorker периодически флашит залежавшиеся буферы
func (mb *MetricsBuffer) autoFlushWorker() {
	defer mb.wg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mb.flushOldBuffers()
		case <-mb.ctx.Done():
			mb.FlushAll()
			log.Println("🛑 Автофлаш метрик остановлен")
			return
		}
	}
}

func (mb *MetricsBuffer) flushOldBuffers() {
	mb.mu.RLock()
	var sessionsToFlush []uuid.UUID
	for sessionID, buf := range mb.sessionBuffers {
		if time.Since(buf.lastFlush) > 15*time.Second {
			sessionsToFlush = append(sessionsToFlush, sessionID)
		}
	}
	mb.mu.RUnlock()

	for _, sessionID := range sessionsToFlush {
		go mb.flushSessionAsync(sessionID)
	}
}

// Stop останавливает буфер с финальным флашем
func (mb *MetricsBuffer) Stop() {
	mb.cancel()
	mb.wg.Wait()
}
