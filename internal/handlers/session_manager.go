package handlers

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ECG_monitor/internal/models"
)

// SessionManager управляет жизненным циклом сессий мониторинга ЭКГ
type SessionManager struct {
	db             *gorm.DB
	activeSessions map[string]*models.ECGSession
	sessionsLock   sync.RWMutex
	metricsBuffer  *MetricsBuffer
}

// NewSessionManager создает менеджер сессий
func NewSessionManager(db *gorm.DB, metricsBuffer *MetricsBuffer) *SessionManager {
	manager := &SessionManager{
		db:             db,
		activeSessions: make(map[string]*models.ECGSession),
		metricsBuffer:  metricsBuffer,
	}

	log.Println("📋 Менеджер сессий инициализирован")
	return manager
}

// StartSession создает и запускает новую сессию мониторинга
func (sm *SessionManager) StartSession(deviceID, patientName string) (*models.ECGSession, error) {
	sm.sessionsLock.Lock()
	defer sm.sessionsLock.Unlock()

	if existing := sm.activeSessions[deviceID]; existing != nil {
		return nil, fmt.Errorf("активная сессия уже существует для устройства %s", deviceID)
	}

	session := &models.ECGSession{
		ID:          uuid.New(),
		DeviceID:    deviceID,
		PatientName: patientName,
		StartTime:   time.Now().UTC(),
		Metrics: models.MetricsSeries{
			Points: []models.MetricsSnapshot{},
		},
	}

	if err := sm.db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("не удалось создать сессию в БД: %w", err)
	}

	sm.activeSessions[deviceID] = session

	log.Printf("✅ Запущена сессия %s для устройства %s", session.ID.String(), deviceID)
	return session, nil
}

// StopSession завершает активную сессию
func (sm *SessionManager) StopSession(sessionID uuid.UUID) (*models.ECGSession, error) {
	sm.sessionsLock.Lock()
	defer sm.sessionsLock.Unlock()

	var targetDeviceID string
	var targetSession *models.ECGSession

	for deviceID, session := range sm.activeSessions {
		if session.ID == sessionID {
			targetDeviceID = deviceID
			targetSession = session
			break
		}
	}

	if targetSession == nil {
		return nil, fmt.Errorf("активная сессия %s не найдена", sessionID.String())
	}

	now := time.Now().UTC()
	targetSession.EndTime = &now

	if err := sm.db.Model(targetSession).Update("end_time", now).Error; err != nil {
		return nil, fmt.Errorf("не удалось обновить сессию в БД: %w", err)
	}

	delete(sm.activeSessions, targetDeviceID)
	sm.metricsBuffer.RemoveSessionBuffer(sessionID)

	log.Printf("✅ Завершена сессия %s для устройства %s", sessionID.String(), targetDeviceID)
	return targetSession, nil
}

// GetActiveSession возвращает активную сессию устройства
func (sm *SessionManager) GetActiveSession(deviceID string) *models.ECGSession {
	sm.sessionsLock.RLock()
	defer sm.sessionsLock.RUnlock()
	return sm.activeSessions[deviceID]
}

// RecordSnapshot кладет снимок метрик в буфер активной сессии устройства.
// Вне активной сессии снимок отбрасывается.
func (sm *SessionManager) RecordSnapshot(deviceID string, record models.MetricsRecord) {
	session := sm.GetActiveSession(deviceID)
	if session == nil {
		return
	}

	sm.metricsBuffer.AddSnapshot(session.ID, models.MetricsSnapshot{
		T:     record.Timestamp.Sub(session.StartTime).Seconds(),
		HR:    record.HeartRate,
		PR:    record.PR,
		QRS:   record.QRS,
		QT:    record.QT,
		QTc:   record.QTc,
		Axis:  record.QRSAxis,
		ST:    record.ST,
		Label: string(record.Arrhythmia),
	})
}

// GetSession получает сессию из БД по ID
func (sm *SessionManager) GetSession(sessionID uuid.UUID) (*models.ECGSession, error) {
	var session models.ECGSession
	if err := sm.db.First(&session, "id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionsByDevice все сессии устройства, свежие первыми
func (sm *SessionManager) GetSessionsByDevice(deviceID string) ([]*models.ECGSession, error) {
	var sessions []*models.ECGSession
	if err := sm.db.Where("device_id = ?", deviceID).
		Order("start_time DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSessionStatistics статистика сессий для служебного эндпоинта
func (sm *SessionManager) GetSessionStatistics() map[string]interface{} {
	stats := make(map[string]interface{})

	sm.sessionsLock.RLock()
	deviceStats := make(map[string]interface{}, len(sm.activeSessions))
	for deviceID, session := range sm.activeSessions {
		deviceStats[deviceID] = map[string]interface{}{
			"session_id": session.ID.String(),
			"start_time": session.StartTime,
			"duration":   time.Since(session.StartTime).Seconds(),
		}
	}
	stats["active_sessions_count"] = len(sm.activeSessions)
	sm.sessionsLock.RUnlock()

	stats["devices"] = deviceStats

	var totalSessions int64
	sm.db.Model(&models.ECGSession{}).Count(&totalSessions)
	stats["total_sessions"] = totalSessions

	return stats
}

// CleanupInactiveSessions принудительно завершает зависшие сессии
func (sm *SessionManager) CleanupInactiveSessions() {
	sm.sessionsLock.Lock()
	defer sm.sessionsLock.Unlock()

	var sessionsToRemove []string
	threshold := time.Now().Add(-24 * time.Hour)

	for deviceID, session := range sm.activeSessions {
		if session.StartTime.Before(threshold) {
			now := time.Now().UTC()
			session.EndTime = &now
			sm.db.Model(session).Update("end_time", now)

			sessionsToRemove = append(sessionsToRemove, deviceID)
			log.Printf("⚠️ Принудительно завершена зависшая сессия: %s", session.ID.String())
		}
	}

	for _, deviceID := range sessionsToRemove {
		delete(sm.activeSessions, deviceID)
	}
}
