package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ECG_monitor/internal/auth"
	"ECG_monitor/internal/models"
	"ECG_monitor/internal/pipeline"
)

// @title ECG Monitor API
// @version 1.0
// @description API для системы мониторинга ЭКГ по 12 отведениям

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @tag.name acquisition
// @tag.description Управление сбором данных

// @tag.name metrics
// @tag.description Метрики и клинический отчет

// @tag.name sessions
// @tag.description Управление сессиями мониторинга

// @tag.name monitoring
// @tag.description Мониторинг состояния сервиса

// RESTAPIServer обрабатывает REST API запросы
type RESTAPIServer struct {
	pipeline       *pipeline.Pipeline
	sessionManager *SessionManager
	authHandler    *auth.Handler
	deviceID       string
}

// SessionRequest запрос для создания сессии
// @Description Данные для создания новой сессии мониторинга
type SessionRequest struct {
	PatientName string `json:"patient_name" binding:"required" example:"Иванов И.И."` // Имя пациента
}

// SessionResponse ответ с информацией о сессии
// @Description Информация о сессии мониторинга ЭКГ
type SessionResponse struct {
	SessionID   string     `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440001"` // UUID сессии
	DeviceID    string     `json:"device_id" example:"ECG-MONITOR-0001"`                      // Идентификатор устройства
	PatientName string     `json:"patient_name" example:"Иванов И.И."`                        // Имя пациента
	Status      string     `json:"status" example:"active" enums:"active,stopped"`            // Статус сессии
	StartTime   time.Time  `json:"start_time" example:"2023-09-01T10:00:00Z"`                 // Время начала сессии
	EndTime     *time.Time `json:"end_time,omitempty" example:"2023-09-01T11:30:00Z"`         // Время окончания сессии
	Duration    int        `json:"duration" example:"5400"`                                   // Продолжительность в секундах
}

// AcquisitionStatusResponse статус сбора данных
// @Description Текущее состояние сбора и заполненность буферов
type AcquisitionStatusResponse struct {
	State     string  `json:"state" example:"acquiring" enums:"idle,acquiring,stopped"` // Состояние сбора
	DeviceID  string  `json:"device_id" example:"ECG-MONITOR-0001"`                     // Идентификатор устройства
	Capacity  int     `json:"capacity" example:"2000"`                                  // Ёмкость буферов
	Collected int     `json:"collected" example:"1520"`                                 // Собрано сэмплов
	WaveSpeed float64 `json:"wave_speed" example:"50"`                                  // Скорость развёртки, мм/с
	WaveGain  float64 `json:"wave_gain" example:"10"`                                   // Усиление, мм/мВ
}

// SettingsRequest запрос на изменение настроек развёртки
// @Description Новые значения скорости и усиления развёртки
type SettingsRequest struct {
	WaveSpeed *float64 `json:"wave_speed" example:"25"` // мм/с, меняет ёмкость буфера
	WaveGain  *float64 `json:"wave_gain" example:"20"`  // мм/мВ, меняет масштаб амплитуды
}

// LeadResponse снимок одного отведения
// @Description Сэмплы отведения от старых к новым, с учетом усиления
type LeadResponse struct {
	Lead    string    `json:"lead" example:"II"` // Имя отведения
	Samples []float64 `json:"samples"`           // Сэмплы
}

// HealthResponse состояние сервиса
// @Description Информация о состоянии и работоспособности сервиса
type HealthResponse struct {
	Status         string    `json:"status" example:"healthy"`                 // Статус сервиса
	Service        string    `json:"service" example:"ECG Monitor"`            // Название сервиса
	Timestamp      time.Time `json:"timestamp" example:"2023-09-01T10:00:00Z"` // Время проверки
	State          string    `json:"state" example:"acquiring"`                // Состояние сбора
	ActiveSessions int       `json:"active_sessions" example:"1"`              // Количество активных сессий
}

// ErrorResponse стандартный ответ об ошибке
// @Description Стандартная структура ответа об ошибке
type ErrorResponse struct {
	Error   string `json:"error" example:"Неверный формат данных"`     // Описание ошибки
	Details string `json:"details,omitempty" example:"field required"` // Дополнительные детали ошибки
}

// SuccessResponse стандартный ответ об успехе
// @Description Стандартная структура успешного ответа
type SuccessResponse struct {
	Message string      `json:"message" example:"Операция выполнена успешно"` // Сообщение об успехе
	Data    interface{} `json:"data,omitempty"`                               // Дополнительные данные
}

// NewRESTAPIServer создает REST API сервер
func NewRESTAPIServer(
	p *pipeline.Pipeline,
	sessionManager *SessionManager,
	authHandler *auth.Handler,
	deviceID string,
) *RESTAPIServer {
	return &RESTAPIServer{
		pipeline:       p,
		sessionManager: sessionManager,
		authHandler:    authHandler,
		deviceID:       deviceID,
	}
}

// SetupRoutes настраивает маршруты REST API
func (api *RESTAPIServer) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:80", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	api_group := r.Group("/api/v1")

	// === АУТЕНТИФИКАЦИЯ ===
	authGroup := api_group.Group("/auth")
	{
		authGroup.POST("/register", api.authHandler.Register)
		authGroup.POST("/login", api.authHandler.Login)
	}

	protected := api_group.Group("")
	protected.Use(api.authHandler.Middleware())

	// === СБОР ДАННЫХ ===
	acquisition := protected.Group("/acquisition")
	{
		acquisition.POST("/start", api.StartAcquisition)
		acquisition.POST("/stop", api.StopAcquisition)
		acquisition.POST("/reset", api.ResetAcquisition)
		acquisition.GET("/status", api.AcquisitionStatus)
	}

	// === МЕТРИКИ И ОТВЕДЕНИЯ ===
	metricsGroup := protected.Group("/metrics")
	{
		metricsGroup.GET("/latest", api.LatestMetrics)
		metricsGroup.GET("/report", api.Report)
	}
	leadsGroup := protected.Group("/leads")
	{
		leadsGroup.GET("", api.GetAllLeads)
		leadsGroup.GET("/:lead", api.GetLead)
	}
	protected.GET("/export/csv", api.ExportCSV)

	// === НАСТРОЙКИ РАЗВЁРТКИ ===
	settings := protected.Group("/settings")
	{
		settings.GET("", api.GetSettings)
		settings.PUT("", api.UpdateSettings)
	}

	// === УПРАВЛЕНИЕ СЕССИЯМИ ===
	sessions := protected.Group("/sessions")
	{
		sessions.POST("/start", api.StartSession)
		sessions.POST("/stop/:session_id", api.StopSession)
		sessions.GET("/:session_id", api.GetSession)
		sessions.GET("", api.GetDeviceSessions)
	}

	// === МОНИТОРИНГ СЕРВИСА ===
	monitoring := api_group.Group("/monitoring")
	{
		monitoring.GET("/health", api.HealthCheck)
		monitoring.GET("/statistics", api.SessionStatistics)
		monitoring.POST("/cleanup", api.CleanupSessions)
	}

	return r
}

// StartAcquisition запускает сбор данных
// @Summary Запуск сбора данных
// @Description Переводит конвейер в состояние сбора; кадры начинают попадать в буферы
// @Tags acquisition
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse "Сбор запущен"
// @Router /acquisition/start [post]
func (api *RESTAPIServer) StartAcquisition(c *gin.Context) {
	api.pipeline.Start()
	c.JSON(http.StatusOK, SuccessResponse{Message: "Сбор данных запущен"})
}

// StopAcquisition останавливает сбор данных
// @Summary Остановка сбора данных
// @Description Останавливает сбор. Буферы сохраняются до явного сброса, повторная остановка безопасна
// @Tags acquisition
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse "Сбор остановлен"
// @Router /acquisition/stop [post]
func (api *RESTAPIServer) StopAcquisition(c *gin.Context) {
	api.pipeline.Stop()
	c.JSON(http.StatusOK, SuccessResponse{Message: "Сбор данных остановлен"})
}

// ResetAcquisition очищает буферы
// @Summary Сброс буферов
// @Description Очищает буферы всех отведений и последнюю запись метрик
// @Tags acquisition
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse "Буферы очищены"
// @Router /acquisition/reset [post]
func (api *RESTAPIServer) ResetAcquisition(c *gin.Context) {
	api.pipeline.Reset()
	c.JSON(http.StatusOK, SuccessResponse{Message: "Буферы очищены"})
}

// AcquisitionStatus статус сбора данных
// @Summary Статус сбора данных
// @Tags acquisition
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AcquisitionStatusResponse "Текущий статус"
// @Router /acquisition/status [get]
func (api *RESTAPIServer) AcquisitionStatus(c *gin.Context) {
	speed, gain := api.pipeline.WaveSettings()
	c.JSON(http.StatusOK, AcquisitionStatusResponse{
		State:     api.pipeline.State().String(),
		DeviceID:  api.deviceID,
		Capacity:  api.pipeline.Capacity(),
		Collected: len(api.pipeline.Snapshot(models.LeadII)),
		WaveSpeed: speed,
		WaveGain:  gain,
	})
}

// LatestMetrics последняя запись метрик
// @Summary Последняя запись метрик
// @Description Возвращает свежую запись метрик конвейера. Неопределенные метрики сериализуются как null
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MetricsRecord "Запись метрик"
// @Router /metrics/latest [get]
func (api *RESTAPIServer) LatestMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, api.pipeline.Latest())
}

// Report клинический отчет
// @Summary Клинический отчет по текущему окну
// @Description Интервалы, ось QRS, сегмент ST и метка аритмии одним документом
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ReportResponse "Отчет"
// @Router /metrics/report [get]
func (api *RESTAPIServer) Report(c *gin.Context) {
	c.JSON(http.StatusOK, BuildReport(api.pipeline.Latest()))
}

// GetAllLeads снимки всех отведений
// @Summary Снимки всех 12 отведений
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]float64 "Сэмплы по отведениям"
// @Router /leads [get]
func (api *RESTAPIServer) GetAllLeads(c *gin.Context) {
	out := make(map[string][]float64, len(models.StandardLeads))
	for _, lead := range models.StandardLeads {
		out[string(lead)] = api.pipeline.ScaledSnapshot(lead)
	}
	c.JSON(http.StatusOK, out)
}

// GetLead снимок одного отведения
// @Summary Снимок одного отведения
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Param lead path string true "Имя отведения" example(II)
// @Success 200 {object} LeadResponse "Сэмплы отведения"
// @Failure 404 {object} ErrorResponse "Неизвестное отведение"
// @Router /leads/{lead} [get]
func (api *RESTAPIServer) GetLead(c *gin.Context) {
	name := c.Param("lead")
	for _, lead := range models.StandardLeads {
		if string(lead) == name {
			c.JSON(http.StatusOK, LeadResponse{
				Lead:    name,
				Samples: api.pipeline.ScaledSnapshot(lead),
			})
			return
		}
	}
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Неизвестное отведение: " + name})
}

// ExportCSV выгрузка буферов в CSV
// @Summary Экспорт содержимого буферов в CSV
// @Description Заголовок Sample плюс 12 отведений, по строке на индекс буфера; несобранные ячейки пустые
// @Tags metrics
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV файл"
// @Router /export/csv [get]
func (api *RESTAPIServer) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="ecg_export.csv"`)
	if err := api.pipeline.WriteCSV(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Не удалось выгрузить данные",
			Details: err.Error(),
		})
	}
}

// GetSettings текущие настройки развёртки
// @Summary Текущие настройки развёртки
// @Tags acquisition
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SettingsRequest "Настройки"
// @Router /settings [get]
func (api *RESTAPIServer) GetSettings(c *gin.Context) {
	speed, gain := api.pipeline.WaveSettings()
	c.JSON(http.StatusOK, gin.H{"wave_speed": speed, "wave_gain": gain})
}

// UpdateSettings изменение настроек развёртки
// @Summary Изменение скорости и усиления развёртки
// @Description Смена скорости меняет ёмкость буферов с сохранением свежих сэмплов
// @Tags acquisition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SettingsRequest true "Новые настройки"
// @Success 200 {object} SuccessResponse "Настройки применены"
// @Failure 400 {object} ErrorResponse "Неверный формат данных"
// @Router /settings [put]
func (api *RESTAPIServer) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Неверный формат данных",
			Details: err.Error(),
		})
		return
	}

	if req.WaveSpeed != nil {
		api.pipeline.SetWaveSpeed(*req.WaveSpeed)
	}
	if req.WaveGain != nil {
		api.pipeline.SetWaveGain(*req.WaveGain)
	}

	speed, gain := api.pipeline.WaveSettings()
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Настройки применены",
		Data:    gin.H{"wave_speed": speed, "wave_gain": gain},
	})
}

// StartSession запускает новую сессию мониторинга
// @Summary Запуск новой сессии мониторинга
// @Description Создает сессию для устройства монитора; снимки метрик начинают сохраняться в БД
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SessionRequest true "Данные для создания сессии"
// @Success 200 {object} SuccessResponse{data=SessionResponse} "Сессия успешно запущена"
// @Failure 400 {object} ErrorResponse "Неверный формат данных"
// @Failure 409 {object} ErrorResponse "Сессия для устройства уже активна"
// @Router /sessions/start [post]
func (api *RESTAPIServer) StartSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Неверный формат данных",
			Details: err.Error(),
		})
		return
	}

	if active := api.sessionManager.GetActiveSession(api.deviceID); active != nil {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "Сессия для устройства уже активна",
			Details: "active_session_id: " + active.ID.String(),
		})
		return
	}

	session, err := api.sessionManager.StartSession(api.deviceID, req.PatientName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Не удалось создать сессию",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Сессия успешно запущена",
		Data:    sessionResponse(session, "active"),
	})
}

// StopSession завершает активную сессию
// @Summary Завершение активной сессии мониторинга
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "UUID сессии" format(uuid)
// @Success 200 {object} SuccessResponse{data=SessionResponse} "Сессия успешно завершена"
// @Failure 400 {object} ErrorResponse "Неверный ID сессии"
// @Failure 404 {object} ErrorResponse "Сессия не найдена"
// @Router /sessions/stop/{session_id} [post]
func (api *RESTAPIServer) StopSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Неверный ID сессии"})
		return
	}

	session, err := api.sessionManager.StopSession(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Сессия не найдена или уже завершена"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Сессия успешно завершена",
		Data:    sessionResponse(session, "stopped"),
	})
}

// GetSession данные сессии
// @Summary Сессия по идентификатору
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "UUID сессии" format(uuid)
// @Success 200 {object} models.ECGSession "Сессия с рядом метрик"
// @Failure 400 {object} ErrorResponse "Неверный ID сессии"
// @Failure 404 {object} ErrorResponse "Сессия не найдена"
// @Router /sessions/{session_id} [get]
func (api *RESTAPIServer) GetSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Неверный ID сессии"})
		return
	}

	session, err := api.sessionManager.GetSession(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Сессия не найдена"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetDeviceSessions список сессий устройства
// @Summary Сессии устройства монитора
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} SessionResponse "Список сессий"
// @Router /sessions [get]
func (api *RESTAPIServer) GetDeviceSessions(c *gin.Context) {
	sessions, err := api.sessionManager.GetSessionsByDevice(api.deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Не удалось получить сессии",
			Details: err.Error(),
		})
		return
	}

	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		status := "active"
		if s.EndTime != nil {
			status = "stopped"
		}
		out = append(out, sessionResponse(s, status))
	}
	c.JSON(http.StatusOK, out)
}

// HealthCheck проверка здоровья сервиса
// @Summary Проверка состояния сервиса
// @Tags monitoring
// @Produce json
// @Success 200 {object} HealthResponse "Состояние сервиса"
// @Router /monitoring/health [get]
func (api *RESTAPIServer) HealthCheck(c *gin.Context) {
	activeSessions := 0
	if api.sessionManager.GetActiveSession(api.deviceID) != nil {
		activeSessions = 1
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:         "healthy",
		Service:        "ECG Monitor",
		Timestamp:      time.Now().UTC(),
		State:          api.pipeline.State().String(),
		ActiveSessions: activeSessions,
	})
}

// SessionStatistics статистика по сессиям
// @Summary Статистика по сессиям записи
// @Description Количество сессий в БД и активных в памяти
// @Tags monitoring
// @Produce json
// @Success 200 {object} map[string]interface{} "Статистика"
// @Router /monitoring/statistics [get]
func (api *RESTAPIServer) SessionStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, api.sessionManager.GetSessionStatistics())
}

// CleanupSessions очистка зависших сессий
// @Summary Очистка зависших сессий
// @Tags monitoring
// @Produce json
// @Success 200 {object} SuccessResponse "Очистка выполнена"
// @Router /monitoring/cleanup [post]
func (api *RESTAPIServer) CleanupSessions(c *gin.Context) {
	api.sessionManager.CleanupInactiveSessions()
	c.JSON(http.StatusOK, SuccessResponse{Message: "Очистка сессий выполнена"})
}

func sessionResponse(s *models.ECGSession, status string) SessionResponse {
	duration := int(time.Since(s.StartTime).Seconds())
	if s.EndTime != nil {
		duration = int(s.EndTime.Sub(s.StartTime).Seconds())
	}
	return SessionResponse{
		SessionID:   s.ID.String(),
		DeviceID:    s.DeviceID,
		PatientName: s.PatientName,
		Status:      status,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Duration:    duration,
	}
}
