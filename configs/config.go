// configs/config.go
package configs

import (
	"os"
	"strconv"
)

type Config struct {
	Database   DatabaseConfig
	App        AppConfig
	MQTT       MQTTConfig
	NATS       NATSConfig
	Signal     SignalConfig
	Detector   DetectorConfig
	Classifier ClassifierConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

type AppConfig struct {
	Port     string // HTTP_PORT из .env
	LogLevel string
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      int
}

type NATSConfig struct {
	URL     string
	Subject string // префикс сабжекта для метрик
}

// SignalConfig параметры сигнального тракта
type SignalConfig struct {
	SamplingRate float64 // Гц, единая частота для всего буфера
	WaveSpeed    float64 // мм/с, масштабирует ёмкость буфера: 2000 * speed/50
	WaveGain     float64 // мм/мВ, масштабирует классифицируемую амплитуду: gain/10
	MVPerUnit    float64 // калибровка сырых единиц АЦП в милливольты
	DeviceID     string
	TickMillis   int // период цикла обработки
}

// BufferCapacity ёмкость кольцевого буфера, производная от скорости развёртки
func (s SignalConfig) BufferCapacity() int {
	capacity := int(2000 * s.WaveSpeed / 50)
	if capacity < 1 {
		capacity = 1
	}
	return capacity
}

// DetectorConfig пороги детектора QRS и локатора реперных точек.
// Эвристики не валидированы клинически, поэтому вынесены в конфигурацию.
type DetectorConfig struct {
	RefractorySec     float64 // минимальный интервал между R-пиками
	RProminenceFrac   float64 // доля stddev окна для прominence R-пика
	PTProminenceFrac  float64 // доля stddev для P и T волн
	QSWindowSec       float64 // окно поиска Q и S вокруг R
	PWindowStartSec   float64 // начало окна P до Q
	PWindowEndSec     float64 // конец окна P до Q
	TWindowStartSec   float64 // начало окна T после S
	TWindowEndSec     float64 // конец окна T после S
	AxisWindowSec     float64 // полуокно суммирования для оси QRS
	STJOffsetSec      float64 // смещение точки J после R
	STOffsetSec       float64 // смещение точки ST после точки J
	MinSamplesForAxis int     // минимум сэмплов для оси и ST

	// Пороги изолинии ST в сырых единицах АЦП. Клиническая трактовка
	// требует калибровки через MVPerUnit, см. SignalConfig.
	STIsoLow  float64
	STIsoHigh float64
}

// ClassifierConfig пороги правил классификации аритмий
type ClassifierConfig struct {
	FlatlineAmplitude float64 // размах ниже порога — асистолия
	VFAmplitude       float64 // минимальный размах для фибрилляции
	VFMinPeaks        int
	VFRRStd           float64 // с
	VFHeartRate       float64 // уд/мин
	RRRegularStd      float64 // с, граница регулярности RR
	RRIrregularStd    float64 // с, граница нерегулярности RR
	WideQRSMillis     float64 // мс, широкий комплекс QRS
	TachyHeartRate    float64
	BradyHeartRate    float64
	SVTHeartRate      float64
	FlutterHRLow      float64
	FlutterHRHigh     float64
	SparsePFraction   float64 // доля P-пиков от R-пиков, ниже — "редкие P"
	EarlyPRFraction   float64 // PR короче этой доли медианы — ранняя P-волна
	LongPRMillis      float64 // мс, АВ-блокада 1 степени
	DroppedQRSFrac    float64 // доля от ожидаемого числа R-пиков
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() *Config {

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "ecg_user"),
			Password: getEnv("DB_PASSWORD", "ecg_password"),
			DBName:   getEnv("DB_NAME", "ecg_monitor"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "Europe/Moscow"),
		},
		App: AppConfig{
			Port:     getEnv("HTTP_PORT", "8080"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		MQTT: MQTTConfig{
			Broker:   getEnv("MQTT_BROKER", "tcp://localhost:1883"),
			ClientID: getEnv("MQTT_CLIENT_ID", "ecg_monitor_service"),
			Username: getEnv("MQTT_USERNAME", ""),
			Password: getEnv("MQTT_PASSWORD", ""),
			QoS:      getEnvAsInt("MQTT_QOS", 1),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Subject: getEnv("NATS_SUBJECT", "ecg.metrics"),
		},
		Signal: SignalConfig{
			SamplingRate: getEnvAsFloat("ECG_SAMPLING_RATE", 500),
			WaveSpeed:    getEnvAsFloat("ECG_WAVE_SPEED", 50),
			WaveGain:     getEnvAsFloat("ECG_WAVE_GAIN", 10),
			MVPerUnit:    getEnvAsFloat("ECG_MV_PER_UNIT", 0.01),
			DeviceID:     getEnv("ECG_DEVICE_ID", "ECG-MONITOR-0001"),
			TickMillis:   getEnvAsInt("ECG_TICK_MILLIS", 200),
		},
		Detector:   DefaultDetectorConfig(),
		Classifier: DefaultClassifierConfig(),
	}
}

// DefaultDetectorConfig пороги детектора по умолчанию
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		RefractorySec:     getEnvAsFloat("QRS_REFRACTORY_SEC", 0.2),
		RProminenceFrac:   getEnvAsFloat("QRS_PROMINENCE_FRAC", 0.6),
		PTProminenceFrac:  getEnvAsFloat("PT_PROMINENCE_FRAC", 0.1),
		QSWindowSec:       0.06,
		PWindowStartSec:   0.2,
		PWindowEndSec:     0.08,
		TWindowStartSec:   0.08,
		TWindowEndSec:     0.4,
		AxisWindowSec:     0.05,
		STJOffsetSec:      0.04,
		STOffsetSec:       0.08,
		MinSamplesForAxis: 100,
		STIsoLow:          getEnvAsFloat("ST_ISO_LOW", 80),
		STIsoHigh:         getEnvAsFloat("ST_ISO_HIGH", 120),
	}
}

// DefaultClassifierConfig пороги классификатора по умолчанию
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		FlatlineAmplitude: getEnvAsFloat("CLS_FLATLINE_AMPLITUDE", 50),
		VFAmplitude:       getEnvAsFloat("CLS_VF_AMPLITUDE", 100),
		VFMinPeaks:        getEnvAsInt("CLS_VF_MIN_PEAKS", 5),
		VFRRStd:           getEnvAsFloat("CLS_VF_RR_STD", 0.25),
		VFHeartRate:       getEnvAsFloat("CLS_VF_HEART_RATE", 180),
		RRRegularStd:      getEnvAsFloat("CLS_RR_REGULAR_STD", 0.12),
		RRIrregularStd:    getEnvAsFloat("CLS_RR_IRREGULAR_STD", 0.12),
		WideQRSMillis:     getEnvAsFloat("CLS_WIDE_QRS_MS", 120),
		TachyHeartRate:    getEnvAsFloat("CLS_TACHY_HR", 100),
		BradyHeartRate:    getEnvAsFloat("CLS_BRADY_HR", 60),
		SVTHeartRate:      getEnvAsFloat("CLS_SVT_HR", 150),
		FlutterHRLow:      getEnvAsFloat("CLS_FLUTTER_HR_LOW", 140),
		FlutterHRHigh:     getEnvAsFloat("CLS_FLUTTER_HR_HIGH", 170),
		SparsePFraction:   getEnvAsFloat("CLS_SPARSE_P_FRAC", 0.5),
		EarlyPRFraction:   getEnvAsFloat("CLS_EARLY_PR_FRAC", 0.7),
		LongPRMillis:      getEnvAsFloat("CLS_LONG_PR_MS", 200),
		DroppedQRSFrac:    getEnvAsFloat("CLS_DROPPED_QRS_FRAC", 0.6),
	}
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt получает переменную окружения как int
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat получает переменную окружения как float64
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
