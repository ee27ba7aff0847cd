// Package pipeline связывает сигнальный тракт в единый конвейер:
// кадр → отведения → кольцевые буферы → детектор QRS → реперные точки →
// интервалы, ось, ST → классификатор → свежая запись метрик.
package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"ECG_monitor/configs"
	"ECG_monitor/internal/buffer"
	"ECG_monitor/internal/classify"
	"ECG_monitor/internal/detect"
	"ECG_monitor/internal/leads"
	"ECG_monitor/internal/metrics"
	"ECG_monitor/internal/models"
)

// State состояние сбора данных
type State int

const (
	StateIdle State = iota
	StateAcquiring
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// MetricsFunc вызывается после каждого цикла обработки со свежей записью
type MetricsFunc func(models.MetricsRecord)

// Pipeline конвейер обработки ЭКГ. Буферы мутируются только из
// воркера обработки; внешние читатели получают копии под RLock.
type Pipeline struct {
	signalCfg configs.SignalConfig

	buffers    *buffer.LeadSet
	detector   *detect.Detector
	intervals  *metrics.IntervalCalculator
	axis       *metrics.AxisCalculator
	classifier *classify.Classifier

	frameChannel chan string
	onMetrics    MetricsFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.RWMutex
	state    State
	latest   models.MetricsRecord
	waveGain float64
}

// NewPipeline создает конвейер без запуска воркеров
func NewPipeline(cfg *configs.Config) *Pipeline {
	ctx, cancel := context.WithCancel(context.Background())

	fs := cfg.Signal.SamplingRate
	p := &Pipeline{
		signalCfg:    cfg.Signal,
		buffers:      buffer.NewLeadSet(cfg.Signal.BufferCapacity()),
		detector:     detect.NewDetector(fs, cfg.Detector),
		intervals:    metrics.NewIntervalCalculator(fs),
		axis:         metrics.NewAxisCalculator(fs, cfg.Detector),
		classifier:   classify.NewClassifier(cfg.Classifier),
		frameChannel: make(chan string, 1000),
		ctx:          ctx,
		cancel:       cancel,
		state:        StateIdle,
		waveGain:     cfg.Signal.WaveGain,
	}
	p.latest = p.emptyRecord()
	return p
}

// OnMetrics регистрирует получателя свежих записей метрик.
// Вызывать до Run.
func (p *Pipeline) OnMetrics(fn MetricsFunc) {
	p.onMetrics = fn
}

// Run запускает воркер обработки. Воркер единственный, поэтому циклы
// обработки никогда не перекрываются.
func (p *Pipeline) Run() {
	p.wg.Add(1)
	go p.worker()
	log.Printf("🚀 Конвейер ЭКГ запущен: fs=%.0f Гц, буфер=%d сэмплов, цикл=%d мс",
		p.signalCfg.SamplingRate, p.buffers.Capacity(), p.signalCfg.TickMillis)
}

// Ingest принимает сырую строку кадра. Не блокирует: при переполнении
// канала кадр отбрасывается.
func (p *Pipeline) Ingest(line string) {
	select {
	case p.frameChannel <- line:
	default:
		log.Printf("⚠️ Канал кадров переполнен, кадр отброшен")
	}
}

// worker потребляет кадры и периодически запускает цикл обработки
func (p *Pipeline) worker() {
	defer p.wg.Done()

	ticker := time.NewTicker(time.Duration(p.signalCfg.TickMillis) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case line := <-p.frameChannel:
			p.HandleFrame(line)
		case <-ticker.C:
			p.Tick()
		case <-p.ctx.Done():
			log.Println("🛑 Воркер конвейера остановлен")
			return
		}
	}
}

// HandleFrame разбирает кадр и добавляет отведения в буферы.
// Неразбираемый кадр отбрасывается без побочных эффектов. Кадры,
// пришедшие вне сбора, игнорируются.
func (p *Pipeline) HandleFrame(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateAcquiring {
		return
	}

	derived, err := leads.ParseAndDerive(line)
	if err != nil {
		return
	}
	p.buffers.Append(derived)
}

// Tick выполняет один синхронный цикл обработки и возвращает запись метрик
func (p *Pipeline) Tick() models.MetricsRecord {
	p.mu.Lock()
	defer p.mu.Unlock()

	leadII := p.buffers.Snapshot(models.LeadII)
	leadI := p.buffers.Snapshot(models.LeadI)
	leadAVF := p.buffers.Snapshot(models.LeadAVF)

	rPeaks := p.detector.FindRPeaks(leadII)
	beats := p.detector.LocateBeats(leadII, rPeaks)
	intervals := p.intervals.Compute(rPeaks, beats)

	record := models.MetricsRecord{
		DeviceID:  p.signalCfg.DeviceID,
		Timestamp: time.Now(),
		HeartRate: intervals.HeartRate,
		PR:        intervals.PR,
		QRS:       intervals.QRS,
		QT:        intervals.QT,
		QTc:       intervals.QTc,
		QRSAxis:   p.axis.QRSAxis(leadI, leadAVF, rPeaks),
		ST:        p.axis.STSegment(leadII, rPeaks, p.waveGain),
		Beats:     len(rPeaks),
	}

	result := p.classifier.Classify(classify.Input{
		Window:       leadII,
		RPeakCount:   len(rPeaks),
		PPeakCount:   metrics.PPeakCount(beats),
		RR:           intervals.RR,
		HeartRate:    intervals.HeartRate,
		QRS:          intervals.QRS,
		PR:           intervals.PR,
		PRMillis:     p.intervals.PRIntervalsMillis(beats),
		WaveGain:     p.waveGain,
		SamplingRate: p.signalCfg.SamplingRate,
	})
	record.Arrhythmia = result.Label

	p.latest = record
	if p.onMetrics != nil {
		p.onMetrics(record)
	}
	return record
}

// Start начинает сбор данных
func (p *Pipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateAcquiring {
		return
	}
	p.state = StateAcquiring
	log.Printf("▶️ Сбор данных запущен: устройство %s", p.signalCfg.DeviceID)
}

// Stop останавливает сбор. Идемпотентен, буферы сохраняются до Reset.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateAcquiring {
		return
	}
	p.state = StateStopped
	log.Println("⏸️ Сбор данных остановлен")
}

// Reset очищает буферы и последнюю запись метрик, состояние не меняет
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buffers.Reset()
	p.latest = p.emptyRecord()
	log.Println("🔄 Буферы очищены")
}

// State текущее состояние сбора
func (p *Pipeline) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Latest последняя запись метрик
func (p *Pipeline) Latest() models.MetricsRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Snapshot копия содержимого буфера отведения, от старых к новым
func (p *Pipeline) Snapshot(lead models.Lead) []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buffers.Snapshot(lead)
}

// ScaledSnapshot снимок отведения для отображения: базовая линия
// вычтена, амплитуда умножена на gain/10
func (p *Pipeline) ScaledSnapshot(lead models.Lead) []float64 {
	p.mu.RLock()
	gain := p.waveGain / 10
	data := p.buffers.Snapshot(lead)
	p.mu.RUnlock()

	if len(data) == 0 {
		return data
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	for i, v := range data {
		data[i] = (v - mean) * gain
	}
	return data
}

// SetWaveSpeed меняет скорость развёртки и ёмкость буферов.
// Сохраняются самые свежие сэмплы, влезающие в новую ёмкость.
func (p *Pipeline) SetWaveSpeed(speed float64) {
	if speed <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.signalCfg.WaveSpeed = speed
	p.buffers.Resize(p.signalCfg.BufferCapacity())
	log.Printf("⚙️ Скорость развёртки %.0f мм/с, ёмкость буфера %d", speed, p.buffers.Capacity())
}

// SetWaveGain меняет усиление развёртки
func (p *Pipeline) SetWaveGain(gain float64) {
	if gain <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.signalCfg.WaveGain = gain
	p.waveGain = gain
	log.Printf("⚙️ Усиление развёртки %.0f мм/мВ", gain)
}

// WaveSettings текущие скорость и усиление развёртки
func (p *Pipeline) WaveSettings() (speed, gain float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.signalCfg.WaveSpeed, p.waveGain
}

// Capacity текущая ёмкость буферов
func (p *Pipeline) Capacity() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buffers.Capacity()
}

// Close останавливает воркер и дожидается его завершения
func (p *Pipeline) Close() {
	p.cancel()
	p.wg.Wait()
	log.Println("✅ Конвейер остановлен")
}

func (p *Pipeline) emptyRecord() models.MetricsRecord {
	return models.MetricsRecord{
		DeviceID:   p.signalCfg.DeviceID,
		Timestamp:  time.Now(),
		QRSAxis:    models.AxisUnavailable(),
		ST:         models.STUnavailable(),
		Arrhythmia: models.LabelDetecting,
	}
}
