// Package classify реализует эвристический классификатор аритмий.
// Правила упорядочены по клиническому приоритету, побеждает первое
// совпавшее. Классификатор детерминирован: одинаковые входы всегда
// дают одинаковую метку.
package classify

import (
	"math"

	"ECG_monitor/configs"
	"ECG_monitor/internal/models"
	"ECG_monitor/pkg/utils"
)

// Outcome исход классификации: метка, нехватка данных или внутренний сбой
type Outcome int

const (
	OutcomeClassified Outcome = iota
	OutcomeInsufficientData
	OutcomeFault
)

// Result результат классификации. Label заполнен всегда: для нехватки
// данных и сбоев это отображаемый фолбэк, а не диагноз.
type Result struct {
	Outcome Outcome
	Label   models.ArrhythmiaLabel
}

// Input входные данные одного цикла классификации
type Input struct {
	Window       []float64 // окно отведения II, для размаха амплитуды
	RPeakCount   int
	PPeakCount   int
	RR           []float64 // секунды
	HeartRate    models.Measurement
	QRS          models.Measurement // мс, последний цикл
	PR           models.Measurement // мс, последний цикл
	PRMillis     []float64          // мс, PR каждого цикла с обеими точками
	WaveGain     float64            // мм/мВ
	SamplingRate float64
}

// Classifier классификатор с настраиваемыми порогами
type Classifier struct {
	cfg configs.ClassifierConfig
}

// NewClassifier создает классификатор
func NewClassifier(cfg configs.ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify прогоняет вход через упорядоченный список правил.
// Любая паника внутри правил перехватывается и превращается в
// OutcomeFault с фолбэком "Detecting..." — классификатор никогда
// не роняет конвейер.
func (c *Classifier) Classify(in Input) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Outcome: OutcomeFault, Label: models.LabelDetecting}
		}
	}()

	gain := in.WaveGain / 10
	amplitude := utils.PeakToPeak(in.Window) * gain

	// Пустое окно — это отсутствие наблюдений, а не изолиния
	if math.IsNaN(amplitude) {
		return Result{Outcome: OutcomeInsufficientData, Label: models.LabelDetecting}
	}

	// Правило асистолии проверяется до правила "мало данных": ноль
	// R-пиков в заполненном окне — это диагноз, а не нехватка наблюдений
	if in.RPeakCount == 0 {
		if amplitude < c.cfg.FlatlineAmplitude {
			return Result{Outcome: OutcomeClassified, Label: models.LabelAsystole}
		}
		return Result{Outcome: OutcomeClassified, Label: models.LabelNoQRS}
	}

	if len(in.RR) < 2 || !in.HeartRate.Defined {
		return Result{Outcome: OutcomeInsufficientData, Label: models.LabelDetecting}
	}

	hr := in.HeartRate.Value
	rrStd := utils.Std(in.RR)
	if math.IsNaN(rrStd) {
		rrStd = 0
	}
	regular := rrStd < c.cfg.RRRegularStd
	irregular := rrStd > c.cfg.RRIrregularStd
	wideQRS := in.QRS.Defined && in.QRS.Value > c.cfg.WideQRSMillis
	narrowQRS := in.QRS.Defined && in.QRS.Value <= c.cfg.WideQRSMillis

	// Фибрилляция желудочков: хаотичный быстрый ритм большой амплитуды
	if in.RPeakCount > c.cfg.VFMinPeaks && rrStd > c.cfg.VFRRStd &&
		amplitude > c.cfg.VFAmplitude && hr > c.cfg.VFHeartRate {
		return Result{Outcome: OutcomeClassified, Label: models.LabelVFib}
	}

	// Желудочковая тахикардия: быстрый регулярный ритм с широким QRS
	if hr > c.cfg.TachyHeartRate && wideQRS && regular {
		return Result{Outcome: OutcomeClassified, Label: models.LabelVTach}
	}

	if hr < c.cfg.BradyHeartRate && regular {
		return Result{Outcome: OutcomeClassified, Label: models.LabelBradycardia}
	}

	if hr > c.cfg.TachyHeartRate && narrowQRS && regular {
		return Result{Outcome: OutcomeClassified, Label: models.LabelTachycardia}
	}

	if hr > c.cfg.SVTHeartRate && narrowQRS && regular {
		return Result{Outcome: OutcomeClassified, Label: models.LabelSVT}
	}

	// Фибрилляция предсердий: нерегулярный ритм при редких P-волнах
	if irregular && float64(in.PPeakCount) < c.cfg.SparsePFraction*float64(in.RPeakCount) {
		return Result{Outcome: OutcomeClassified, Label: models.LabelAFib}
	}

	// Трепетание предсердий: P-волн больше, чем комплексов QRS
	if hr > c.cfg.FlutterHRLow && hr < c.cfg.FlutterHRHigh && regular &&
		in.PPeakCount > in.RPeakCount {
		return Result{Outcome: OutcomeClassified, Label: models.LabelAFlutter}
	}

	// Экстрасистола предсердная: ранняя P-волна при узком QRS
	if narrowQRS && c.hasEarlyP(in.PRMillis) {
		return Result{Outcome: OutcomeClassified, Label: models.LabelPAC}
	}

	// Экстрасистола желудочковая: широкий QRS при редких P-волнах
	if wideQRS && float64(in.PPeakCount) < c.cfg.SparsePFraction*float64(in.RPeakCount) {
		return Result{Outcome: OutcomeClassified, Label: models.LabelPVC}
	}

	if in.PR.Defined && in.PR.Value > c.cfg.LongPRMillis {
		return Result{Outcome: OutcomeClassified, Label: models.LabelFirstDegreeAV}
	}

	// Выпадение QRS: комплексов заметно меньше, чем ожидается при
	// измеренной частоте на длине окна
	if in.SamplingRate > 0 && len(in.Window) > 0 {
		windowSec := float64(len(in.Window)) / in.SamplingRate
		expected := hr / 60 * windowSec
		if expected > 0 && float64(in.RPeakCount) < c.cfg.DroppedQRSFrac*expected {
			return Result{Outcome: OutcomeClassified, Label: models.LabelDroppedQRS}
		}
	}

	return Result{Outcome: OutcomeClassified, Label: models.LabelNoneDetected}
}

// hasEarlyP ищет PR-интервал заметно короче медианы остальных
func (c *Classifier) hasEarlyP(prMillis []float64) bool {
	if len(prMillis) < 3 {
		return false
	}

	median := utils.Median(prMillis)
	if math.IsNaN(median) || median <= 0 {
		return false
	}

	for _, pr := range prMillis {
		if pr < c.cfg.EarlyPRFraction*median {
			return true
		}
	}
	return false
}
