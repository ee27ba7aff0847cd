// Package metrics вычисляет клинические интервалы, ось QRS и сегмент ST
// по реперным точкам. Любая метрика либо измерена, либо несёт явный
// маркер "не определено" — молчаливых нулей здесь нет.
package metrics

import (
	"math"

	"ECG_monitor/internal/models"
	"ECG_monitor/pkg/utils"
)

// Intervals интервальные метрики одного цикла обработки
type Intervals struct {
	RR        []float64 // секунды, между соседними R-пиками
	HeartRate models.Measurement
	PR        models.Measurement // мс
	QRS       models.Measurement // мс
	QT        models.Measurement // мс
	QTc       models.Measurement // мс
}

// IntervalCalculator калькулятор интервалов для фиксированной частоты
type IntervalCalculator struct {
	fs float64
}

// NewIntervalCalculator создает калькулятор
func NewIntervalCalculator(fs float64) *IntervalCalculator {
	return &IntervalCalculator{fs: fs}
}

// RRIntervals интервалы между соседними R-пиками в секундах.
// Меньше двух пиков — интервалов нет.
func (c *IntervalCalculator) RRIntervals(rPeaks []int) []float64 {
	if len(rPeaks) < 2 {
		return nil
	}

	times := make([]float64, len(rPeaks))
	for i, p := range rPeaks {
		times[i] = float64(p) / c.fs
	}
	return utils.Diff(times)
}

// HeartRate частота сердечных сокращений: 60 / mean(RR).
// Не определена без RR-интервалов или при неположительном среднем.
func (c *IntervalCalculator) HeartRate(rr []float64) models.Measurement {
	if len(rr) == 0 {
		return models.Undefined()
	}

	meanRR := utils.Mean(rr)
	if math.IsNaN(meanRR) || meanRR <= 0 {
		return models.Undefined()
	}
	return models.Defined(60 / meanRR)
}

// Compute вычисляет все интервальные метрики. PR, QRS и QT берутся по
// последнему циклу и требуют присутствия обеих опорных точек; QTc по
// Базетту считается только когда определены и QT, и частота.
func (c *IntervalCalculator) Compute(rPeaks []int, beats []models.Beat) Intervals {
	out := Intervals{RR: c.RRIntervals(rPeaks)}
	out.HeartRate = c.HeartRate(out.RR)

	if len(beats) > 0 {
		last := beats[len(beats)-1]
		out.PR = c.spanMillis(last.P, last.R)
		out.QRS = c.spanMillis(last.Q, last.S)
		out.QT = c.spanMillis(last.Q, last.T)
	}

	if out.QT.Defined && out.HeartRate.Defined {
		// Базетт: QTc = QT / sqrt(RR в секундах), RR = 60/HR
		rrSec := 60 / out.HeartRate.Value
		if rrSec > 0 {
			out.QTc = models.Defined(out.QT.Value / math.Sqrt(rrSec))
		}
	}

	return out
}

// PRIntervalsMillis интервалы P→R каждого цикла в миллисекундах,
// для анализа ранних предсердных сокращений
func (c *IntervalCalculator) PRIntervalsMillis(beats []models.Beat) []float64 {
	var out []float64
	for _, b := range beats {
		if b.P != nil && b.R != nil {
			out = append(out, float64(b.R.Index-b.P.Index)*1000/c.fs)
		}
	}
	return out
}

// PPeakCount количество найденных P-волн по всем циклам
func PPeakCount(beats []models.Beat) int {
	count := 0
	for _, b := range beats {
		if b.P != nil {
			count++
		}
	}
	return count
}

// spanMillis интервал между двумя точками в мс, обе точки обязательны
func (c *IntervalCalculator) spanMillis(from, to *models.FiducialPoint) models.Measurement {
	if from == nil || to == nil {
		return models.Undefined()
	}
	return models.Defined(float64(to.Index-from.Index) * 1000 / c.fs)
}
