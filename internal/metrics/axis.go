package metrics

import (
	"math"

	"ECG_monitor/configs"
	"ECG_monitor/internal/models"
	"ECG_monitor/pkg/utils"
)

// AxisCalculator электрическая ось QRS и сегмент ST
type AxisCalculator struct {
	fs  float64
	cfg configs.DetectorConfig
}

// NewAxisCalculator создает калькулятор оси и ST
func NewAxisCalculator(fs float64, cfg configs.DetectorConfig) *AxisCalculator {
	return &AxisCalculator{fs: fs, cfg: cfg}
}

// QRSAxis ось QRS: для каждого R-пика суммируются амплитуды отведений
// I и aVF в окне ±AxisWindowSec вокруг пика, суммы усредняются по циклам,
// угол — atan2 среднего aVF к среднему I в градусах. Недоступна при
// нехватке сэмплов или отсутствии R-пиков.
func (a *AxisCalculator) QRSAxis(leadI, leadAVF []float64, rPeaks []int) models.AxisResult {
	if len(leadI) < a.cfg.MinSamplesForAxis || len(rPeaks) == 0 {
		return models.AxisUnavailable()
	}

	xI := utils.Demean(leadI)
	xAVF := utils.Demean(leadAVF)
	half := int(math.Round(a.cfg.AxisWindowSec * a.fs))

	var sumI, sumAVF float64
	beats := 0
	for _, r := range rPeaks {
		lo, hi := r-half, r+half+1
		if lo < 0 {
			lo = 0
		}
		if hi > len(xI) {
			hi = len(xI)
		}
		if hi > len(xAVF) {
			hi = len(xAVF)
		}
		if lo >= hi {
			continue
		}

		var netI, netAVF float64
		for i := lo; i < hi; i++ {
			netI += xI[i]
			netAVF += xAVF[i]
		}
		sumI += netI
		sumAVF += netAVF
		beats++
	}

	if beats == 0 {
		return models.AxisUnavailable()
	}

	meanI := sumI / float64(beats)
	meanAVF := sumAVF / float64(beats)
	degrees := math.Atan2(meanAVF, meanI) * 180 / math.Pi

	return models.AxisResult{Degrees: degrees, Available: true}
}

// STSegment сегмент ST: амплитуда отведения II в точке
// R + STJOffsetSec + STOffsetSec, усреднённая по циклам и масштабированная
// усилением развёртки (gain/10). Классификация по порогам изолинии;
// амплитуда вне правил возвращается без класса.
func (a *AxisCalculator) STSegment(leadII []float64, rPeaks []int, waveGain float64) models.STResult {
	if len(leadII) < a.cfg.MinSamplesForAxis || len(rPeaks) == 0 {
		return models.STUnavailable()
	}

	x := utils.Demean(leadII)
	offset := int(math.Round((a.cfg.STJOffsetSec + a.cfg.STOffsetSec) * a.fs))
	gain := waveGain / 10

	var sum float64
	beats := 0
	for _, r := range rPeaks {
		i := r + offset
		if i < 0 || i >= len(x) {
			continue
		}
		sum += x[i] * gain
		beats++
	}

	if beats == 0 {
		return models.STUnavailable()
	}

	amplitude := sum / float64(beats)
	result := models.STResult{Amplitude: amplitude, Available: true}

	switch {
	case amplitude > a.cfg.STIsoHigh:
		result.Class = models.STElevated
	case amplitude < a.cfg.STIsoLow:
		result.Class = models.STDepressed
	default:
		result.Class = models.STIsoelectric
	}

	return result
}
