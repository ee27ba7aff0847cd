package detect

import (
	"math"

	"ECG_monitor/configs"
	"ECG_monitor/pkg/utils"
)

// Detector детектор QRS-комплексов для одного сегмента буфера.
// Частота дискретизации fs фиксируется на весь сегмент: одни и те же
// формулы окон нельзя применять к окнам с разными эффективными частотами.
type Detector struct {
	fs  float64
	cfg configs.DetectorConfig
}

// NewDetector создает детектор с заданной частотой и порогами
func NewDetector(fs float64, cfg configs.DetectorConfig) *Detector {
	return &Detector{fs: fs, cfg: cfg}
}

// SamplingRate частота дискретизации детектора
func (d *Detector) SamplingRate() float64 {
	return d.fs
}

// FindRPeaks находит индексы R-пиков в окне отведения II.
// Окно корректируется по базовой линии (вычитание среднего). Пик принят,
// если он локальный максимум, его prominence >= RProminenceFrac * stddev
// окна, и до ближайшего принятого пика не меньше round(RefractorySec * fs)
// сэмплов — при конфликте побеждает больший по амплитуде.
func (d *Detector) FindRPeaks(window []float64) []int {
	if len(window) < 3 {
		return nil
	}

	x := utils.Demean(window)
	sd := utils.Std(x)
	if math.IsNaN(sd) || sd == 0 {
		return nil
	}

	minProminence := d.cfg.RProminenceFrac * sd
	candidates := prominentMaxima(x, 1, len(x)-1, minProminence)

	refractory := int(math.Round(d.cfg.RefractorySec * d.fs))
	return enforceDistance(x, candidates, refractory)
}
