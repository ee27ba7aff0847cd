package detect

import (
	"math"

	"ECG_monitor/internal/models"
	"ECG_monitor/pkg/utils"
)

// LocateBeats находит реперные точки для каждого принятого R-пика.
// Все окна поиска масштабируются частотой дискретизации. Пустое окно
// кандидатов — валидный исход: соответствующая точка остаётся nil.
func (d *Detector) LocateBeats(window []float64, rPeaks []int) []models.Beat {
	if len(window) == 0 || len(rPeaks) == 0 {
		return nil
	}

	x := utils.Demean(window)
	sd := utils.Std(x)
	if math.IsNaN(sd) {
		sd = 0
	}

	qsWin := int(math.Round(d.cfg.QSWindowSec * d.fs))
	pStart := int(math.Round(d.cfg.PWindowStartSec * d.fs))
	pEnd := int(math.Round(d.cfg.PWindowEndSec * d.fs))
	tStart := int(math.Round(d.cfg.TWindowStartSec * d.fs))
	tEnd := int(math.Round(d.cfg.TWindowEndSec * d.fs))
	ptProminence := d.cfg.PTProminenceFrac * sd

	beats := make([]models.Beat, 0, len(rPeaks))
	for _, r := range rPeaks {
		if r < 0 || r >= len(x) {
			continue
		}

		beat := models.Beat{R: point(x, models.FiducialR, r)}

		// Q — минимум на [r - qsWin, r)
		if q, ok := argMin(x, r-qsWin, r); ok {
			beat.Q = point(x, models.FiducialQ, q)
		}

		// S — минимум на (r, r + qsWin]
		if s, ok := argMin(x, r+1, r+qsWin+1); ok {
			beat.S = point(x, models.FiducialS, s)
		}

		// P — среди выраженных максимумов на [q - pStart, q - pEnd)
		// ближайший к Q, то есть последний кандидат в окне
		if beat.Q != nil {
			q := beat.Q.Index
			cands := prominentMaxima(x, q-pStart, q-pEnd, ptProminence)
			if len(cands) > 0 {
				beat.P = point(x, models.FiducialP, cands[len(cands)-1])
			}
		}

		// T — среди выраженных максимумов на (s + tStart, s + tEnd]
		// кандидат с наибольшей амплитудой
		if beat.S != nil {
			s := beat.S.Index
			cands := prominentMaxima(x, s+tStart+1, s+tEnd+1, ptProminence)
			if len(cands) > 0 {
				best := cands[0]
				for _, c := range cands[1:] {
					if x[c] > x[best] {
						best = c
					}
				}
				beat.T = point(x, models.FiducialT, best)
			}
		}

		beats = append(beats, beat)
	}

	return beats
}

func point(x []float64, kind models.FiducialKind, idx int) *models.FiducialPoint {
	return &models.FiducialPoint{Kind: kind, Index: idx, Amplitude: x[idx]}
}
