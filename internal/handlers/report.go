package handlers

import (
	"fmt"
	"time"

	"ECG_monitor/internal/models"
	"ECG_monitor/pkg/utils"
)

// ReportItem одна строка клинического отчета
type ReportItem struct {
	Name   string `json:"name"`             // Название показателя
	Value  string `json:"value"`            // Отформатированное значение или "—"
	Normal string `json:"normal,omitempty"` // Референсный диапазон
	Flag   string `json:"flag,omitempty"`   // "high", "low" или пусто
}

// ReportResponse клинический отчет по текущему окну
// @Description Интервалы, ось QRS, сегмент ST и метка аритмии
type ReportResponse struct {
	DeviceID   string       `json:"device_id"`
	Timestamp  time.Time    `json:"timestamp"`
	Items      []ReportItem `json:"items"`
	Arrhythmia string       `json:"arrhythmia"`
	Beats      int          `json:"beats"`
}

// Референсные диапазоны взрослого пациента
const (
	hrLow, hrHigh = 60.0, 100.0
	prLow, prHigh = 120.0, 200.0
	qrsHigh       = 120.0
	qtcHigh       = 440.0
)

// BuildReport собирает отчет из записи метрик. Неопределенные метрики
// выводятся прочерком, без подстановки нулей.
func BuildReport(record models.MetricsRecord) ReportResponse {
	items := []ReportItem{
		rangeItem("Частота сердечных сокращений", record.HeartRate, "уд/мин", "60-100", hrLow, hrHigh),
		rangeItem("Интервал PR", record.PR, "мс", "120-200", prLow, prHigh),
		upperItem("Длительность QRS", record.QRS, "мс", "< 120", qrsHigh),
		measurementItem("Интервал QT", record.QT, "мс", ""),
		upperItem("Корригированный QT (Базетт)", record.QTc, "мс", "< 440", qtcHigh),
		axisItem(record.QRSAxis),
		stItem(record.ST),
	}

	return ReportResponse{
		DeviceID:   record.DeviceID,
		Timestamp:  record.Timestamp,
		Items:      items,
		Arrhythmia: string(record.Arrhythmia),
		Beats:      record.Beats,
	}
}

func measurementItem(name string, m models.Measurement, unit, normal string) ReportItem {
	item := ReportItem{Name: name, Value: "—", Normal: normal}
	if m.Defined {
		item.Value = fmt.Sprintf("%.0f %s", m.Value, unit)
	}
	return item
}

func rangeItem(name string, m models.Measurement, unit, normal string, low, high float64) ReportItem {
	item := measurementItem(name, m, unit, normal)
	if m.Defined {
		if m.Value < low {
			item.Flag = "low"
		} else if m.Value > high {
			item.Flag = "high"
		}
	}
	return item
}

func upperItem(name string, m models.Measurement, unit, normal string, high float64) ReportItem {
	item := measurementItem(name, m, unit, normal)
	if m.Defined && m.Value > high {
		item.Flag = "high"
	}
	return item
}

func axisItem(axis models.AxisResult) ReportItem {
	item := ReportItem{Name: "Электрическая ось QRS", Value: "—", Normal: "-30..+90°"}
	if axis.Available {
		item.Value = fmt.Sprintf("%.0f°", axis.Degrees)
		if axis.Degrees < -30 {
			item.Flag = "low"
		} else if axis.Degrees > 90 {
			item.Flag = "high"
		}
	}
	return item
}

func stItem(st models.STResult) ReportItem {
	item := ReportItem{Name: "Сегмент ST"}
	if !st.Available {
		item.Value = "—"
		return item
	}

	item.Value = fmt.Sprintf("%.1f (%s)", utils.SafeFloat(st.Amplitude), st.Class)
	switch st.Class {
	case models.STElevated:
		item.Flag = "high"
	case models.STDepressed:
		item.Flag = "low"
	}
	return item
}
