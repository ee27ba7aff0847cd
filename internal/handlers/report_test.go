package handlers

import (
	"math"
	"strings"
	"testing"
	"time"

	"ECG_monitor/internal/models"
)

func TestBuildReportUndefined(t *testing.T) {
	record := models.MetricsRecord{
		DeviceID:   "ECG-TEST-0001",
		Timestamp:  time.Now(),
		QRSAxis:    models.AxisUnavailable(),
		ST:         models.STUnavailable(),
		Arrhythmia: models.LabelDetecting,
	}

	report := BuildReport(record)
	if report.Arrhythmia != string(models.LabelDetecting) {
		t.Errorf("метка %q", report.Arrhythmia)
	}
	for _, item := range report.Items {
		if item.Value != "—" {
			t.Errorf("%s: значение %q вместо прочерка", item.Name, item.Value)
		}
		if item.Flag != "" {
			t.Errorf("%s: флаг %q на неопределенной метрике", item.Name, item.Flag)
		}
	}
}

// Некорректная амплитуда ST не должна попадать в отчет как NaN
func TestBuildReportSanitizesAmplitude(t *testing.T) {
	record := models.MetricsRecord{
		QRSAxis: models.AxisUnavailable(),
		ST:      models.STResult{Amplitude: math.NaN(), Class: models.STIsoelectric, Available: true},
	}

	report := BuildReport(record)
	for _, item := range report.Items {
		if item.Name == "Сегмент ST" && !strings.HasPrefix(item.Value, "0.0") {
			t.Errorf("амплитуда ST %q, ожидался ноль вместо NaN", item.Value)
		}
	}
}

func TestBuildReportFlags(t *testing.T) {
	record := models.MetricsRecord{
		DeviceID:   "ECG-TEST-0001",
		Timestamp:  time.Now(),
		HeartRate:  models.Defined(120),
		PR:         models.Defined(160),
		QRS:        models.Defined(90),
		QT:         models.Defined(420),
		QTc:        models.Defined(480),
		QRSAxis:    models.AxisResult{Degrees: 45, Available: true},
		ST:         models.STResult{Amplitude: 150, Class: models.STElevated, Available: true},
		Arrhythmia: models.LabelTachycardia,
		Beats:      7,
	}

	report := BuildReport(record)

	flags := make(map[string]string, len(report.Items))
	for _, item := range report.Items {
		flags[item.Name] = item.Flag
	}

	if flags["Частота сердечных сокращений"] != "high" {
		t.Errorf("ЧСС 120 без флага high: %q", flags["Частота сердечных сокращений"])
	}
	if flags["Интервал PR"] != "" {
		t.Errorf("PR 160 с флагом %q", flags["Интервал PR"])
	}
	if flags["Корригированный QT (Базетт)"] != "high" {
		t.Errorf("QTc 480 без флага high")
	}
	if flags["Электрическая ось QRS"] != "" {
		t.Errorf("ось 45° с флагом %q", flags["Электрическая ось QRS"])
	}
	if flags["Сегмент ST"] != "high" {
		t.Errorf("элевация ST без флага high")
	}

	for _, item := range report.Items {
		if item.Name == "Сегмент ST" && !strings.Contains(item.Value, string(models.STElevated)) {
			t.Errorf("класс ST не попал в значение: %q", item.Value)
		}
	}
}
