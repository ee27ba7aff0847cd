package models

import "time"

// Lead одно из 12 стандартных отведений ЭКГ
type Lead string

const (
	LeadI   Lead = "I"
	LeadII  Lead = "II"
	LeadIII Lead = "III"
	LeadAVR Lead = "aVR"
	LeadAVL Lead = "aVL"
	LeadAVF Lead = "aVF"
	LeadV1  Lead = "V1"
	LeadV2  Lead = "V2"
	LeadV3  Lead = "V3"
	LeadV4  Lead = "V4"
	LeadV5  Lead = "V5"
	LeadV6  Lead = "V6"
)

// StandardLeads порядок отведений для отображения и экспорта
var StandardLeads = []Lead{
	LeadI, LeadII, LeadIII,
	LeadAVR, LeadAVL, LeadAVF,
	LeadV1, LeadV2, LeadV3, LeadV4, LeadV5, LeadV6,
}

// LeadValues значения всех 12 отведений для одного кадра
type LeadValues map[Lead]float64

// FiducialKind тип реперной точки внутри одного сердечного цикла
type FiducialKind string

const (
	FiducialP FiducialKind = "P"
	FiducialQ FiducialKind = "Q"
	FiducialR FiducialKind = "R"
	FiducialS FiducialKind = "S"
	FiducialT FiducialKind = "T"
)

// FiducialPoint реперная точка: тип, индекс сэмпла в окне и амплитуда
type FiducialPoint struct {
	Kind      FiducialKind `json:"kind"`
	Index     int          `json:"index"`
	Amplitude float64      `json:"amplitude"`
}

// Beat реперные точки одного сердечного цикла. nil — точка не найдена,
// это валидный результат, а не ошибка.
type Beat struct {
	P *FiducialPoint `json:"p,omitempty"`
	Q *FiducialPoint `json:"q,omitempty"`
	R *FiducialPoint `json:"r"`
	S *FiducialPoint `json:"s,omitempty"`
	T *FiducialPoint `json:"t,omitempty"`
}

// STClass классификация сегмента ST
type STClass string

const (
	STIsoelectric STClass = "Isoelectric"
	STElevated    STClass = "Elevated"
	STDepressed   STClass = "Depressed"
)

// ArrhythmiaLabel итоговая метка классификатора ритма
type ArrhythmiaLabel string

const (
	LabelDetecting      ArrhythmiaLabel = "Detecting..."
	LabelAsystole       ArrhythmiaLabel = "Asystole (Flatline)"
	LabelNoQRS          ArrhythmiaLabel = "No QRS Detected"
	LabelVFib           ArrhythmiaLabel = "Ventricular Fibrillation (VF)"
	LabelVTach          ArrhythmiaLabel = "Ventricular Tachycardia (VT)"
	LabelBradycardia    ArrhythmiaLabel = "Sinus Bradycardia"
	LabelTachycardia    ArrhythmiaLabel = "Sinus Tachycardia"
	LabelSVT            ArrhythmiaLabel = "Supraventricular Tachycardia (SVT)"
	LabelAFib           ArrhythmiaLabel = "Atrial Fibrillation (AFib)"
	LabelAFlutter       ArrhythmiaLabel = "Atrial Flutter (suggestive)"
	LabelPAC            ArrhythmiaLabel = "Premature Atrial Contraction (PAC)"
	LabelPVC            ArrhythmiaLabel = "Premature Ventricular Contraction (PVC)"
	LabelFirstDegreeAV  ArrhythmiaLabel = "Heart Block (1° AV)"
	LabelDroppedQRS     ArrhythmiaLabel = "Heart Block (2°/3° AV, dropped QRS)"
	LabelNoneDetected   ArrhythmiaLabel = "None Detected"
)

// MetricsRecord итоговая запись метрик, обновляемая каждый цикл обработки.
// Потребляется слоем представления через REST и NATS.
type MetricsRecord struct {
	DeviceID  string    `json:"device_id"`
	Timestamp time.Time `json:"timestamp"`

	HeartRate Measurement `json:"heart_rate"` // уд/мин
	PR        Measurement `json:"pr"`         // мс
	QRS       Measurement `json:"qrs"`        // мс
	QT        Measurement `json:"qt"`         // мс
	QTc       Measurement `json:"qtc"`        // мс, формула Базетта

	QRSAxis AxisResult `json:"qrs_axis"`
	ST      STResult   `json:"st"`

	Arrhythmia ArrhythmiaLabel `json:"arrhythmia"`
	Beats      int             `json:"beats"` // количество R-пиков в окне
}
