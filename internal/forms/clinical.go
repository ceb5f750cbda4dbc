package forms

import (
	"github.com/careline/careline/internal/domain/consultnote"
	"github.com/careline/careline/internal/domain/diagnosis"
	"github.com/careline/careline/internal/domain/vitalsign"
)

// ConsultationNoteDraft backs the manage-note form. The ID carries over
// from an existing note so saving updates instead of duplicating.
type ConsultationNoteDraft struct {
	ID           int64
	EncounterID  int64
	Symptoms     string
	Observations string
	Assessment   string
}

func (d *ConsultationNoteDraft) Reset(encounterID int64, initial *consultnote.Note) {
	if initial == nil {
		*d = ConsultationNoteDraft{EncounterID: encounterID}
		return
	}
	*d = ConsultationNoteDraft{
		ID:           initial.ID,
		EncounterID:  encounterID,
		Symptoms:     initial.Symptoms,
		Observations: initial.Observations,
		Assessment:   initial.Assessment,
	}
}

func (d *ConsultationNoteDraft) Validate() Errors {
	errs := Errors{}
	if d.Symptoms == "" && d.Observations == "" && d.Assessment == "" {
		errs["Note"] = "At least one of symptoms, observations or assessment is required."
	}
	return errs
}

func (d *ConsultationNoteDraft) Payload() *consultnote.Note {
	return &consultnote.Note{
		ID:           d.ID,
		EncounterID:  d.EncounterID,
		Symptoms:     d.Symptoms,
		Observations: d.Observations,
		Assessment:   d.Assessment,
	}
}

// VitalSignsDraft backs the record-vitals form. All measurements are
// optional strings; empty ones stay unrecorded rather than turning into
// zeros.
type VitalSignsDraft struct {
	EncounterID            int64
	RecordedAt             string `validate:"required"`
	TemperatureCelsius     string
	BloodPressureSystolic  string
	BloodPressureDiastolic string
	HeartRateBpm           string
	RespiratoryRateRpm     string
	SpO2Percentage         string
	HeightCm               string
	WeightKg               string
	Notes                  string
}

func (d *VitalSignsDraft) Reset(encounterID int64) {
	*d = VitalSignsDraft{EncounterID: encounterID}
}

func (d *VitalSignsDraft) Validate() Errors {
	errs := Errors{}
	runValidator(errs, d)
	if _, taken := errs["RecordedAt"]; !taken {
		wellFormedDatetime(errs, "RecordedAt", d.RecordedAt)
	}
	if d.TemperatureCelsius == "" && d.BloodPressureSystolic == "" && d.HeartRateBpm == "" &&
		d.RespiratoryRateRpm == "" && d.SpO2Percentage == "" && d.HeightCm == "" && d.WeightKg == "" {
		errs["Measurements"] = "At least one measurement is required."
	}
	return errs
}

func (d *VitalSignsDraft) Payload() *vitalsign.VitalSign {
	return &vitalsign.VitalSign{
		EncounterID:            d.EncounterID,
		RecordedAt:             d.RecordedAt,
		TemperatureCelsius:     parseFloatPtr(d.TemperatureCelsius),
		BloodPressureSystolic:  parseIntPtr(d.BloodPressureSystolic),
		BloodPressureDiastolic: parseIntPtr(d.BloodPressureDiastolic),
		HeartRateBpm:           parseIntPtr(d.HeartRateBpm),
		RespiratoryRateRpm:     parseIntPtr(d.RespiratoryRateRpm),
		SpO2Percentage:         parseFloatPtr(d.SpO2Percentage),
		HeightCm:               parseFloatPtr(d.HeightCm),
		WeightKg:               parseFloatPtr(d.WeightKg),
		Notes:                  d.Notes,
	}
}

// DiagnosisDraft backs the add-diagnosis form.
type DiagnosisDraft struct {
	EncounterID         int64
	DiagnosisCode       string `validate:"required"`
	DiagnosisCodeSystem string
	Description         string `validate:"required"`
	DiagnosisDate       string `validate:"required"`
	IsChronic           bool
}

func (d *DiagnosisDraft) Reset(encounterID int64) {
	*d = DiagnosisDraft{EncounterID: encounterID, DiagnosisCodeSystem: "ICD-10"}
}

func (d *DiagnosisDraft) Validate() Errors {
	errs := Errors{}
	runValidator(errs, d)
	if _, taken := errs["DiagnosisDate"]; !taken {
		wellFormedDate(errs, "DiagnosisDate", d.DiagnosisDate)
	}
	return errs
}

func (d *DiagnosisDraft) Payload() *diagnosis.Diagnosis {
	return &diagnosis.Diagnosis{
		EncounterID:         d.EncounterID,
		DiagnosisCode:       d.DiagnosisCode,
		DiagnosisCodeSystem: d.DiagnosisCodeSystem,
		Description:         d.Description,
		DiagnosisDate:       d.DiagnosisDate,
		IsChronic:           d.IsChronic,
	}
}
