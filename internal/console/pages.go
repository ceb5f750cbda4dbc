package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/domain/appointment"
	"github.com/careline/careline/internal/domain/consultnote"
	"github.com/careline/careline/internal/domain/diagnosis"
	"github.com/careline/careline/internal/domain/doctor"
	"github.com/careline/careline/internal/domain/encounter"
	"github.com/careline/careline/internal/domain/laborder"
	"github.com/careline/careline/internal/domain/patient"
	"github.com/careline/careline/internal/domain/prescription"
	"github.com/careline/careline/internal/domain/vitalsign"
	"github.com/careline/careline/internal/platform/api"
)

// Pages wires the domain services into terminal pages.
type Pages struct {
	Renderer      *Renderer
	Patients      *patient.Service
	Doctors       *doctor.Service
	Appointments  *appointment.Service
	Encounters    *encounter.Service
	Notes         *consultnote.Service
	Vitals        *vitalsign.Service
	Diagnoses     *diagnosis.Service
	Prescriptions *prescription.Service
	LabOrders     *laborder.Service
	Details       *encounter.DetailsLoader
	Logger        zerolog.Logger

	inFlight int32
}

// beginSubmit marks a form submission in flight. It reports false when a
// previous submission has not finished, so double submits are dropped.
func (p *Pages) beginSubmit() bool {
	return atomic.CompareAndSwapInt32(&p.inFlight, 0, 1)
}

func (p *Pages) endSubmit() { atomic.StoreInt32(&p.inFlight, 0) }

// pageError renders a fetch failure in place of the page content.
func (p *Pages) pageError(err error, fallback string) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		p.Renderer.Error("%s", apiErr.Message)
		return
	}
	p.Renderer.Error("%s", fallback)
}

// PatientList renders the patient roster, narrowed by query when given.
func (p *Pages) PatientList(ctx context.Context, query string) error {
	patients, err := p.Patients.Search(ctx, query)
	if err != nil {
		p.pageError(err, "Failed to fetch patients.")
		return err
	}
	p.Renderer.Title("Patients (%d)", len(patients))
	if len(patients) == 0 {
		p.Renderer.Muted("No patients found.")
		return nil
	}
	rows := make([][]string, 0, len(patients))
	for _, pat := range patients {
		rows = append(rows, []string{
			strconv.FormatInt(pat.ID, 10),
			pat.FullName(),
			pat.DateOfBirth,
			pat.Gender,
			pat.PhoneNumber,
		})
	}
	p.Renderer.Table([]string{"ID", "NAME", "DOB", "GENDER", "PHONE"}, rows)
	return nil
}

// PatientDetail renders one patient with their encounter history. A
// missing patient replaces the page with an error; a failed encounter
// fetch degrades to an empty history.
func (p *Pages) PatientDetail(ctx context.Context, id int64) error {
	pat, err := p.Patients.Get(ctx, id)
	if err != nil {
		if api.IsNotFound(err) {
			p.Renderer.Error("Patient with ID %d not found.", id)
		} else {
			p.pageError(err, "Failed to fetch patient.")
		}
		return err
	}
	p.Renderer.Title("%s (ID: %d)", pat.FullName(), pat.ID)
	p.Renderer.Line("Date of birth: %s", pat.DateOfBirth)
	p.Renderer.Line("Gender: %s", pat.Gender)
	if pat.PhoneNumber != "" {
		p.Renderer.Line("Phone: %s", pat.PhoneNumber)
	}
	if pat.Email != "" {
		p.Renderer.Line("Email: %s", pat.Email)
	}
	if pat.InsuranceProvider != "" {
		p.Renderer.Line("Insurance: %s (%s)", pat.InsuranceProvider, pat.InsurancePolicyNumber)
	}

	encounters, err := p.Encounters.ListByPatient(ctx, id)
	if err != nil {
		p.Logger.Warn().Err(err).Int64("patient_id", id).Msg("failed to load encounter history")
		p.Renderer.Warn("Could not load encounter history.")
		return nil
	}
	p.Renderer.Title("Encounters (%d)", len(encounters))
	for _, enc := range encounters {
		p.Renderer.Line("#%d  %s  %s  Dr. %s", enc.ID, enc.EncounterDatetime, enc.EncounterType, enc.DoctorFullName)
	}
	return nil
}

// AppointmentList renders the appointment schedule.
func (p *Pages) AppointmentList(ctx context.Context) error {
	appts, err := p.Appointments.List(ctx)
	if err != nil {
		p.pageError(err, "Failed to fetch appointments.")
		return err
	}
	p.Renderer.Title("Appointments (%d)", len(appts))
	rows := make([][]string, 0, len(appts))
	for _, a := range appts {
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			a.AppointmentDate,
			a.AppointmentTime,
			a.PatientName,
			a.DoctorName,
			a.Status,
		})
	}
	p.Renderer.Table([]string{"ID", "DATE", "TIME", "PATIENT", "DOCTOR", "STATUS"}, rows)
	return nil
}

// AppointmentDetail renders one appointment.
func (p *Pages) AppointmentDetail(ctx context.Context, id int64) error {
	a, err := p.Appointments.Get(ctx, id)
	if err != nil {
		if api.IsNotFound(err) {
			p.Renderer.Error("Appointment with ID %d not found.", id)
		} else {
			p.pageError(err, "Failed to fetch appointment.")
		}
		return err
	}
	p.Renderer.Title("Appointment #%d (%s)", a.ID, a.Status)
	p.Renderer.Line("When: %s %s", a.AppointmentDate, a.AppointmentTime)
	p.Renderer.Line("Patient: %s (ID: %d)", a.PatientName, a.PatientID)
	p.Renderer.Line("Doctor: %s (ID: %d)", a.DoctorName, a.DoctorID)
	if a.Reason != "" {
		p.Renderer.Line("Reason: %s", a.Reason)
	}
	if !a.CanCancel() {
		p.Renderer.Muted("This appointment can no longer be cancelled.")
	}
	return nil
}

// EncounterDetails renders the full clinical record of one encounter.
// Missing sections render as "none recorded"; only a failed encounter
// fetch replaces the page.
func (p *Pages) EncounterDetails(ctx context.Context, id int64) error {
	d, err := p.Details.Load(ctx, id)
	if err != nil {
		if api.IsNotFound(err) {
			p.Renderer.Error("Encounter with ID %d not found.", id)
		} else {
			p.pageError(err, "Failed to fetch encounter details.")
		}
		return err
	}
	enc := d.Encounter
	p.Renderer.Title("Encounter #%d on %s", enc.ID, enc.EncounterDatetime)
	p.Renderer.Line("Patient: %s (ID: %d)", enc.PatientFullName, enc.PatientID)
	p.Renderer.Line("Doctor: Dr. %s (ID: %d)", enc.DoctorFullName, enc.DoctorID)
	p.Renderer.Line("Type: %s", enc.EncounterType)
	if enc.ChiefComplaint != "" {
		p.Renderer.Line("Chief complaint: %s", enc.ChiefComplaint)
	}
	if enc.AppointmentID != nil {
		p.Renderer.Line("Linked appointment: #%d", *enc.AppointmentID)
	}

	p.Renderer.Title("Consultation Note")
	if d.Note != nil {
		p.Renderer.Line("Symptoms: %s", orNA(d.Note.Symptoms))
		p.Renderer.Line("Observations: %s", orNA(d.Note.Observations))
		p.Renderer.Line("Assessment: %s", orNA(d.Note.Assessment))
	} else {
		p.Renderer.Muted("No consultation note recorded.")
	}

	p.Renderer.Title("Vital Signs")
	if len(d.VitalSigns) == 0 {
		p.Renderer.Muted("No vital signs recorded for this encounter.")
	}
	for _, v := range d.VitalSigns {
		p.Renderer.Line("Recorded %s: %s", v.RecordedAt, formatVitals(v))
	}

	p.Renderer.Title("Diagnoses")
	if len(d.Diagnoses) == 0 {
		p.Renderer.Muted("No diagnoses recorded for this encounter.")
	}
	for _, dg := range d.Diagnoses {
		chronic := ""
		if dg.IsChronic {
			chronic = " (Chronic)"
		}
		p.Renderer.Line("%s (%s): %s%s", dg.DiagnosisCode, orNA(dg.DiagnosisCodeSystem), dg.Description, chronic)
	}

	p.Renderer.Title("Prescription")
	if d.Prescription != nil {
		p.Renderer.Line("Date: %s", d.Prescription.PrescriptionDate)
		for _, item := range d.Prescription.Items {
			p.Renderer.Line("- %s: %s, %s", item.MedicationName, item.Dosage, item.Frequency)
		}
	} else {
		p.Renderer.Muted("No prescription issued for this encounter.")
	}

	p.Renderer.Title("Lab Orders")
	if len(d.LabOrders) == 0 {
		p.Renderer.Muted("No lab orders for this encounter.")
	}
	for _, o := range d.LabOrders {
		p.Renderer.Line("Order #%d (%s) on %s", o.ID, o.Status, o.OrderDatetime)
		for _, item := range o.Items {
			result := item.ResultValue
			if result == "" {
				result = "Pending"
			}
			p.Renderer.Line("  %s: %s", item.LabTestName, result)
		}
	}
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatVitals(v vitalsign.VitalSign) string {
	parts := []string{}
	if v.TemperatureCelsius != nil {
		parts = append(parts, fmt.Sprintf("Temp %.1f°C", *v.TemperatureCelsius))
	}
	if v.BloodPressureSystolic != nil && v.BloodPressureDiastolic != nil {
		parts = append(parts, fmt.Sprintf("BP %d/%d", *v.BloodPressureSystolic, *v.BloodPressureDiastolic))
	}
	if v.HeartRateBpm != nil {
		parts = append(parts, fmt.Sprintf("HR %d bpm", *v.HeartRateBpm))
	}
	if v.RespiratoryRateRpm != nil {
		parts = append(parts, fmt.Sprintf("RR %d rpm", *v.RespiratoryRateRpm))
	}
	if v.SpO2Percentage != nil {
		parts = append(parts, fmt.Sprintf("SpO2 %.0f%%", *v.SpO2Percentage))
	}
	if len(parts) == 0 {
		return "no measurements"
	}
	out := parts[0]
	for _, part := range parts[1:] {
		out += ", " + part
	}
	return out
}
