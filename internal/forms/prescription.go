package forms

import (
	"github.com/careline/careline/internal/domain/laborder"
	"github.com/careline/careline/internal/domain/prescription"
)

// PrescriptionItemDraft is one medication line as typed. An item is valid
// once it names a medication, a dosage and a frequency; incomplete lines
// are dropped at payload time rather than blocking the whole form.
type PrescriptionItemDraft struct {
	MedicationID string
	Dosage       string
	Frequency    string
	Duration     string
	Instructions string
}

func (i *PrescriptionItemDraft) complete() bool {
	return parseID(i.MedicationID) != 0 && i.Dosage != "" && i.Frequency != ""
}

// PrescriptionDraft backs the prescribing form. When the encounter already
// has a prescription, ID is set and saving updates it.
type PrescriptionDraft struct {
	ID               int64
	EncounterID      int64
	PrescriptionDate string `validate:"required"`
	Notes            string
	Items            []PrescriptionItemDraft
}

func (d *PrescriptionDraft) Reset(encounterID int64, initial *prescription.Prescription) {
	if initial == nil {
		*d = PrescriptionDraft{
			EncounterID: encounterID,
			Items:       []PrescriptionItemDraft{{}},
		}
		return
	}
	items := make([]PrescriptionItemDraft, 0, len(initial.Items))
	for _, it := range initial.Items {
		items = append(items, PrescriptionItemDraft{
			MedicationID: formatID(it.MedicationID),
			Dosage:       it.Dosage,
			Frequency:    it.Frequency,
			Duration:     it.Duration,
			Instructions: it.Instructions,
		})
	}
	if len(items) == 0 {
		items = []PrescriptionItemDraft{{}}
	}
	*d = PrescriptionDraft{
		ID:               initial.ID,
		EncounterID:      encounterID,
		PrescriptionDate: initial.PrescriptionDate,
		Notes:            initial.Notes,
		Items:            items,
	}
}

func (d *PrescriptionDraft) AddItem() { d.Items = append(d.Items, PrescriptionItemDraft{}) }

func (d *PrescriptionDraft) RemoveItem(index int) {
	if index < 0 || index >= len(d.Items) {
		return
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
}

func (d *PrescriptionDraft) Validate() Errors {
	errs := Errors{}
	runValidator(errs, d)
	if _, taken := errs["PrescriptionDate"]; !taken {
		wellFormedDate(errs, "PrescriptionDate", d.PrescriptionDate)
	}
	valid := 0
	for _, it := range d.Items {
		if it.complete() {
			valid++
		}
	}
	if valid == 0 {
		errs["Items"] = "At least one complete medication item is required."
	}
	return errs
}

// Payload keeps only the complete items, as the form filtered them.
func (d *PrescriptionDraft) Payload() *prescription.Prescription {
	items := make([]prescription.Item, 0, len(d.Items))
	for _, it := range d.Items {
		if !it.complete() {
			continue
		}
		items = append(items, prescription.Item{
			MedicationID: parseID(it.MedicationID),
			Dosage:       it.Dosage,
			Frequency:    it.Frequency,
			Duration:     it.Duration,
			Instructions: it.Instructions,
		})
	}
	return &prescription.Prescription{
		ID:               d.ID,
		EncounterID:      d.EncounterID,
		PrescriptionDate: d.PrescriptionDate,
		Notes:            d.Notes,
		Items:            items,
	}
}

// LabOrderItemDraft is one ordered test as typed. Only the test selection
// matters for completeness.
type LabOrderItemDraft struct {
	LabTestID string
}

// LabOrderDraft backs the lab ordering form.
type LabOrderDraft struct {
	EncounterID   int64
	OrderDatetime string `validate:"required"`
	Notes         string
	Items         []LabOrderItemDraft
}

func (d *LabOrderDraft) Reset(encounterID int64) {
	*d = LabOrderDraft{
		EncounterID: encounterID,
		Items:       []LabOrderItemDraft{{}},
	}
}

func (d *LabOrderDraft) AddItem() { d.Items = append(d.Items, LabOrderItemDraft{}) }

func (d *LabOrderDraft) RemoveItem(index int) {
	if index < 0 || index >= len(d.Items) {
		return
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
}

func (d *LabOrderDraft) Validate() Errors {
	errs := Errors{}
	runValidator(errs, d)
	if _, taken := errs["OrderDatetime"]; !taken {
		wellFormedDatetime(errs, "OrderDatetime", d.OrderDatetime)
	}
	valid := 0
	for _, it := range d.Items {
		if parseID(it.LabTestID) != 0 {
			valid++
		}
	}
	if valid == 0 {
		errs["Items"] = "At least one lab test is required."
	}
	return errs
}

func (d *LabOrderDraft) Payload() *laborder.LabOrder {
	items := make([]laborder.Item, 0, len(d.Items))
	for _, it := range d.Items {
		id := parseID(it.LabTestID)
		if id == 0 {
			continue
		}
		items = append(items, laborder.Item{LabTestID: id})
	}
	return &laborder.LabOrder{
		EncounterID:   d.EncounterID,
		OrderDatetime: d.OrderDatetime,
		Notes:         d.Notes,
		Items:         items,
	}
}

// LabResultDraft backs the file-result form for one ordered test.
type LabResultDraft struct {
	OrderID        int64
	ItemID         int64
	ResultValue    string `validate:"required"`
	ResultUnit     string
	ReferenceRange string
	IsAbnormal     bool
}

func (d *LabResultDraft) Validate() Errors {
	errs := Errors{}
	runValidator(errs, d)
	return errs
}

func (d *LabResultDraft) Payload() *laborder.ItemResult {
	return &laborder.ItemResult{
		ResultValue:    d.ResultValue,
		ResultUnit:     d.ResultUnit,
		ReferenceRange: d.ReferenceRange,
		IsAbnormal:     d.IsAbnormal,
	}
}
