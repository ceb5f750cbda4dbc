package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/careline/careline/internal/forms"
)

func encountersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encounters",
		Short: "Open and review encounters",
	}

	var draft forms.EncounterDraft
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new encounter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/encounters"); err != nil {
				return err
			}
			if draft.EncounterType == "" {
				draft.EncounterType = "CONSULTATION"
			}
			return a.pages.OpenEncounter(cmd.Context(), &draft)
		},
	}
	createCmd.Flags().StringVar(&draft.PatientID, "patient", "", "patient ID")
	createCmd.Flags().StringVar(&draft.DoctorID, "doctor", "", "doctor ID")
	createCmd.Flags().StringVar(&draft.AppointmentID, "appointment", "", "linked appointment ID (optional)")
	createCmd.Flags().StringVar(&draft.EncounterDatetime, "datetime", "", "when (YYYY-MM-DDTHH:MM)")
	createCmd.Flags().StringVar(&draft.EncounterType, "type", "", "encounter type")
	createCmd.Flags().StringVar(&draft.ChiefComplaint, "complaint", "", "chief complaint")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the full clinical record of an encounter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/encounters"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return a.pages.EncounterDetails(cmd.Context(), id)
		},
	}

	cmd.AddCommand(createCmd, showCmd)
	return cmd
}

func notesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage consultation notes",
	}

	var symptoms, observations, assessment string
	setCmd := &cobra.Command{
		Use:   "set <encounter-id>",
		Short: "Save or update the encounter's consultation note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/encounters"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return a.pages.ManageConsultationNote(cmd.Context(), id, func(d *forms.ConsultationNoteDraft) {
				if cmd.Flags().Changed("symptoms") {
					d.Symptoms = symptoms
				}
				if cmd.Flags().Changed("observations") {
					d.Observations = observations
				}
				if cmd.Flags().Changed("assessment") {
					d.Assessment = assessment
				}
			})
		},
	}
	setCmd.Flags().StringVar(&symptoms, "symptoms", "", "symptoms")
	setCmd.Flags().StringVar(&observations, "observations", "", "observations")
	setCmd.Flags().StringVar(&assessment, "assessment", "", "assessment")

	cmd.AddCommand(setCmd)
	return cmd
}

func vitalsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vitals",
		Short: "Record and list vital signs",
	}

	var draft forms.VitalSignsDraft
	recordCmd := &cobra.Command{
		Use:   "record <encounter-id>",
		Short: "Record vital signs for an encounter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/encounters"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			input := draft
			return a.pages.RecordVitals(cmd.Context(), id, func(d *forms.VitalSignsDraft) {
				encounterID := d.EncounterID
				*d = input
				d.EncounterID = encounterID
			})
		},
	}
	recordCmd.Flags().StringVar(&draft.RecordedAt, "at", "", "when (YYYY-MM-DDTHH:MM)")
	recordCmd.Flags().StringVar(&draft.TemperatureCelsius, "temp", "", "temperature (°C)")
	recordCmd.Flags().StringVar(&draft.BloodPressureSystolic, "systolic", "", "systolic blood pressure")
	recordCmd.Flags().StringVar(&draft.BloodPressureDiastolic, "diastolic", "", "diastolic blood pressure")
	recordCmd.Flags().StringVar(&draft.HeartRateBpm, "hr", "", "heart rate (bpm)")
	recordCmd.Flags().StringVar(&draft.RespiratoryRateRpm, "rr", "", "respiratory rate (rpm)")
	recordCmd.Flags().StringVar(&draft.SpO2Percentage, "spo2", "", "oxygen saturation (%)")
	recordCmd.Flags().StringVar(&draft.HeightCm, "height", "", "height (cm)")
	recordCmd.Flags().StringVar(&draft.WeightKg, "weight", "", "weight (kg)")
	recordCmd.Flags().StringVar(&draft.Notes, "notes", "", "notes")

	listCmd := &cobra.Command{
		Use:   "list <encounter-id>",
		Short: "List vital signs recorded for an encounter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/encounters"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			vitals, err := a.pages.Vitals.ByEncounter(cmd.Context(), id)
			if err != nil {
				a.render.Error("Failed to load vital signs.")
				return err
			}
			a.render.Title("Vital signs for encounter #%d (%d)", id, len(vitals))
			for _, v := range vitals {
				a.render.Line("#%d recorded %s", v.ID, v.RecordedAt)
			}
			return nil
		},
	}

	cmd.AddCommand(recordCmd, listCmd)
	return cmd
}

func diagnosesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnoses",
		Short: "Record and list diagnoses",
	}

	var draft forms.DiagnosisDraft
	addCmd := &cobra.Command{
		Use:   "add <encounter-id>",
		Short: "Record a diagnosis for an encounter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/encounters"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			input := draft
			return a.pages.AddDiagnosis(cmd.Context(), id, func(d *forms.DiagnosisDraft) {
				encounterID := d.EncounterID
				system := d.DiagnosisCodeSystem
				*d = input
				d.EncounterID = encounterID
				if d.DiagnosisCodeSystem == "" {
					d.DiagnosisCodeSystem = system
				}
			})
		},
	}
	addCmd.Flags().StringVar(&draft.DiagnosisCode, "code", "", "diagnosis code")
	addCmd.Flags().StringVar(&draft.DiagnosisCodeSystem, "system", "", "code system (default ICD-10)")
	addCmd.Flags().StringVar(&draft.Description, "description", "", "description")
	addCmd.Flags().StringVar(&draft.DiagnosisDate, "date", "", "date (YYYY-MM-DD)")
	addCmd.Flags().BoolVar(&draft.IsChronic, "chronic", false, "mark as chronic")

	listCmd := &cobra.Command{
		Use:   "list <encounter-id>",
		Short: "List diagnoses recorded for an encounter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/encounters"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			diagnoses, err := a.pages.Diagnoses.ByEncounter(cmd.Context(), id)
			if err != nil {
				a.render.Error("Failed to load diagnoses.")
				return err
			}
			a.render.Title("Diagnoses for encounter #%d (%d)", id, len(diagnoses))
			for _, d := range diagnoses {
				a.render.Line("%s: %s", d.DiagnosisCode, d.Description)
			}
			return nil
		},
	}

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}

func prescriptionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prescriptions",
		Short: "Issue and update prescriptions",
	}

	var date, notes string
	var items []string
	setCmd := &cobra.Command{
		Use:   "set <encounter-id>",
		Short: "Issue or update the encounter's prescription",
		Long: `Issue or update the encounter's prescription.

Each --item takes medication-id:dosage:frequency with an optional
:duration, e.g. --item "9:500mg:TID:7 days".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/encounters"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return a.pages.ManagePrescription(cmd.Context(), id, func(d *forms.PrescriptionDraft) {
				if cmd.Flags().Changed("date") {
					d.PrescriptionDate = date
				}
				if cmd.Flags().Changed("notes") {
					d.Notes = notes
				}
				if len(items) > 0 {
					d.Items = nil
					for _, raw := range items {
						d.Items = append(d.Items, parsePrescriptionItem(raw))
					}
				}
			})
		},
	}
	setCmd.Flags().StringVar(&date, "date", "", "prescription date (YYYY-MM-DD)")
	setCmd.Flags().StringVar(&notes, "notes", "", "notes")
	setCmd.Flags().StringArrayVar(&items, "item", nil, "medication-id:dosage:frequency[:duration]")

	cmd.AddCommand(setCmd)
	return cmd
}

func parsePrescriptionItem(raw string) forms.PrescriptionItemDraft {
	parts := strings.SplitN(raw, ":", 4)
	item := forms.PrescriptionItemDraft{}
	if len(parts) > 0 {
		item.MedicationID = parts[0]
	}
	if len(parts) > 1 {
		item.Dosage = parts[1]
	}
	if len(parts) > 2 {
		item.Frequency = parts[2]
	}
	if len(parts) > 3 {
		item.Duration = parts[3]
	}
	return item
}

func labOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lab-orders",
		Short: "Place lab orders and file results",
	}

	var datetime, notes string
	var tests []string
	createCmd := &cobra.Command{
		Use:   "create <encounter-id>",
		Short: "Place a lab order for an encounter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/encounters"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return a.pages.OrderLabs(cmd.Context(), id, func(d *forms.LabOrderDraft) {
				d.OrderDatetime = datetime
				d.Notes = notes
				d.Items = nil
				for _, testID := range tests {
					d.Items = append(d.Items, forms.LabOrderItemDraft{LabTestID: testID})
				}
			})
		},
	}
	createCmd.Flags().StringVar(&datetime, "datetime", "", "when (YYYY-MM-DDTHH:MM)")
	createCmd.Flags().StringVar(&notes, "notes", "", "notes")
	createCmd.Flags().StringArrayVar(&tests, "test", nil, "lab test ID (repeatable)")

	listCmd := &cobra.Command{
		Use:   "list <encounter-id>",
		Short: "List lab orders for an encounter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/encounters"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			orders, err := a.pages.LabOrders.ByEncounter(cmd.Context(), id)
			if err != nil {
				a.render.Error("Failed to load lab orders.")
				return err
			}
			a.render.Title("Lab orders for encounter #%d (%d)", id, len(orders))
			for _, o := range orders {
				a.render.Line("Order #%d (%s) on %s", o.ID, o.Status, o.OrderDatetime)
				for _, item := range o.Items {
					result := item.ResultValue
					if result == "" {
						result = "Pending"
					}
					a.render.Line("  #%d %s: %s", item.ID, item.LabTestName, result)
				}
			}
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Set a lab order's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/encounters"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			updated, err := a.pages.LabOrders.UpdateStatus(cmd.Context(), id, args[1])
			if err != nil {
				a.render.Error("Failed to update lab order %d.", id)
				return err
			}
			a.render.Success("Lab order #%d is now %s.", updated.ID, updated.Status)
			return nil
		},
	}

	var resultDraft forms.LabResultDraft
	resultCmd := &cobra.Command{
		Use:   "result <order-id> <item-id>",
		Short: "File a result for one ordered test",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/encounters"); err != nil {
				return err
			}
			orderID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			itemID, err := parseIDArg(args[1])
			if err != nil {
				return err
			}
			resultDraft.OrderID = orderID
			resultDraft.ItemID = itemID
			return a.pages.FileLabResult(cmd.Context(), &resultDraft)
		},
	}
	resultCmd.Flags().StringVar(&resultDraft.ResultValue, "value", "", "result value")
	resultCmd.Flags().StringVar(&resultDraft.ResultUnit, "unit", "", "result unit")
	resultCmd.Flags().StringVar(&resultDraft.ReferenceRange, "range", "", "reference range")
	resultCmd.Flags().BoolVar(&resultDraft.IsAbnormal, "abnormal", false, "flag as abnormal")

	cmd.AddCommand(createCmd, listCmd, statusCmd, resultCmd)
	return cmd
}
