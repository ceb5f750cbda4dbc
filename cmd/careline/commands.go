package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/careline/careline/internal/forms"
)

func parseIDArg(arg string) (int64, error) {
	return strconv.ParseInt(arg, 10, 64)
}

func patientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Manage patient records",
	}

	var query string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/patients"); err != nil {
				return err
			}
			return a.pages.PatientList(cmd.Context(), query)
		},
	}
	listCmd.Flags().StringVarP(&query, "query", "q", "", "narrow by name")

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search patients by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/patients"); err != nil {
				return err
			}
			return a.pages.PatientList(cmd.Context(), args[0])
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one patient with encounter history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/patients"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return a.pages.PatientDetail(cmd.Context(), id)
		},
	}

	var createDraft forms.PatientDraft
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/patients/new"); err != nil {
				return err
			}
			return a.pages.CreatePatient(cmd.Context(), &createDraft)
		},
	}
	bindPatientFlags(createCmd, &createDraft)

	var updateDraft forms.PatientDraft
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/patients/edit"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			existing, err := a.pages.Patients.Get(cmd.Context(), id)
			if err != nil {
				a.render.Error("Failed to load patient %d.", id)
				return err
			}
			// Seed from the stored record, then overlay only the flags the
			// user actually set.
			seeded := updateDraft
			updateDraft.Reset(existing)
			overlayPatientDraft(cmd, &updateDraft, &seeded)
			return a.pages.UpdatePatient(cmd.Context(), &updateDraft)
		},
	}
	bindPatientFlags(updateCmd, &updateDraft)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a patient record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/patients/delete"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if err := a.pages.Patients.Delete(cmd.Context(), id); err != nil {
				a.render.Error("Failed to delete patient %d.", id)
				return err
			}
			a.render.Success("Patient %d deleted.", id)
			return nil
		},
	}

	cmd.AddCommand(listCmd, searchCmd, showCmd, createCmd, updateCmd, deleteCmd)
	return cmd
}

func bindPatientFlags(cmd *cobra.Command, d *forms.PatientDraft) {
	cmd.Flags().StringVar(&d.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&d.MiddleName, "middle-name", "", "middle name")
	cmd.Flags().StringVar(&d.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&d.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.Gender, "gender", "", "gender")
	cmd.Flags().StringVar(&d.AddressLine1, "address1", "", "address line 1")
	cmd.Flags().StringVar(&d.AddressLine2, "address2", "", "address line 2")
	cmd.Flags().StringVar(&d.City, "city", "", "city")
	cmd.Flags().StringVar(&d.State, "state", "", "state")
	cmd.Flags().StringVar(&d.PostalCode, "postal-code", "", "postal code")
	cmd.Flags().StringVar(&d.Country, "country", "", "country")
	cmd.Flags().StringVar(&d.PhoneNumber, "phone", "", "phone number")
	cmd.Flags().StringVar(&d.Email, "email", "", "email")
	cmd.Flags().StringVar(&d.EmergencyContactName, "emergency-name", "", "emergency contact name")
	cmd.Flags().StringVar(&d.EmergencyContactPhone, "emergency-phone", "", "emergency contact phone")
	cmd.Flags().StringVar(&d.InsuranceProvider, "insurance", "", "insurance provider")
	cmd.Flags().StringVar(&d.InsurancePolicyNumber, "policy", "", "insurance policy number")
}

// overlayPatientDraft copies flag-set values from src over the seeded
// draft, leaving untouched fields at their stored values.
func overlayPatientDraft(cmd *cobra.Command, dst, src *forms.PatientDraft) {
	set := map[string]*struct{ dst, src *string }{
		"first-name":      {&dst.FirstName, &src.FirstName},
		"middle-name":     {&dst.MiddleName, &src.MiddleName},
		"last-name":       {&dst.LastName, &src.LastName},
		"dob":             {&dst.DateOfBirth, &src.DateOfBirth},
		"gender":          {&dst.Gender, &src.Gender},
		"address1":        {&dst.AddressLine1, &src.AddressLine1},
		"address2":        {&dst.AddressLine2, &src.AddressLine2},
		"city":            {&dst.City, &src.City},
		"state":           {&dst.State, &src.State},
		"postal-code":     {&dst.PostalCode, &src.PostalCode},
		"country":         {&dst.Country, &src.Country},
		"phone":           {&dst.PhoneNumber, &src.PhoneNumber},
		"email":           {&dst.Email, &src.Email},
		"emergency-name":  {&dst.EmergencyContactName, &src.EmergencyContactName},
		"emergency-phone": {&dst.EmergencyContactPhone, &src.EmergencyContactPhone},
		"insurance":       {&dst.InsuranceProvider, &src.InsuranceProvider},
		"policy":          {&dst.InsurancePolicyNumber, &src.InsurancePolicyNumber},
	}
	for flag, pair := range set {
		if cmd.Flags().Changed(flag) {
			*pair.dst = *pair.src
		}
	}
}

func appointmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Manage appointments",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/appointments"); err != nil {
				return err
			}
			return a.pages.AppointmentList(cmd.Context())
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/appointments"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return a.pages.AppointmentDetail(cmd.Context(), id)
		},
	}

	var draft forms.AppointmentDraft
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Book an appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/appointments/new"); err != nil {
				return err
			}
			return a.pages.BookAppointment(cmd.Context(), &draft)
		},
	}
	createCmd.Flags().StringVar(&draft.PatientID, "patient", "", "patient ID")
	createCmd.Flags().StringVar(&draft.DoctorID, "doctor", "", "doctor ID")
	createCmd.Flags().StringVar(&draft.AppointmentDate, "date", "", "date (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&draft.AppointmentTime, "time", "", "time (HH:MM)")
	createCmd.Flags().StringVar(&draft.Reason, "reason", "", "visit reason")

	var newDate, newTime string
	rescheduleCmd := &cobra.Command{
		Use:   "reschedule <id>",
		Short: "Move an appointment to a new date and time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/appointments/edit"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			updated, err := a.pages.Appointments.Reschedule(cmd.Context(), id, newDate, newTime)
			if err != nil {
				a.render.Error("Failed to reschedule appointment %d.", id)
				return err
			}
			a.render.Success("Appointment #%d moved to %s %s.", updated.ID, updated.AppointmentDate, updated.AppointmentTime)
			return nil
		},
	}
	rescheduleCmd.Flags().StringVar(&newDate, "date", "", "new date (YYYY-MM-DD)")
	rescheduleCmd.Flags().StringVar(&newTime, "time", "", "new time (HH:MM)")

	cancelCmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/appointments/edit"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return a.pages.CancelAppointment(cmd.Context(), id)
		},
	}

	completeCmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark an appointment completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/appointments/edit"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return a.setAppointmentStatus(cmd, id, "COMPLETED")
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set an appointment's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/appointments/edit"); err != nil {
				return err
			}
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return a.setAppointmentStatus(cmd, id, args[1])
		},
	}

	cmd.AddCommand(listCmd, showCmd, createCmd, rescheduleCmd, cancelCmd, completeCmd, statusCmd)
	return cmd
}

func (a *app) setAppointmentStatus(cmd *cobra.Command, id int64, status string) error {
	updated, err := a.pages.Appointments.UpdateStatus(cmd.Context(), id, status)
	if err != nil {
		a.render.Error("Failed to update appointment %d.", id)
		return err
	}
	a.render.Success("Appointment #%d is now %s.", updated.ID, updated.Status)
	return nil
}

func adminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative views",
	}

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show roster and schedule summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/admin"); err != nil {
				return err
			}
			ctx := cmd.Context()
			patients, err := a.pages.Patients.List(ctx)
			if err != nil {
				a.render.Error("Failed to load dashboard.")
				return err
			}
			doctors, _ := a.pages.Doctors.List(ctx)
			appts, _ := a.pages.Appointments.List(ctx)

			a.render.Title("Dashboard")
			a.render.Line("Patients: %d", len(patients))
			a.render.Line("Doctors: %d", len(doctors))
			a.render.Line("Appointments: %d", len(appts))
			return nil
		},
	}

	cmd.AddCommand(dashboardCmd)
	return cmd
}
