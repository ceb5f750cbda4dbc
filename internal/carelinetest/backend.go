// Package carelinetest runs an in-process hospital backend for tests. It
// implements just enough of the REST surface to exercise the client end to
// end, keeps state in memory, and counts requests per route so tests can
// assert which calls were (or were not) made.
package carelinetest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
)

// Credentials the backend accepts out of the box.
const (
	Password  = "secret123"
	TokenStem = "test-token-"
)

// Account seeds a login identity with its roles.
type Account struct {
	Username string
	Roles    []string
}

// Backend is the fake hospital server. All exported maps are guarded by mu
// and keyed by resource ID.
type Backend struct {
	mu sync.Mutex

	server   *httptest.Server
	accounts map[string]Account
	hits     map[string]int

	nextID        int64
	Patients      map[int64]map[string]any
	Doctors       map[int64]map[string]any
	Appointments  map[int64]map[string]any
	Encounters    map[int64]map[string]any
	Notes         map[int64]map[string]any // keyed by encounter ID
	Vitals        map[int64][]map[string]any
	Diagnoses     map[int64][]map[string]any // keyed by encounter ID
	Prescriptions map[int64]map[string]any   // keyed by encounter ID
	LabOrders     map[int64]map[string]any
	Medications   []map[string]any
	LabTests      []map[string]any
}

// New starts the backend and registers it for cleanup.
func New(t interface {
	Helper()
	Cleanup(func())
}) *Backend {
	t.Helper()
	b := &Backend{
		accounts:      map[string]Account{},
		hits:          map[string]int{},
		nextID:        100,
		Patients:      map[int64]map[string]any{},
		Doctors:       map[int64]map[string]any{},
		Appointments:  map[int64]map[string]any{},
		Encounters:    map[int64]map[string]any{},
		Notes:         map[int64]map[string]any{},
		Vitals:        map[int64][]map[string]any{},
		Diagnoses:     map[int64][]map[string]any{},
		Prescriptions: map[int64]map[string]any{},
		LabOrders:     map[int64]map[string]any{},
	}
	e := echo.New()
	e.HideBanner = true
	b.routes(e)
	b.server = httptest.NewServer(e)
	t.Cleanup(b.server.Close)
	return b
}

// URL is the backend's base URL, usable directly as an api.Client base.
func (b *Backend) URL() string { return b.server.URL }

// AddAccount seeds a login identity. Password is always the package-level
// Password constant.
func (b *Backend) AddAccount(username string, roles ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[username] = Account{Username: username, Roles: roles}
}

// Hits reports how many requests matched the given method and path prefix,
// e.g. Hits("GET", "/vital-signs").
func (b *Backend) Hits(method, pathPrefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for key, n := range b.hits {
		parts := strings.SplitN(key, " ", 2)
		if parts[0] == method && strings.HasPrefix(parts[1], pathPrefix) {
			total += n
		}
	}
	return total
}

func (b *Backend) record(c echo.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hits[c.Request().Method+" "+c.Request().URL.Path]++
}

func (b *Backend) allocID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	return b.nextID
}

func (b *Backend) routes(e *echo.Echo) {
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			b.record(c)
			return next(c)
		}
	})

	e.POST("/auth/login", b.login)
	e.POST("/auth/register", b.register)

	e.GET("/patients", b.listPatients)
	e.GET("/patients/search", b.searchPatients)
	e.POST("/patients", b.createPatient)
	e.GET("/patients/:id", b.getPatient)
	e.PUT("/patients/:id", b.updatePatient)
	e.DELETE("/patients/:id", b.deletePatient)

	e.GET("/doctors", b.listDoctors)

	e.POST("/appointments", b.createAppointment)
	e.GET("/appointments", b.listAppointments)
	e.GET("/appointments/:id", b.getAppointment)
	e.GET("/appointments/patient/:id", b.appointmentsByPatient)
	e.PATCH("/appointments/:id/status", b.appointmentStatus)
	e.PUT("/appointments/:id/reschedule", b.rescheduleAppointment)
	e.DELETE("/appointments/:id/cancel", b.cancelAppointment)

	e.POST("/encounters", b.createEncounter)
	e.GET("/encounters/:id", b.getEncounter)
	e.GET("/encounters/patient/:id", b.encountersByPatient)

	e.GET("/consultation-notes/encounter/:id", b.noteByEncounter)
	e.POST("/consultation-notes", b.saveNote)
	e.PUT("/consultation-notes/:id", b.saveNote)

	e.GET("/vital-signs/encounter/:id", b.vitalsByEncounter)
	e.POST("/vital-signs", b.recordVital)

	e.GET("/diagnoses/encounter/:id", b.diagnosesByEncounter)
	e.POST("/diagnoses", b.addDiagnosis)

	e.GET("/prescriptions/encounter/:id", b.prescriptionByEncounter)
	e.POST("/prescriptions", b.createPrescription)
	e.PUT("/prescriptions/:id", b.updatePrescription)
	e.GET("/medications", b.searchMedications)

	e.GET("/lab-orders/encounter/:id", b.labOrdersByEncounter)
	e.POST("/lab-orders", b.createLabOrder)
	e.PATCH("/lab-orders/:id/status", b.labOrderStatus)
	e.PATCH("/lab-orders/:id/item/:itemID/result", b.labItemResult)
	e.GET("/lab-tests", b.searchLabTests)
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"message": msg})
}

func pathID(c echo.Context) int64 {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	return id
}

func (b *Backend) login(c echo.Context) error {
	var req struct {
		UsernameOrEmail string `json:"usernameOrEmail"`
		Password        string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	b.mu.Lock()
	account, ok := b.accounts[req.UsernameOrEmail]
	b.mu.Unlock()
	if !ok || req.Password != Password {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid username or password"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"accessToken": TokenStem + account.Username,
		"username":    account.Username,
		"roles":       account.Roles,
	})
}

func (b *Backend) register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	b.mu.Lock()
	_, taken := b.accounts[req.Username]
	b.mu.Unlock()
	if taken {
		return c.JSON(http.StatusBadRequest, "Error: Username is already taken!")
	}
	b.AddAccount(req.Username, "ROLE_PATIENT")
	return c.JSON(http.StatusOK, "User registered successfully!")
}

// requireAuth rejects requests without a bearer token. The fake backend
// does not verify the token beyond its prefix.
func requireAuth(c echo.Context) error {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer "+TokenStem) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Full authentication is required"})
	}
	return nil
}

func (b *Backend) listPatients(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(http.StatusOK, mapValues(b.Patients))
}

func (b *Backend) searchPatients(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	query := strings.ToLower(c.QueryParam("query"))
	b.mu.Lock()
	defer b.mu.Unlock()
	matches := []map[string]any{}
	for _, p := range b.Patients {
		name := strings.ToLower(fmt.Sprint(p["firstName"], " ", p["lastName"]))
		if strings.Contains(name, query) {
			matches = append(matches, p)
		}
	}
	return c.JSON(http.StatusOK, matches)
}

func (b *Backend) createPatient(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	var p map[string]any
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	id := b.allocID()
	p["id"] = id
	b.mu.Lock()
	b.Patients[id] = p
	b.mu.Unlock()
	return c.JSON(http.StatusCreated, p)
}

func (b *Backend) getPatient(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	p, ok := b.Patients[pathID(c)]
	b.mu.Unlock()
	if !ok {
		return notFound(c, "Patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (b *Backend) updatePatient(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	id := pathID(c)
	b.mu.Lock()
	_, ok := b.Patients[id]
	b.mu.Unlock()
	if !ok {
		return notFound(c, "Patient not found")
	}
	var p map[string]any
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	p["id"] = id
	b.mu.Lock()
	b.Patients[id] = p
	b.mu.Unlock()
	return c.JSON(http.StatusOK, p)
}

func (b *Backend) deletePatient(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	id := pathID(c)
	b.mu.Lock()
	_, ok := b.Patients[id]
	delete(b.Patients, id)
	b.mu.Unlock()
	if !ok {
		return notFound(c, "Patient not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (b *Backend) listDoctors(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(http.StatusOK, mapValues(b.Doctors))
}

func (b *Backend) createAppointment(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	var a map[string]any
	if err := c.Bind(&a); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	id := b.allocID()
	a["id"] = id
	if a["status"] == nil || a["status"] == "" {
		a["status"] = "SCHEDULED"
	}
	b.mu.Lock()
	b.Appointments[id] = a
	b.mu.Unlock()
	return c.JSON(http.StatusCreated, a)
}

func (b *Backend) listAppointments(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(http.StatusOK, mapValues(b.Appointments))
}

func (b *Backend) getAppointment(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	a, ok := b.Appointments[pathID(c)]
	b.mu.Unlock()
	if !ok {
		return notFound(c, "Appointment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (b *Backend) appointmentsByPatient(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	patientID := float64(pathID(c))
	b.mu.Lock()
	defer b.mu.Unlock()
	matches := []map[string]any{}
	for _, a := range b.Appointments {
		if asFloat(a["patientId"]) == patientID {
			matches = append(matches, a)
		}
	}
	return c.JSON(http.StatusOK, matches)
}

func (b *Backend) appointmentStatus(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	a, ok := b.Appointments[pathID(c)]
	if ok {
		a["status"] = c.QueryParam("status")
	}
	b.mu.Unlock()
	if !ok {
		return notFound(c, "Appointment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (b *Backend) rescheduleAppointment(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	var req map[string]any
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	b.mu.Lock()
	a, ok := b.Appointments[pathID(c)]
	if ok {
		a["appointmentDate"] = req["appointmentDate"]
		a["appointmentTime"] = req["appointmentTime"]
	}
	b.mu.Unlock()
	if !ok {
		return notFound(c, "Appointment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (b *Backend) cancelAppointment(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	a, ok := b.Appointments[pathID(c)]
	if ok {
		a["status"] = "CANCELLED"
	}
	b.mu.Unlock()
	if !ok {
		return notFound(c, "Appointment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (b *Backend) createEncounter(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	var e map[string]any
	if err := c.Bind(&e); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	id := b.allocID()
	e["id"] = id
	b.mu.Lock()
	b.Encounters[id] = e
	b.mu.Unlock()
	return c.JSON(http.StatusCreated, e)
}

func (b *Backend) getEncounter(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	e, ok := b.Encounters[pathID(c)]
	b.mu.Unlock()
	if !ok {
		return notFound(c, fmt.Sprintf("Encounter with ID %d not found", pathID(c)))
	}
	return c.JSON(http.StatusOK, e)
}

func (b *Backend) encountersByPatient(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	patientID := float64(pathID(c))
	b.mu.Lock()
	defer b.mu.Unlock()
	matches := []map[string]any{}
	for _, e := range b.Encounters {
		if asFloat(e["patientId"]) == patientID {
			matches = append(matches, e)
		}
	}
	return c.JSON(http.StatusOK, matches)
}

func (b *Backend) noteByEncounter(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	n, ok := b.Notes[pathID(c)]
	b.mu.Unlock()
	if !ok {
		return notFound(c, "No consultation note for encounter")
	}
	return c.JSON(http.StatusOK, n)
}

func (b *Backend) saveNote(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	var n map[string]any
	if err := c.Bind(&n); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	encID := int64(asFloat(n["encounterId"]))
	if n["id"] == nil || asFloat(n["id"]) == 0 {
		n["id"] = b.allocID()
	}
	b.mu.Lock()
	b.Notes[encID] = n
	b.mu.Unlock()
	return c.JSON(http.StatusOK, n)
}

func (b *Backend) vitalsByEncounter(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	vitals := b.Vitals[pathID(c)]
	b.mu.Unlock()
	if vitals == nil {
		vitals = []map[string]any{}
	}
	return c.JSON(http.StatusOK, vitals)
}

func (b *Backend) recordVital(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	var v map[string]any
	if err := c.Bind(&v); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	v["id"] = b.allocID()
	encID := int64(asFloat(v["encounterId"]))
	b.mu.Lock()
	b.Vitals[encID] = append(b.Vitals[encID], v)
	b.mu.Unlock()
	return c.JSON(http.StatusCreated, v)
}

func (b *Backend) diagnosesByEncounter(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	diagnoses := b.Diagnoses[pathID(c)]
	b.mu.Unlock()
	if diagnoses == nil {
		diagnoses = []map[string]any{}
	}
	return c.JSON(http.StatusOK, diagnoses)
}

func (b *Backend) addDiagnosis(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	var d map[string]any
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	d["id"] = b.allocID()
	encID := int64(asFloat(d["encounterId"]))
	b.mu.Lock()
	b.Diagnoses[encID] = append(b.Diagnoses[encID], d)
	b.mu.Unlock()
	return c.JSON(http.StatusCreated, d)
}

func (b *Backend) prescriptionByEncounter(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	p, ok := b.Prescriptions[pathID(c)]
	b.mu.Unlock()
	if !ok {
		return notFound(c, "No prescription for encounter")
	}
	return c.JSON(http.StatusOK, p)
}

func (b *Backend) createPrescription(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	var p map[string]any
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	encID := int64(asFloat(p["encounterId"]))
	b.mu.Lock()
	_, exists := b.Prescriptions[encID]
	b.mu.Unlock()
	if exists {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "A prescription already exists for this encounter"})
	}
	p["id"] = b.allocID()
	b.mu.Lock()
	b.Prescriptions[encID] = p
	b.mu.Unlock()
	return c.JSON(http.StatusCreated, p)
}

func (b *Backend) updatePrescription(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	id := float64(pathID(c))
	var p map[string]any
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for encID, existing := range b.Prescriptions {
		if asFloat(existing["id"]) == id {
			p["id"] = id
			b.Prescriptions[encID] = p
			return c.JSON(http.StatusOK, p)
		}
	}
	return notFound(c, "Prescription not found")
}

func (b *Backend) searchMedications(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	name := strings.ToLower(c.QueryParam("name"))
	b.mu.Lock()
	defer b.mu.Unlock()
	matches := []map[string]any{}
	for _, m := range b.Medications {
		if strings.Contains(strings.ToLower(fmt.Sprint(m["medicationName"])), name) {
			matches = append(matches, m)
		}
	}
	return c.JSON(http.StatusOK, matches)
}

func (b *Backend) labOrdersByEncounter(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	encID := float64(pathID(c))
	b.mu.Lock()
	defer b.mu.Unlock()
	matches := []map[string]any{}
	for _, o := range b.LabOrders {
		if asFloat(o["encounterId"]) == encID {
			matches = append(matches, o)
		}
	}
	return c.JSON(http.StatusOK, matches)
}

func (b *Backend) createLabOrder(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	var o map[string]any
	if err := c.Bind(&o); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	id := b.allocID()
	o["id"] = id
	o["status"] = "ORDERED"
	if items, ok := o["items"].([]any); ok {
		for _, raw := range items {
			if item, ok := raw.(map[string]any); ok {
				item["id"] = b.allocID()
			}
		}
	}
	b.mu.Lock()
	b.LabOrders[id] = o
	b.mu.Unlock()
	return c.JSON(http.StatusCreated, o)
}

func (b *Backend) labOrderStatus(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	b.mu.Lock()
	o, ok := b.LabOrders[pathID(c)]
	if ok {
		o["status"] = c.QueryParam("status")
	}
	b.mu.Unlock()
	if !ok {
		return notFound(c, "Lab order not found")
	}
	return c.JSON(http.StatusOK, o)
}

func (b *Backend) labItemResult(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	itemID, _ := strconv.ParseInt(c.Param("itemID"), 10, 64)
	var result map[string]any
	if err := c.Bind(&result); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "malformed request"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.LabOrders[pathID(c)]
	if !ok {
		return notFound(c, "Lab order not found")
	}
	items, _ := o["items"].([]any)
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok || int64(asFloat(item["id"])) != itemID {
			continue
		}
		for k, v := range result {
			item[k] = v
		}
		return c.JSON(http.StatusOK, o)
	}
	return notFound(c, "Lab order item not found")
}

func (b *Backend) searchLabTests(c echo.Context) error {
	if err := requireAuth(c); err != nil {
		return err
	}
	name := strings.ToLower(c.QueryParam("name"))
	b.mu.Lock()
	defer b.mu.Unlock()
	matches := []map[string]any{}
	for _, lt := range b.LabTests {
		if name == "" || strings.Contains(strings.ToLower(fmt.Sprint(lt["testName"])), name) {
			matches = append(matches, lt)
		}
	}
	return c.JSON(http.StatusOK, matches)
}

func mapValues(m map[int64]map[string]any) []map[string]any {
	values := make([]map[string]any, 0, len(m))
	for _, v := range m {
		values = append(values, v)
	}
	return values
}

// asFloat normalizes the two numeric shapes IDs take here: float64 from
// JSON binds and test seeds, int64 from allocID.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}
