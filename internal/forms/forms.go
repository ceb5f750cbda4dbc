// Package forms holds the draft-and-validate layer between user input and
// the backend payloads. Drafts carry raw string input, validate locally,
// and only then coerce into the wire types. A draft that fails validation
// never reaches the network.
package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02T15:04"
)

var validate = validator.New()

// Errors maps field names to user-facing validation messages. A nil or
// empty Errors means the draft may be submitted.
type Errors map[string]string

func (e Errors) Valid() bool { return len(e) == 0 }

// Joined flattens the messages into one line, fields sorted for stable
// output.
func (e Errors) Joined() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e))
	for _, field := range sortedKeys(e) {
		msgs = append(msgs, e[field])
	}
	return strings.Join(msgs, ", ")
}

func sortedKeys(e Errors) []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// runValidator applies the struct tags and folds the failures into Errors
// with readable messages.
func runValidator(errs Errors, draft interface{}) {
	err := validate.Struct(draft)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["_"] = err.Error()
		return
	}
	for _, fe := range verrs {
		field := fe.Field()
		if _, taken := errs[field]; taken {
			continue
		}
		switch fe.Tag() {
		case "required":
			errs[field] = fmt.Sprintf("%s is required.", field)
		case "email":
			errs[field] = fmt.Sprintf("%s must be a valid email address.", field)
		case "min":
			errs[field] = fmt.Sprintf("%s must be at least %s characters.", field, fe.Param())
		default:
			errs[field] = fmt.Sprintf("%s is invalid.", field)
		}
	}
}

// pastDate enforces a strict past date (used for dates of birth).
func pastDate(errs Errors, field, value string) {
	if value == "" {
		return
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		errs[field] = fmt.Sprintf("%s must be in YYYY-MM-DD format.", field)
		return
	}
	if !d.Before(time.Now()) {
		errs[field] = fmt.Sprintf("%s must be in the past.", field)
	}
}

func wellFormedDate(errs Errors, field, value string) {
	if value == "" {
		return
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		errs[field] = fmt.Sprintf("%s must be in YYYY-MM-DD format.", field)
	}
}

func wellFormedDatetime(errs Errors, field, value string) {
	if value == "" {
		return
	}
	if _, err := time.Parse(datetimeLayout, value); err != nil {
		errs[field] = fmt.Sprintf("%s must be in YYYY-MM-DDTHH:MM format.", field)
	}
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// parseID coerces a selector value; zero means "not chosen".
func parseID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func parseFloatPtr(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseIntPtr(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
