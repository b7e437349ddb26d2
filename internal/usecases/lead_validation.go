package usecases

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"leadflow.backend/internal/domain/entities"
	domainerrors "leadflow.backend/internal/domain/errors"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\+\-\s()\d]+$`)

	statusMessage = "Status must be one of " + joinStatuses()
	sourceMessage = "Lead source must be one of " + joinSources()

	leadValidate = newLeadValidate()
)

// ValidationRules are the configurable parts of lead validation
type ValidationRules struct {
	RequireCompany bool
}

func newLeadValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "leademail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "leadphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "leadsource", func(fl validator.FieldLevel) bool {
		return entities.LeadSource(fl.Field().String()).IsValid()
	})
	mustRegister(v, "leadstatus", func(fl validator.FieldLevel) bool {
		return entities.LeadStatus(fl.Field().String()).IsValid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// ValidateLeadInput trims input in place and returns field-scoped errors.
// An empty result means the input is acceptable.
func ValidateLeadInput(input *entities.CreateLeadInput, rules ValidationRules) domainerrors.FieldErrors {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Company = strings.TrimSpace(input.Company)
	input.LeadSource = strings.TrimSpace(input.LeadSource)
	input.Status = strings.TrimSpace(input.Status)

	fields := domainerrors.FieldErrors{}
	collectFieldErrors(fields, leadValidate.Struct(input))
	if rules.RequireCompany && input.Company == "" {
		fields["company"] = "Company is required"
	}
	return fields
}

// ValidateLeadUpdate checks the fields present in a partial update.
func ValidateLeadUpdate(input *entities.UpdateLeadInput, rules ValidationRules) domainerrors.FieldErrors {
	fields := domainerrors.FieldErrors{}
	check := func(name string, value *string, tag string) {
		if value == nil {
			return
		}
		*value = strings.TrimSpace(*value)
		if err := leadValidate.Var(*value, tag); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				fields[name] = fieldMessage(name, verrs[0].Tag())
			}
		}
	}
	check("name", input.Name, "required")
	check("email", input.Email, "required,leademail")
	check("phone", input.Phone, "omitempty,leadphone")
	check("leadSource", input.LeadSource, "omitempty,leadsource")
	check("status", input.Status, "required,leadstatus")
	if rules.RequireCompany {
		check("company", input.Company, "required")
	} else if input.Company != nil {
		*input.Company = strings.TrimSpace(*input.Company)
	}
	if input.AssignedTo != nil {
		*input.AssignedTo = strings.TrimSpace(*input.AssignedTo)
	}
	return fields
}

// ValidateTeamMemberInput trims input in place and checks name and email.
func ValidateTeamMemberInput(input *entities.TeamMemberInput) domainerrors.FieldErrors {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Role = strings.TrimSpace(input.Role)

	fields := domainerrors.FieldErrors{}
	if input.Name == "" {
		fields["name"] = fieldMessage("name", "required")
	}
	if err := leadValidate.Var(input.Email, "required,leademail"); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields["email"] = fieldMessage("email", verrs[0].Tag())
		}
	}
	return fields
}

func collectFieldErrors(fields domainerrors.FieldErrors, err error) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["_"] = err.Error()
		return
	}
	for _, fe := range verrs {
		if _, exists := fields[fe.Field()]; !exists {
			fields[fe.Field()] = fieldMessage(fe.Field(), fe.Tag())
		}
	}
}

var fieldLabels = map[string]string{
	"name":       "Name",
	"email":      "Email",
	"phone":      "Phone",
	"company":    "Company",
	"leadSource": "Lead source",
	"status":     "Status",
}

func fieldMessage(field, tag string) string {
	switch tag {
	case "leademail":
		return "Please enter a valid email address"
	case "leadphone":
		return "Please enter a valid phone number"
	case "leadsource":
		return sourceMessage
	case "leadstatus":
		return statusMessage
	case "required":
		label, ok := fieldLabels[field]
		if !ok {
			label = field
		}
		return label + " is required"
	}
	return "Invalid value"
}

func joinStatuses() string {
	names := make([]string, 0, len(entities.LeadStatuses))
	for _, s := range entities.LeadStatuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func joinSources() string {
	names := make([]string, 0, len(entities.LeadSources))
	for _, s := range entities.LeadSources {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
