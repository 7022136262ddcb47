package validators

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/utils"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// report json names so error details match the request body
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("rut", validateRut)
	validate.RegisterValidation("patente", validatePatente)
	validate.RegisterValidation("phone", validatePhone)
	validate.RegisterValidation("anio_camion", validateAnioCamion)
	validate.RegisterValidation("estado_persona", enumValidator("activo", "inactivo"))
	validate.RegisterValidation("estado_motorista", enumValidator("disponible", "en_viaje", "inactivo"))
	validate.RegisterValidation("estado_camion", enumValidator("disponible", "en_uso", "mantenimiento", "inactivo"))
	validate.RegisterValidation("estado_cotizacion", enumValidator("pendiente", "enviada", "aceptada", "rechazada", "ejecutada", "vencida", "cancelada"))
	validate.RegisterValidation("estado_viaje", enumValidator("programado", "en_curso", "completado", "cancelado"))
	validate.RegisterValidation("tipo_camion", enumValidator(models.TiposCamion...))
	validate.RegisterValidation("clase_licencia", enumValidator(models.ClasesLicencia...))
	validate.RegisterValidation("rol_empleado", enumValidator("admin", "operador"))
	validate.RegisterValidation("platform", enumValidator("android", "ios"))
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Details maps each failing field to its message.
func (v ValidationErrors) Details() map[string]string {
	out := make(map[string]string, len(v))
	for _, err := range v {
		out[err.Field] = err.Message
	}
	return out
}

// ValidateStruct returns nil or ValidationErrors.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	validationErrors := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
			Message: getErrorMessage(fe),
		})
	}
	return validationErrors
}

// fieldPath drops Go type names from the namespace, leaving the json path:
// "Req.CalcularRequest.origen.lat" -> "origen.lat".
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" && unicode.IsUpper(rune(p[0])) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "Campo requerido"
	case "email":
		return "Correo electrónico inválido"
	case "min":
		return fmt.Sprintf("Debe ser al menos %s", err.Param())
	case "max":
		return fmt.Sprintf("Debe ser como máximo %s", err.Param())
	case "gt":
		return fmt.Sprintf("Debe ser mayor que %s", err.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s", err.Param())
	case "lte":
		return fmt.Sprintf("Debe ser menor o igual a %s", err.Param())
	case "latitude", "longitude":
		return "Coordenada inválida"
	case "object_id":
		return "ID inválido"
	case "rut":
		return "RUT inválido"
	case "patente":
		return "Patente inválida"
	case "phone":
		return "Teléfono inválido"
	case "anio_camion":
		return "Año fuera de rango"
	case "url":
		return "URL inválida"
	default:
		if strings.HasPrefix(err.Tag(), "estado_") || strings.HasPrefix(err.Tag(), "tipo_") ||
			err.Tag() == "clase_licencia" || err.Tag() == "rol_empleado" || err.Tag() == "platform" {
			return "Valor no permitido"
		}
		return "Valor inválido"
	}
}

func enumValidator(allowed ...string) validator.Func {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		_, ok := set[v]
		return ok
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}

func validateRut(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return ValidRut(value)
}

func validatePatente(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return patenteRegex.MatchString(NormalizePatente(value))
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

func validatePhone(fl validator.FieldLevel) bool {
	phone := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(fl.Field().String())
	if phone == "" {
		return true
	}
	return phoneRegex.MatchString(phone)
}

func validateAnioCamion(fl validator.FieldLevel) bool {
	year := int(fl.Field().Int())
	if year == 0 {
		return true
	}
	return year >= 1980 && year <= time.Now().Year()+1
}

// Chilean plates: AB1234 (pre-2007) and BCDF12.
var patenteRegex = regexp.MustCompile(`^([A-Z]{2}[0-9]{4}|[A-Z]{4}[0-9]{2})$`)

func NormalizePatente(p string) string {
	return strings.ToUpper(strings.NewReplacer("-", "", " ", "", ".", "", "·", "").Replace(strings.TrimSpace(p)))
}

// NormalizeRut formats a RUT as 12345678-K. Invalid input is returned trimmed.
func NormalizeRut(rut string) string {
	clean := strings.ToUpper(strings.NewReplacer(".", "", "-", "", " ", "").Replace(strings.TrimSpace(rut)))
	if len(clean) < 2 {
		return strings.TrimSpace(rut)
	}
	return clean[:len(clean)-1] + "-" + clean[len(clean)-1:]
}

// ValidRut checks the modulo 11 verifier digit.
func ValidRut(rut string) bool {
	norm := NormalizeRut(rut)
	parts := strings.Split(norm, "-")
	if len(parts) != 2 || len(parts[0]) < 7 || len(parts[0]) > 8 {
		return false
	}
	body, err := strconv.Atoi(parts[0])
	if err != nil || body <= 0 {
		return false
	}
	return parts[1] == rutVerifier(body)
}

func rutVerifier(body int) string {
	sum, mul := 0, 2
	for body > 0 {
		sum += (body % 10) * mul
		body /= 10
		mul++
		if mul > 7 {
			mul = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return strconv.Itoa(r)
	}
}

func ParseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", utils.ErrInvalidID, id)
	}
	return oid, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
