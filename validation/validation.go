package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/ggpera/expense-tracker/model"
)

const (
	tagPresent  = "present"
	tagString   = "isstring"
	tagNotEmpty = "notempty"
	tagFilled   = "filled"
	tagNumber   = "isnumber"
	tagInteger  = "isinteger"
	tagSafe     = "safenumber"
	tagAtLeast  = "atleast"

	keyUnknown = "unknown"
	keyObject  = "object"
)

// Numeric strings are accepted for number fields, e.g. amounts posted
// straight from an <input type="number">.
var numericString = regexp.MustCompile(`^\s*[+-]?(?:(?:\d+(?:\.\d*)?)|(?:\.\d+))(?:[eE][+-]?\d+)?\s*$`)

var messages = map[string]string{
	tagPresent:  `"{0}" is required`,
	tagString:   `"{0}" must be a string`,
	tagNotEmpty: `"{0}" is not allowed to be empty`,
	tagFilled:   `"{0}" is not allowed to be empty`,
	tagNumber:   `"{0}" must be a number`,
	tagInteger:  `"{0}" must be an integer`,
	tagSafe:     `"{0}" must be a safe number`,
	tagAtLeast:  `"{0}" must be greater than or equal to {1}`,
	keyUnknown:  `"{0}" is not allowed`,
	keyObject:   `"{0}" must be of type object`,
}

// maxSafeInteger is the largest integer a JSON client can round-trip
// through a double, 2^53-1.
const maxSafeInteger = 1<<53 - 1

// null marks a field sent as JSON null. It is neither a string nor a number.
type null bool

var (
	createKeys = []string{"date", "amount", "category", "shop"}
	updateKeys = []string{"id", "date", "amount", "category", "shop"}
)

// Validator checks expense payloads and reports the first violation in
// field declaration order.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() (*Validator, error) {
	v := &Validator{validate: validator.New()}

	eng := en.New()
	uni := ut.New(eng, eng)

	var found bool
	v.translator, found = uni.GetTranslator("en")
	if !found {
		return nil, fmt.Errorf("translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(v.validate, v.translator); err != nil {
		return nil, err
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validations := map[string]validator.Func{
		tagPresent:  func(validator.FieldLevel) bool { return true },
		tagString:   isString,
		tagNotEmpty: notEmpty,
		tagFilled:   filled,
		tagNumber:   isNumber,
		tagInteger:  isInteger,
		tagSafe:     isSafe,
		tagAtLeast:  atLeast,
	}
	for tag, fn := range validations {
		if err := v.validate.RegisterValidation(tag, fn); err != nil {
			return nil, err
		}
		if err := v.validate.RegisterTranslation(tag, v.translator, registerMessage(tag), translate); err != nil {
			return nil, err
		}
	}
	for _, key := range []string{keyUnknown, keyObject} {
		if err := v.translator.Add(key, messages[key], true); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// Create validates the body of a create request.
func (v *Validator) Create(body []byte) (model.Submission, error) {
	fields, keys, err := v.decode(body)
	if err != nil {
		return model.Submission{}, err
	}

	payload := model.NewExpense{
		Date:     fields["date"],
		Amount:   fields["amount"],
		Category: fields["category"],
		Shop:     fields["shop"],
	}
	if err := v.check(&payload, keys, createKeys); err != nil {
		return model.Submission{}, err
	}

	amount, _ := toFloat(payload.Amount)
	return model.Submission{
		Expense: model.Expense{
			Date:     payload.Date.(string),
			Amount:   amount,
			Category: payload.Category.(string),
			Shop:     payload.Shop.(string),
		},
		Amount: payload.Amount,
	}, nil
}

// Update validates the body of an update request, id included.
func (v *Validator) Update(body []byte) (model.Submission, error) {
	fields, keys, err := v.decode(body)
	if err != nil {
		return model.Submission{}, err
	}

	payload := model.ExpensePayload{
		ID:       fields["id"],
		Date:     fields["date"],
		Amount:   fields["amount"],
		Category: fields["category"],
		Shop:     fields["shop"],
	}
	if err := v.check(&payload, keys, updateKeys); err != nil {
		return model.Submission{}, err
	}

	// safenumber keeps the id within int64 without rounding
	id, _ := toFloat(payload.ID)
	amount, _ := toFloat(payload.Amount)
	return model.Submission{
		Expense: model.Expense{
			ID:       int64(id),
			Date:     payload.Date.(string),
			Amount:   amount,
			Category: payload.Category.(string),
			Shop:     payload.Shop.(string),
		},
		ID:     payload.ID,
		Amount: payload.Amount,
	}, nil
}

// decode returns the top-level fields of body and its keys in the order
// they were sent. An explicit null is kept apart from a missing key.
func (v *Validator) decode(body []byte) (map[string]interface{}, []string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]interface{}{}, nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var raw interface{}
	if err := decoder.Decode(&raw); err != nil || decoder.More() {
		return nil, nil, &model.ValidationError{Field: "value", Rule: "json", Message: "Invalid request payload"}
	}

	fields, ok := raw.(map[string]interface{})
	if !ok {
		return nil, nil, v.fail("value", keyObject)
	}
	for key, value := range fields {
		if value == nil {
			fields[key] = null(true)
		}
	}
	return fields, keyOrder(body), nil
}

// keyOrder lists the keys of a JSON object as they appear in body.
func keyOrder(body []byte) []string {
	decoder := json.NewDecoder(bytes.NewReader(body))
	if _, err := decoder.Token(); err != nil {
		return nil
	}

	var keys []string
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return keys
		}
		if key, ok := token.(string); ok {
			keys = append(keys, key)
		}
		var skip json.RawMessage
		if err := decoder.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}

func (v *Validator) check(payload interface{}, keys []string, allowed []string) error {
	if err := v.validate.Struct(payload); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok || len(errs) == 0 {
			return err
		}
		first := errs[0]
		return &model.ValidationError{
			Field:   first.Field(),
			Rule:    first.Tag(),
			Message: first.Translate(v.translator),
		}
	}

	for _, key := range keys {
		if !contains(allowed, key) {
			return v.fail(key, keyUnknown)
		}
	}
	return nil
}

func (v *Validator) fail(field, key string) *model.ValidationError {
	msg, err := v.translator.T(key, field)
	if err != nil {
		msg = fmt.Sprintf("%q is invalid", field)
	}
	return &model.ValidationError{Field: field, Rule: key, Message: msg}
}

func registerMessage(tag string) validator.RegisterTranslationsFunc {
	return func(trans ut.Translator) error {
		return trans.Add(tag, messages[tag], true)
	}
}

func translate(trans ut.Translator, fe validator.FieldError) string {
	msg, err := trans.T(fe.Tag(), fe.Field(), fe.Param())
	if err != nil {
		return fe.Error()
	}
	return msg
}

func isString(fl validator.FieldLevel) bool {
	_, ok := fl.Field().Interface().(string)
	return ok
}

func notEmpty(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && s != ""
}

// filled rejects only the empty string, leaving type checks to other tags.
func filled(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return !ok || s != ""
}

func isNumber(fl validator.FieldLevel) bool {
	_, ok := toFloat(fl.Field().Interface())
	return ok
}

func isInteger(fl validator.FieldLevel) bool {
	f, ok := toFloat(fl.Field().Interface())
	return ok && f == math.Trunc(f)
}

func isSafe(fl validator.FieldLevel) bool {
	f, ok := toFloat(fl.Field().Interface())
	return ok && math.Abs(f) <= maxSafeInteger
}

func atLeast(fl validator.FieldLevel) bool {
	min, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}
	f, ok := toFloat(fl.Field().Interface())
	return ok && f >= min
}

func toFloat(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case string:
		if !numericString.MatchString(v) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
