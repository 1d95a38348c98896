package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"github.com/localnerve/jam-build-shoppinglist/internal/services"
	"github.com/localnerve/jam-build-shoppinglist/internal/types"
)

// Field validation messages
const (
	msgRequired     = "This field is required."
	msgNull         = "This field may not be null."
	msgBlank        = "This field may not be blank."
	msgNotString    = "Not a valid string."
	msgNotBoolean   = "Must be a valid boolean."
	msgNotInteger   = "A valid integer is required."
	msgMaxLength    = "Ensure this field has no more than %s characters."
	msgMinValue     = "Ensure this value is greater than or equal to %s."
	msgMaxValue     = "Ensure this value is less than or equal to %s."
	msgInvalidEmail = "Enter a valid email address."
	msgBadChoice    = "\"%s\" is not a valid choice."
	msgPkType       = "Incorrect type. Expected pk value, received %s."
	msgNotDict      = "Invalid data. Expected a dictionary, but got %s."
)

var (
	trueValues  = map[string]bool{"t": true, "y": true, "yes": true, "true": true, "on": true, "1": true}
	falseValues = map[string]bool{"f": true, "n": true, "no": true, "false": true, "off": true, "0": true}

	trailingZeros = regexp.MustCompile(`\.0*\s*$`)
)

// payload reads typed fields out of a JSON object body and collects the
// problems per field.
type payload struct {
	data    map[string]interface{}
	partial bool
	errs    types.FieldErrors
}

// decodePayload parses the request body as a JSON object. An empty body is an
// empty object. With partial set, missing required fields are not errors.
func decodePayload(c *fiber.Ctx, partial bool) (*payload, error) {
	p := &payload{data: map[string]interface{}{}, partial: partial, errs: types.FieldErrors{}}

	raw := bytes.TrimSpace(c.Body())
	if len(raw) == 0 {
		return p, nil
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, types.NewError(fiber.StatusBadRequest, "JSON parse error - "+err.Error(), "request.parse")
	}
	if dec.More() {
		return nil, types.NewError(fiber.StatusBadRequest, "JSON parse error - extra data after the object", "request.parse")
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, types.FieldErrors{types.NonFieldErrors: {fmt.Sprintf(msgNotDict, typeName(v))}}
	}
	p.data = obj
	return p, nil
}

// typeName names a decoded JSON value the way the error messages expect
func typeName(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case string:
		return "str"
	case json.Number:
		if strings.ContainsAny(t.String(), ".eE") {
			return "float"
		}
		return "int"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "dict"
	}
	return fmt.Sprintf("%T", v)
}

// displayValue renders an input value inside a choice error
func displayValue(v interface{}) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "True"
		}
		return "False"
	case json.Number:
		return t.String()
	case string:
		return t
	}
	return fmt.Sprint(v)
}

// err returns the collected field errors, or nil
func (p *payload) err() error {
	return p.errs.Err()
}

// lookup returns the raw value of a field. present is false when the field is
// absent or already failed; a present nil value is an accepted null.
func (p *payload) lookup(name string, required, allowNull bool) (v interface{}, present bool) {
	v, ok := p.data[name]
	if !ok {
		if required && !p.partial {
			p.errs.Add(name, msgRequired)
		}
		return nil, false
	}
	if v == nil && !allowNull {
		p.errs.Add(name, msgNull)
		return nil, false
	}
	return v, true
}

// checkVar runs a validator tag against a parsed value and records the
// failures under field.
func (p *payload) checkVar(field string, value interface{}, tag string) bool {
	err := models.Validator().Var(value, tag)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		p.errs.Add(field, err.Error())
		return false
	}
	for _, fe := range verrs {
		p.errs.Add(field, fieldMessage(fe))
	}
	return false
}

// fieldMessage turns a validator failure into the response text
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgBlank
	case "email":
		return msgInvalidEmail
	case "itemcategory", "itemunit":
		return fmt.Sprintf(msgBadChoice, fmt.Sprint(fe.Value()))
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf(msgMaxLength, fe.Param())
		}
		return fmt.Sprintf(msgMaxValue, fe.Param())
	case "min", "gte":
		return fmt.Sprintf(msgMinValue, fe.Param())
	}
	return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
}

type charField struct {
	required   bool
	allowNull  bool
	allowBlank bool
	// trim strips surrounding whitespace, off for passwords
	trim bool
	// rules is an extra validator tag, e.g. "max=220" or "email"
	rules string
}

// char reads a string field. Numbers are accepted and kept as written.
func (p *payload) char(name string, f charField) services.Nullable[string] {
	v, ok := p.lookup(name, f.required, f.allowNull)
	if !ok {
		return services.Nullable[string]{}
	}
	if v == nil {
		return services.Null[string]()
	}

	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	default:
		p.errs.Add(name, msgNotString)
		return services.Nullable[string]{}
	}

	if f.trim {
		s = strings.TrimSpace(s)
	}
	if s == "" {
		if !f.allowBlank {
			p.errs.Add(name, msgBlank)
			return services.Nullable[string]{}
		}
		return services.Some(s)
	}

	if f.rules != "" && !p.checkVar(name, s, f.rules) {
		return services.Nullable[string]{}
	}
	return services.Some(s)
}

// text reads a required, trimmed, non-blank string
func (p *payload) text(name, rules string) *string {
	return p.char(name, charField{required: true, trim: true, rules: rules}).Value
}

// boolean reads a flag. Besides true and false it accepts 1/0 and the usual
// yes/no spellings.
func (p *payload) boolean(name string) *bool {
	v, ok := p.lookup(name, false, false)
	if !ok {
		return nil
	}

	var b, valid bool
	switch t := v.(type) {
	case bool:
		b, valid = t, true
	case json.Number:
		switch t.String() {
		case "1", "1.0":
			b, valid = true, true
		case "0", "0.0":
			b, valid = false, true
		}
	case string:
		s := strings.ToLower(t)
		if trueValues[s] {
			b, valid = true, true
		} else if falseValues[s] {
			b, valid = false, true
		}
	}

	if !valid {
		p.errs.Add(name, msgNotBoolean)
		return nil
	}
	return &b
}

type intField struct {
	required  bool
	allowNull bool
	rules     string
}

// integer reads an integer given as a JSON number or a numeric string.
// Trailing ".0" is tolerated.
func (p *payload) integer(name string, f intField) services.Nullable[int] {
	v, ok := p.lookup(name, f.required, f.allowNull)
	if !ok {
		return services.Nullable[int]{}
	}
	if v == nil {
		return services.Null[int]()
	}

	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		p.errs.Add(name, msgNotInteger)
		return services.Nullable[int]{}
	}

	n, err := strconv.Atoi(trailingZeros.ReplaceAllString(s, ""))
	if err != nil {
		p.errs.Add(name, msgNotInteger)
		return services.Nullable[int]{}
	}

	if f.rules != "" && !p.checkVar(name, n, f.rules) {
		return services.Nullable[int]{}
	}
	return services.Some(n)
}

type choiceField struct {
	required   bool
	allowNull  bool
	allowBlank bool
	// rule is the validator tag holding the choices
	rule string
}

// choice reads a value from a fixed set. Numbers are compared by their text.
func (p *payload) choice(name string, f choiceField) services.Nullable[string] {
	v, ok := p.lookup(name, f.required, f.allowNull)
	if !ok {
		return services.Nullable[string]{}
	}
	if v == nil {
		return services.Null[string]()
	}

	s := displayValue(v)
	if s == "" && f.allowBlank {
		// a blank optional choice clears the column
		return services.Null[string]()
	}
	if _, isList := v.([]interface{}); isList {
		p.errs.Add(name, fmt.Sprintf(msgBadChoice, s))
		return services.Nullable[string]{}
	}
	if !p.checkVar(name, s, f.rule) {
		return services.Nullable[string]{}
	}
	return services.Some(s)
}

// pk type-checks a primary key reference
func (p *payload) pk(name string, allowNull bool) services.Nullable[uint64] {
	v, ok := p.lookup(name, false, allowNull)
	if !ok {
		return services.Nullable[uint64]{}
	}
	if v == nil {
		return services.Null[uint64]()
	}

	var id types.FlexUint64
	switch v.(type) {
	case json.Number, string:
		raw, _ := json.Marshal(v)
		if err := json.Unmarshal(raw, &id); err == nil {
			return services.Some(uint64(id))
		}
	}
	p.errs.Add(name, fmt.Sprintf(msgPkType, typeName(v)))
	return services.Nullable[uint64]{}
}

// shoppingListInput reads the writable list fields. The "user" field is
// checked but the owner is always the caller.
func shoppingListInput(p *payload) services.ShoppingListInput {
	in := services.ShoppingListInput{
		Name:        p.char("name", charField{required: true, trim: true, rules: "max=220"}).Value,
		Description: p.char("description", charField{allowNull: true, allowBlank: true, trim: true}),
		Completed:   p.boolean("completed"),
	}
	p.pk("user", true)
	return in
}

// itemInput reads the writable item fields
func itemInput(p *payload) services.ItemInput {
	return services.ItemInput{
		Product:   p.char("product", charField{required: true, trim: true, rules: "max=200"}).Value,
		Quantity:  p.integer("quantity", intField{allowNull: true, rules: "min=1,max=2147483647"}),
		Unit:      p.choice("unit", choiceField{allowNull: true, allowBlank: true, rule: "itemunit"}),
		Category:  p.choice("category", choiceField{required: true, rule: "itemcategory"}).Value,
		Note:      p.char("note", charField{allowNull: true, allowBlank: true, trim: true}),
		Completed: p.boolean("completed"),
	}
}

// email reads an address field
func (p *payload) email(name string) string {
	if s := p.text(name, "email,max=254"); s != nil {
		return *s
	}
	return ""
}

// password reads a password field, kept as typed
func (p *payload) password(name string) string {
	if s := p.char(name, charField{required: true, rules: "max=128"}).Value; s != nil {
		return *s
	}
	return ""
}
