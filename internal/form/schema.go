// Package form declares the editable field set of each entity and turns
// validation failures into per-field messages.
package form

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"campusmarket/internal/model"
)

// FieldType tells the rendering layer which input to draw.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeTextarea FieldType = "textarea"
	TypeSelect   FieldType = "select"
	TypeInteger  FieldType = "integer"
	TypeFile     FieldType = "file"
)

// Field describes one input of a form.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Options  []string  `json:"options,omitempty"`
	Default  string    `json:"default,omitempty"`
	Required bool      `json:"required"`
}

// Schema is the static field table of one entity form.
type Schema struct {
	Name   string
	Fields []Field
}

// FieldView is a Field with the value the form currently holds.
type FieldView struct {
	Field
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
}

// View is a form ready for rendering.
type View struct {
	Name      string      `json:"name"`
	Fields    []FieldView `json:"fields"`
	Deletable bool        `json:"deletable"`
}

// ListingSchema is the add/edit form of a listing.
var ListingSchema = Schema{
	Name: "listing",
	Fields: []Field{
		{Name: "Name", Label: "Name", Type: TypeText, Required: true},
		{Name: "Condition", Label: "Condition", Type: TypeSelect, Options: model.Conditions, Default: model.Conditions[0], Required: true},
		{Name: "Category", Label: "Category", Type: TypeSelect, Options: model.Categories, Default: "Other", Required: true},
		{Name: "Price", Label: "Price", Type: TypeInteger, Default: "0", Required: true},
		{Name: "Image", Label: "Image", Type: TypeFile},
		{Name: "Description", Label: "Description", Type: TypeTextarea},
	},
}

// AccountInfoSchema is the edit form over a whole account info row.
var AccountInfoSchema = Schema{
	Name: "account_info",
	Fields: []Field{
		{Name: "Phone", Label: "Phone", Type: TypeText, Default: model.DefaultPhone},
		{Name: "Payment", Label: "Payment", Type: TypeSelect, Options: model.PaymentMethods, Default: model.DefaultPayment, Required: true},
		{Name: "College", Label: "College", Type: TypeSelect, Options: model.Colleges, Default: model.DefaultCollege, Required: true},
		{Name: "Address", Label: "Address", Type: TypeText},
	},
}

// ContactSchema is the save-account-info form.
var ContactSchema = Schema{
	Name: "contact",
	Fields: []Field{
		{Name: "Address", Label: "Address", Type: TypeText},
		{Name: "Phone", Label: "Phone", Type: TypeText, Default: model.DefaultPhone},
		{Name: "College", Label: "College", Type: TypeSelect, Options: model.Colleges, Default: model.DefaultCollege, Required: true},
	},
}

// Render returns the form filled with values; fields missing from values get
// their default. File inputs never echo a value back.
func (s Schema) Render(values map[string]string) View {
	v := View{Name: s.Name, Fields: make([]FieldView, 0, len(s.Fields))}
	for _, f := range s.Fields {
		fv := FieldView{Field: f, Value: f.Default}
		if val, ok := values[f.Name]; ok {
			fv.Value = val
		}
		if f.Type == TypeFile {
			fv.Value = ""
		}
		v.Fields = append(v.Fields, fv)
	}
	return v
}

// RenderWithErrors renders values and attaches errs to their fields.
func (s Schema) RenderWithErrors(values, errs map[string]string) View {
	v := s.Render(values)
	for i := range v.Fields {
		v.Fields[i].Error = errs[v.Fields[i].Name]
	}
	return v
}

// Errors converts a validator failure into field -> message pairs keyed by
// schema field name. Errors that are not validation failures yield nil.
func (s Schema) Errors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = s.message(fe)
	}
	return out
}

func (s Schema) message(fe validator.FieldError) string {
	label := fe.Field()
	for _, f := range s.Fields {
		if f.Name == fe.Field() {
			label = f.Label
			break
		}
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min", "max", "gte", "lte":
		return fmt.Sprintf("%s must be between %d and %d", label, model.MinPrice, model.MaxPrice)
	case tagCondition, tagCategory, tagPayment, tagCollege:
		return label + " must be one of the listed options"
	default:
		return label + " is invalid"
	}
}
