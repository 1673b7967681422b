package dto

import (
	"reflect"
	"strings"

	"marketplace-core/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("delivery_status", validateDeliveryStatus)
	}
}

// validateDeliveryStatus accepts exactly the four delivery status values.
func validateDeliveryStatus(fl validator.FieldLevel) bool {
	return domain.DeliveryStatus(fl.Field().String()).IsValid()
}

// TrimStruct trims surrounding whitespace from every exported string field
// (including *string) of a struct pointer. Values are otherwise kept as typed:
// they are matched against stored text, and JSON and CSV encoding escape
// them on the way out.
func TrimStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	trimFields(rv.Elem())
}

func trimFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(strings.TrimSpace(elem.String()))
			}
		}
	}
}
