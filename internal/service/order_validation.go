package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"petonrent-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

type orderValidator struct {
	v *validator.Validate
}

func newOrderValidator() *orderValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(domain.Date); ok {
			return d.Time
		}
		return nil
	}, domain.Date{})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return &orderValidator{v: v}
}

// Validate checks the whole checkout submission and reports every failure at once.
// It returns nil when the input is acceptable.
func (ov *orderValidator) Validate(in *PlaceOrderInput) *domain.ValidationError {
	verr := &domain.ValidationError{}

	ov.collect(verr, "userInfo.", in.ContactInfo)

	if len(in.Items) == 0 {
		verr.Add("items", "must contain at least one item")
	}
	for i, item := range in.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		ov.collect(verr, prefix, item)

		switch {
		case item.PetID == "" && item.ProductID == "":
			verr.Add(prefix+"petId", "one of petId or productId is required")
		case item.PetID != "" && item.ProductID != "":
			verr.Add(prefix+"petId", "only one of petId or productId may be set")
		}
		if !item.FromDate.IsZero() && !item.ToDate.IsZero() && item.ToDate.Before(item.FromDate.Time) {
			verr.Add(prefix+"toDate", "must not be before fromDate")
		}
		if item.Kind == domain.ItemKindRent && item.RentalDays < 1 {
			verr.Add(prefix+"days", "must be at least 1 for rentals")
		}
	}

	if in.PaymentMethod != domain.PaymentMethodCOD && in.PaymentMethod != domain.PaymentMethodOnline {
		verr.Add("paymentMethod", "must be COD or Online")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (ov *orderValidator) collect(verr *domain.ValidationError, prefix string, s any) {
	err := ov.v.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add(strings.TrimSuffix(prefix, "."), err.Error())
		return
	}
	for _, fe := range fieldErrs {
		verr.Add(prefix+fe.Field(), fieldMessage(fe))
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "phone10":
		return "must be a 10 digit number"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// normalizeInput trims free-text fields so whitespace-only values fail the required checks
func normalizeInput(in *PlaceOrderInput) {
	in.ContactInfo.Name = strings.TrimSpace(in.ContactInfo.Name)
	in.ContactInfo.Phone = strings.TrimSpace(in.ContactInfo.Phone)
	in.ContactInfo.Email = strings.TrimSpace(in.ContactInfo.Email)
	in.ContactInfo.Address = strings.TrimSpace(in.ContactInfo.Address)
	in.CouponCode = strings.TrimSpace(in.CouponCode)
	for i := range in.Items {
		in.Items[i].Name = strings.TrimSpace(in.Items[i].Name)
		in.Items[i].PetID = strings.TrimSpace(in.Items[i].PetID)
		in.Items[i].ProductID = strings.TrimSpace(in.Items[i].ProductID)
	}
}
