package service

import (
	"reflect"
	"strings"
	"sync"

	perr "starpass/internal/platform/errors"
	"starpass/internal/services/shifts/domain"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// validatorSvc holds the singleton validator and translator
type validatorSvc struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

// getValidator returns the validator singleton, initializing on first use
func getValidator() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// prefer json tag names in messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		vSvc = &validatorSvc{validate: v, translator: trans}
	})
	return vSvc
}

// Validate runs the fail-closed schema gate over the whole payload. The
// first violation rejects the entire payload; no partially-valid payload is
// ever uploaded
func Validate(payload *domain.GroupedPayload) domain.ValidationResult {
	res := domain.ValidationResult{Data: payload}

	if payload == nil || payload.Len() == 0 {
		res.Err = perr.Validationf("payload has no shift groups")
		return res
	}

	svc := getValidator()
	for _, needID := range payload.NeedIDs() {
		if strings.TrimSpace(needID) == "" {
			res.Err = perr.WithField(perr.Validationf("group key is blank"), "need_id")
			return res
		}
		env, _ := payload.Group(needID)
		if err := svc.validate.Struct(env); err != nil {
			field, msg := fieldAndMessage(err)
			res.Err = perr.WithField(perr.Validationf("need %s: %s", needID, msg), field)
			return res
		}
	}

	res.Valid = true
	return res
}

// fieldAndMessage returns the first field and translated message
func fieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		return "", inv.Error()
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			return fe.Field(), fe.Translate(getValidator().translator)
		}
	}
	return "", err.Error()
}
