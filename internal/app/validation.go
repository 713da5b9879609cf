package app

import (
	"errors"
	"reflect"
	"strings"

	"exam-portal/internal/domain"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	branchTag  = "branch"
	branchText = "{0} must be one of CE, IT, ME, EE, EC, CIVIL"

	singleCorrectTag  = "single_correct"
	singleCorrectText = "{0} must have exactly one correct option"

	uniqueIDsTag  = "unique_ids"
	uniqueIDsText = "{0} contain duplicate ids"
)

func init() {
	validate = validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON names so messages match the request payload.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(branchTag, func(fl validator.FieldLevel) bool {
		return domain.Branch(fl.Field().String()).Valid()
	})
	registerTranslation(branchTag, branchText)

	validate.RegisterStructValidation(newQuestionStructValidation, domain.NewQuestion{})
	validate.RegisterStructValidation(newTestStructValidation, domain.NewTest{})
	registerTranslation(singleCorrectTag, singleCorrectText)
	registerTranslation(uniqueIDsTag, uniqueIDsText)
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// newQuestionStructValidation enforces one correct option and unique option ids per question.
func newQuestionStructValidation(sl validator.StructLevel) {
	q, ok := sl.Current().Interface().(domain.NewQuestion)
	if !ok || len(q.Options) == 0 {
		return
	}
	correct := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		sl.ReportError(q.Options, "options", "Options", singleCorrectTag, "")
	}

	ids := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		ids = append(ids, opt.ID)
	}
	if hasDuplicates(ids) {
		sl.ReportError(q.Options, "options", "Options", uniqueIDsTag, "")
	}
}

func newTestStructValidation(sl validator.StructLevel) {
	t, ok := sl.Current().Interface().(domain.NewTest)
	if !ok {
		return
	}
	ids := make([]string, 0, len(t.Questions))
	for _, q := range t.Questions {
		ids = append(ids, q.ID)
	}
	if hasDuplicates(ids) {
		sl.ReportError(t.Questions, "questions", "Questions", uniqueIDsTag, "")
	}
}

// hasDuplicates ignores empty ids; those are generated later.
func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

// validateStruct runs the validator and converts failures into a *domain.ValidationError.
func validateStruct(message string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fieldPath(fe),
			Message: fe.Translate(translator),
		})
	}
	return domain.NewValidationError(message, fields...)
}

// fieldPath strips the root struct name, e.g. "NewTest.questions[0].text" -> "questions[0].text".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
