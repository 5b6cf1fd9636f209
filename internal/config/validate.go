package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/learnify/internal/coaching"
	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/taxonomy"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		registerCustomValidators(validate)
	})
	return validate
}

func registerCustomValidators(v *validator.Validate) {
	v.RegisterValidation("language", validateLanguage)
	v.RegisterValidation("audience", validateAudience)
	v.RegisterValidation("weights", validateWeights)

	// Report fields by the variable that sets them.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
}

func validateLanguage(fl validator.FieldLevel) bool {
	_, err := pipeline.ParseLanguage(fl.Field().String())
	return err == nil
}

func validateAudience(fl validator.FieldLevel) bool {
	_, err := coaching.ParseAudience(fl.Field().String())
	return err == nil
}

// validateWeights accepts any non-negative vector with entries at most 1 and
// only known levels; the sum is normalized later.
func validateWeights(fl validator.FieldLevel) bool {
	w, ok := fl.Field().Interface().(taxonomy.Weights)
	if !ok {
		return false
	}
	for l, v := range w {
		if !l.Valid() || v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Validate checks every setting and the selected LLM provider.
func (c Config) Validate() error {
	if err := structValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: invalid value %v (%s)", fe.Field(), fe.Value(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// ValidateLLM checks that the selected provider has credentials.
func (c Config) ValidateLLM() error {
	return c.LLM.Validate()
}
