// Package schema checks survey definitions for structural problems.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/riskscore/internal/scoring"
	"github.com/dshills/riskscore/internal/survey"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a survey definition: required fields, known element types,
// unique question names, and choices on selectable questions.
func Validate(s *survey.Survey) []ValidationError {
	var errs []ValidationError

	errs = append(errs, structErrors("", s)...)

	seen := make(map[string]string)
	pageNames := make(map[string]bool)
	for i, p := range s.Pages {
		prefix := fmt.Sprintf("pages[%d]", i)
		errs = append(errs, structErrors(prefix, p)...)
		if p.Name != "" {
			if pageNames[p.Name] {
				errs = append(errs, ValidationError{prefix + ".name", fmt.Sprintf("duplicate page name: %q", p.Name)})
			}
			pageNames[p.Name] = true
		}
		if len(p.Elements) == 0 {
			errs = append(errs, ValidationError{prefix + ".elements", "page has no elements"})
		}
		errs = append(errs, validateElements(prefix, p.Elements, seen)...)
	}

	return errs
}

func validateElements(prefix string, elements []survey.Element, seen map[string]string) []ValidationError {
	var errs []ValidationError
	for i, el := range elements {
		path := fmt.Sprintf("%s.elements[%d]", prefix, i)
		errs = append(errs, structErrors(path, el)...)

		if el.Type != "" && !el.Type.Valid() {
			errs = append(errs, ValidationError{path + ".type", fmt.Sprintf("invalid: %q", el.Type)})
		}
		if el.Name != "" {
			if first, dup := seen[el.Name]; dup {
				errs = append(errs, ValidationError{path + ".name", fmt.Sprintf("duplicate name %q (first at %s)", el.Name, first)})
			} else {
				seen[el.Name] = path
			}
		}

		switch {
		case el.Type == survey.TypePanel:
			if len(el.Elements) == 0 {
				errs = append(errs, ValidationError{path + ".elements", "panel has no elements"})
			}
			if len(el.Choices) > 0 {
				errs = append(errs, ValidationError{path + ".choices", "panels cannot have choices"})
			}
			errs = append(errs, validateElements(path, el.Elements, seen)...)
		case el.Type.Selectable():
			if len(el.Choices) == 0 {
				errs = append(errs, ValidationError{path + ".choices", "at least one choice required"})
			}
			errs = append(errs, validateChoices(path, el.Choices)...)
		default:
			if len(el.Elements) > 0 {
				errs = append(errs, ValidationError{path + ".elements", "only panels can nest elements"})
			}
		}
	}
	return errs
}

func validateChoices(prefix string, choices []survey.Choice) []ValidationError {
	var errs []ValidationError
	for j, c := range choices {
		if c.Value.IsEmpty() {
			errs = append(errs, ValidationError{fmt.Sprintf("%s.choices[%d].value", prefix, j), "required"})
		}
	}
	for j := range choices {
		for k := 0; k < j; k++ {
			if choices[j].Value.Equal(choices[k].Value) {
				errs = append(errs, ValidationError{fmt.Sprintf("%s.choices[%d].value", prefix, j), fmt.Sprintf("duplicate of choices[%d]", k)})
				break
			}
		}
	}
	return errs
}

// structErrors runs tag validation on a single level of the definition.
// Nested slices are walked by the callers so paths stay precise.
func structErrors(prefix string, v any) []ValidationError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Path: prefix, Message: err.Error()}}
	}
	var errs []ValidationError
	for _, fe := range fieldErrs {
		if strings.Count(fe.Namespace(), ".") > 1 {
			continue
		}
		path := strings.ToLower(fe.Field())
		if prefix != "" {
			path = prefix + "." + path
		}
		errs = append(errs, ValidationError{path, describeTag(fe)})
	}
	return errs
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("at least %s entries required", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}

// Summary counts scored questions per category, for reporting after validation.
type Summary struct {
	Questions     int
	RawRisk       int
	Mitigation    int
	Unscored      int
	RawMax        float64
	MitigationMax float64
}

// Summarize classifies every question of a survey.
func Summarize(s *survey.Survey) Summary {
	var sum Summary
	for _, q := range s.Questions() {
		sum.Questions++
		if !scoring.HasScore(q) {
			sum.Unscored++
			continue
		}
		switch scoring.Classify(q) {
		case scoring.CategoryRawRisk:
			sum.RawRisk++
			sum.RawMax += scoring.MaxScore(q)
		case scoring.CategoryMitigation:
			sum.Mitigation++
			sum.MitigationMax += scoring.MaxScore(q)
		}
	}
	return sum
}
