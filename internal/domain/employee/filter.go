package employee

import (
	"fmt"
	"strconv"
	"strings"
)

type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterSex
	FilterNationalID
	FilterName
	FilterCategory
	FilterSalary
	FilterSeniority
)

// Filter narrows a listing of active employees. The zero value matches everything.
type Filter struct {
	Kind   FilterKind
	Text   string
	Number float64
}

type filterParser func(value string) (Filter, error)

var filterParsers = map[string]filterParser{
	"sex":            textFilter(FilterSex),
	"sexo":           textFilter(FilterSex),
	"nationalId":     textFilter(FilterNationalID),
	"dni":            textFilter(FilterNationalID),
	"name":           textFilter(FilterName),
	"nombre":         textFilter(FilterName),
	"category":       parseCategoryFilter,
	"categoria":      parseCategoryFilter,
	"salary":         parseSalaryFilter,
	"salario":        parseSalaryFilter,
	"seniorityYears": parseSeniorityFilter,
	"anyos":          parseSeniorityFilter,
}

// ParseFilter maps a (field, value) pair from a listing request to a Filter.
// An empty field or value, or an unknown field, yields the match-all filter.
func ParseFilter(field, value string) (Filter, error) {
	if field == "" || value == "" {
		return Filter{}, nil
	}
	parse, ok := filterParsers[field]
	if !ok {
		return Filter{}, nil
	}
	return parse(value)
}

func textFilter(kind FilterKind) filterParser {
	return func(value string) (Filter, error) {
		return Filter{Kind: kind, Text: value}, nil
	}
}

func parseCategoryFilter(value string) (Filter, error) {
	category, err := strconv.Atoi(decimalPoint(value))
	if err != nil {
		return Filter{}, fmt.Errorf("%w: category %q: %w", ErrInvalidFilter, value, err)
	}
	return Filter{Kind: FilterCategory, Number: float64(category)}, nil
}

func parseSalaryFilter(value string) (Filter, error) {
	salary, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: salary %q: %w", ErrInvalidFilter, value, err)
	}
	return Filter{Kind: FilterSalary, Number: salary}, nil
}

func parseSeniorityFilter(value string) (Filter, error) {
	years, err := strconv.ParseFloat(decimalPoint(value), 64)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: seniority years %q: %w", ErrInvalidFilter, value, err)
	}
	return Filter{Kind: FilterSeniority, Number: years}, nil
}

func decimalPoint(value string) string {
	return strings.ReplaceAll(value, ",", ".")
}

// Matches reports whether emp satisfies f. Status is not considered.
func (f Filter) Matches(emp Employee) bool {
	switch f.Kind {
	case FilterSex:
		return emp.Sex == f.Text
	case FilterNationalID:
		return containsFold(emp.NationalID, f.Text)
	case FilterName:
		return containsFold(emp.Name, f.Text)
	case FilterCategory:
		return float64(emp.Category) == f.Number
	case FilterSalary:
		return emp.Salary != nil && *emp.Salary == f.Number
	case FilterSeniority:
		return emp.SeniorityYears == f.Number
	default:
		return true
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// clause renders f as a SQL condition using placeholder $pos. ok is false for
// the match-all filter.
func (f Filter) clause(pos int) (cond string, arg any, ok bool) {
	placeholder := "$" + strconv.Itoa(pos)
	switch f.Kind {
	case FilterSex:
		return "e.sex = " + placeholder, f.Text, true
	case FilterNationalID:
		return "strpos(lower(e.national_id), lower(" + placeholder + ")) > 0", f.Text, true
	case FilterName:
		return "strpos(lower(e.name), lower(" + placeholder + ")) > 0", f.Text, true
	case FilterCategory:
		return "e.category = " + placeholder, int(f.Number), true
	case FilterSalary:
		return "p.salary = " + placeholder, f.Number, true
	case FilterSeniority:
		return "e.seniority_years = " + placeholder, f.Number, true
	default:
		return "", nil, false
	}
}
