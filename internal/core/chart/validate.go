package chart

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	perr "covtrend/internal/platform/errors"

	"github.com/go-playground/validator/v10"
)

// Parameter keys accepted by Validate, the schema is closed
const (
	KeyOwner       = "owner_username"
	KeyService     = "service"
	KeyRepos       = "repositories"
	KeyBranch      = "branch"
	KeyStart       = "start_date"
	KeyEnd         = "end_date"
	KeyGrouping    = "grouping_unit"
	KeyAggFunction = "agg_function"
	KeyAggValue    = "agg_value"
	KeyOrdering    = "coverage_timestamp_ordering"
)

var schema = map[string]struct{}{
	KeyOwner: {}, KeyService: {}, KeyRepos: {}, KeyBranch: {}, KeyStart: {},
	KeyEnd: {}, KeyGrouping: {}, KeyAggFunction: {}, KeyAggValue: {}, KeyOrdering: {},
}

// string keys checked through the validator, the rest are decoded by hand
var (
	rulesOnce    sync.Once
	rules        map[string]string
	mapValidator *validator.Validate
)

func stringRules() (*validator.Validate, map[string]string) {
	rulesOnce.Do(func() {
		mapValidator = validator.New(validator.WithRequiredStructEnabled())
		rules = map[string]string{
			KeyOwner:       "required,max=255",
			KeyService:     "omitempty,oneof=" + serviceValues(),
			KeyBranch:      "omitempty,max=255",
			KeyGrouping:    "required,oneof=" + enumValues(unitNames),
			KeyAggFunction: "omitempty,oneof=" + enumValues(funcNames),
			KeyAggValue:    "omitempty,oneof=" + enumValues(metricNames),
			KeyOrdering:    "omitempty,oneof=" + enumValues(orderingNames),
		}
	})
	return mapValidator, rules
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

const dateOnly = "2006-01-02"

// fieldErrors collects messages per key
type fieldErrors map[string][]string

func (f fieldErrors) add(key, format string, a ...any) {
	f[key] = append(f[key], fmt.Sprintf(format, a...))
}

// Validate checks raw against the closed parameter schema and normalizes it
// every offending key is reported, validation never stops at the first failure
func Validate(raw map[string]any) (Params, error) { return ValidateAt(raw, time.Now()) }

// ValidateAt is Validate with now standing in for an absent end_date
func ValidateAt(raw map[string]any, now time.Time) (Params, error) {
	errs := fieldErrors{}
	val, rs := stringRules()

	for k := range raw {
		if _, ok := schema[k]; !ok {
			errs.add(k, "unknown field")
		}
	}

	unit := lowerString(raw[KeyGrouping])
	timeGrouped := unit != "" && unit != UnitCommit.String()
	commitGrouped := unit == UnitCommit.String()

	// strings: type check first, oneof panics on non string kinds
	strs := map[string]string{}
	data := map[string]any{}
	ruleSet := map[string]any{}
	for key, rule := range rs {
		if commitGrouped && (key == KeyAggFunction || key == KeyAggValue) {
			continue
		}
		rv, present := raw[key]
		if !present || rv == nil {
			if strings.HasPrefix(rule, "required") {
				errs.add(key, "required field")
			}
			continue
		}
		s, ok := rv.(string)
		if !ok {
			errs.add(key, "must be of string type")
			continue
		}
		s = strings.TrimSpace(s)
		if key != KeyOwner && key != KeyBranch {
			s = strings.ToLower(s)
		}
		strs[key] = s
		data[key] = s
		ruleSet[key] = rule
	}
	for key, e := range val.ValidateMap(data, ruleSet) {
		err, _ := e.(error)
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			errs.add(key, "invalid value")
			continue
		}
		for _, fe := range ves {
			errs.add(key, "%s", ruleMessage(fe, strs[key]))
		}
	}

	// grouping by time needs both aggregation fields, reported once on the grouping key
	if timeGrouped && (absent(raw[KeyAggFunction]) || absent(raw[KeyAggValue])) {
		errs.add(KeyGrouping, "%s and %s are required when grouping by %s", KeyAggFunction, KeyAggValue, unit)
	}

	names, ok := stringList(raw[KeyRepos])
	if !ok {
		errs.add(KeyRepos, "must be a list of strings")
	}

	start, startErr := parseDate(raw[KeyStart], false)
	if startErr != "" {
		errs.add(KeyStart, "%s", startErr)
	}
	end, endErr := parseDate(raw[KeyEnd], true)
	if endErr != "" {
		errs.add(KeyEnd, "%s", endErr)
	}
	switch {
	case start != nil && end != nil && start.After(*end):
		errs.add(KeyStart, "must not be after %s", KeyEnd)
	case start != nil && end == nil && endErr == "" && start.After(now.UTC()):
		errs.add(KeyStart, "must not be after %s", KeyEnd)
	}

	if len(errs) > 0 {
		for k := range errs {
			sort.Strings(errs[k])
		}
		return Params{}, perr.Validation(errs)
	}

	p := Params{
		Owner:           strs[KeyOwner],
		Service:         DefaultService,
		RepositoryNames: names,
		Branch:          strs[KeyBranch],
		Start:           start,
		End:             end,
		Ordering:        Increasing,
	}
	if s, ok := strs[KeyService]; ok && s != "" {
		p.Service, _ = NormalizeService(s)
	}
	p.Unit, _ = ParseGroupingUnit(strs[KeyGrouping])
	if p.Unit != UnitCommit {
		p.Function, _ = ParseAggFunction(strs[KeyAggFunction])
		p.Metric, _ = ParseAggMetric(strs[KeyAggValue])
	}
	if o, ok := ParseOrdering(strs[KeyOrdering]); ok {
		p.Ordering = o
	}
	return p, nil
}

func ruleMessage(fe validator.FieldError, value string) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "oneof":
		return fmt.Sprintf("unallowed value %s", value)
	case "max":
		return fmt.Sprintf("max length is %s", fe.Param())
	}
	return fmt.Sprintf("failed %s rule", fe.Tag())
}

func absent(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func lowerString(v any) string {
	s, _ := v.(string)
	return strings.ToLower(strings.TrimSpace(s))
}

// stringList accepts nil, []string or []any of strings; names are trimmed and deduplicated
func stringList(v any) ([]string, bool) {
	var in []string
	switch t := v.(type) {
	case nil:
		return nil, true
	case []string:
		in = t
	case []any:
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			in = append(in, s)
		}
	default:
		return nil, false
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, true
}

// parseDate accepts time.Time, RFC 3339 or a bare date
// a bare end date covers the whole day
func parseDate(v any, endOfDay bool) (*time.Time, string) {
	switch t := v.(type) {
	case nil:
		return nil, ""
	case time.Time:
		u := t.UTC()
		return &u, ""
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, ""
		}
		for _, layout := range dateLayouts {
			ts, err := time.Parse(layout, s)
			if err != nil {
				continue
			}
			ts = ts.UTC()
			if layout == dateOnly && endOfDay {
				ts = ts.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}
			return &ts, ""
		}
		return nil, fmt.Sprintf("invalid date %q, want RFC 3339 or YYYY-MM-DD", s)
	}
	return nil, "must be a date string"
}
