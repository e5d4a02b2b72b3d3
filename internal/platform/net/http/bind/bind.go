// Package bind decodes request bodies and reports every struct validation failure
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"

	perr "covtrend/internal/platform/errors"
	"covtrend/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Checker pairs the shared validator with its english translator
type Checker struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once     sync.Once
	checker  *Checker
	jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam
)

// Shared returns the process wide checker, messages use json tag names
func Shared() *Checker {
	once.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		for tag, text := range shortMessages {
			short(v, trans, tag, text)
		}
		checker = &Checker{Validator: v, Translator: trans}
	})
	return checker
}

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64 // 0 means unlimited
	DisallowUnknown bool
	AllowEmptyBody  bool
}

var defaultOptions = JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}

// ParseJSON decodes a body into T and validates struct targets
// an empty body is only accepted for safe methods or with AllowEmptyBody
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaultOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	peek := make([]byte, 1)
	n, _ := io.ReadFull(r.Body, peek)
	if n == 0 && !o.AllowEmptyBody {
		switch r.Method {
		case http.MethodGet, http.MethodDelete, http.MethodHead, http.MethodOptions:
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}
	if n == 0 {
		return zero, nil
	}
	var body io.Reader = io.MultiReader(bytes.NewReader(peek[:n]), r.Body)
	if o.MaxBytes > 0 {
		body = io.LimitReader(body, o.MaxBytes)
	}

	dec := json.NewDecoder(body)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}
	var dst T
	if err := dec.Decode(&dst); err != nil {
		if errors.Is(err, io.EOF) && o.AllowEmptyBody {
			return zero, nil
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if t := reflect.TypeOf(dst); t == nil || t.Kind() != reflect.Struct {
		return dst, nil
	}
	if err := Shared().Validator.Struct(dst); err != nil {
		fields := Fields(err)
		if len(fields) == 0 {
			logger.Get().Error().Err(err).Msg("validator internal error")
			return zero, perr.JSONErrf("validation error")
		}
		return zero, perr.WithField(perr.Validation(fields), firstKey(fields))
	}
	return dst, nil
}

// Fields translates every failed rule keyed by field name
// nil when err carries no field failures
func Fields(err error) map[string][]string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return nil
	}
	out := make(map[string][]string, len(ves))
	for _, fe := range ves {
		out[fe.Field()] = append(out[fe.Field()], fe.Translate(Shared().Translator))
	}
	return out
}

func firstKey(m map[string][]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

var shortMessages = map[string]string{
	"min": "{0} must be at least {1}",
	"max": "{0} must be at most {1}",
}

func short(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
