// Package validation wraps go-playground/validator with the custom rules and
// Japanese messages shared by the API and the web forms.
package validation

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/ttacon/libphonenumber"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
)

// PhoneRegion is the default region used to interpret national numbers.
const PhoneRegion = "JP"

var (
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern  = regexp.MustCompile(`^\d{2}:\d{2}$`)
	phonePattern = regexp.MustCompile(`^[\d\-+() ]+$`)
	digitsOnly   = regexp.MustCompile(`^[\d\-]+$`)
)

var markupPolicy = bluemonday.StrictPolicy()

var (
	once     sync.Once
	instance *validator.Validate
	// Now is the clock used by the notfuture rule.
	Now = time.Now
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		mustRegister(v, "datefmt", isDate)
		mustRegister(v, "notfuture", isPastOrToday)
		mustRegister(v, "hhmm", isTime)
		mustRegister(v, "phone", isPhone)
		mustRegister(v, "notblank", isNotBlank)
		mustRegister(v, "nomarkup", isPlainText)
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

func isDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

// isPastOrToday lets malformed dates through; datefmt reports those.
func isPastOrToday(fl validator.FieldLevel) bool {
	d, err := time.Parse(models.DateLayout, fl.Field().String())
	if err != nil {
		return true
	}
	return !IsFutureDate(d)
}

func isTime(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !timePattern.MatchString(s) {
		return false
	}
	_, err := models.ParseVisitTime(s)
	return err == nil
}

// isPhone accepts digits, hyphens, plus, parentheses and spaces. Numbers
// made of digits and hyphens only must also parse as a JP number.
func isPhone(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	if !phonePattern.MatchString(s) {
		return false
	}
	if !digitsOnly.MatchString(s) {
		return true
	}
	_, err := libphonenumber.Parse(s, PhoneRegion)
	return err == nil
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// isPlainText rejects text that the strict policy would strip, such as tags
// or a "<" directly followed by a letter. Entities and a bare "<" are plain
// text and compare equal once unescaped.
func isPlainText(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !strings.Contains(s, "<") {
		return true
	}
	return html.UnescapeString(markupPolicy.Sanitize(s)) == html.UnescapeString(s)
}

// IsFutureDate reports whether d falls after today in local time.
func IsFutureDate(d time.Time) bool {
	now := Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return day.After(today)
}

// Struct validates s and converts failures into field details.
// It returns nil when s is valid.
func Struct(s interface{}) []dto.ErrorDetail {
	return details(s, Validator().Struct(s))
}

// StructPartial validates only the named fields of s.
func StructPartial(s interface{}, fields ...string) []dto.ErrorDetail {
	return details(s, Validator().StructPartial(s, fields...))
}

func details(s interface{}, err error) []dto.ErrorDetail {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []dto.ErrorDetail{{Field: "", Message: err.Error()}}
	}
	root := reflect.TypeOf(s)
	out := make([]dto.ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, dto.ErrorDetail{
			Field:   fieldPath(fe),
			Message: Message(fe.Tag(), fe.Param(), labelFor(root, fe.StructNamespace())),
		})
	}
	return out
}

// fieldPath strips the root struct name: "ReportRequest.visit_records[0].visited_at"
// becomes "visit_records[0].visited_at".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// labelFor walks a struct namespace such as "ReportRequest.VisitRecords[0].VisitedAt"
// down from root and returns the label tag of the last field.
func labelFor(root reflect.Type, structNS string) string {
	parts := strings.Split(structNS, ".")
	if len(parts) < 2 {
		return ""
	}
	t := root
	var label string
	for _, part := range parts[1:] {
		if i := strings.Index(part, "["); i >= 0 {
			part = part[:i]
		}
		t = elem(t)
		if t.Kind() != reflect.Struct {
			return ""
		}
		f, ok := t.FieldByName(part)
		if !ok {
			return ""
		}
		label = f.Tag.Get("label")
		t = f.Type
	}
	return label
}

func elem(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	return t
}

// Message renders the Japanese message for a failed rule.
func Message(tag, param, label string) string {
	switch tag {
	case "required", "notblank":
		if label == "" {
			return "入力してください"
		}
		return label + "を入力してください"
	case "max":
		return param + "文字以内で入力してください"
	case "email":
		return "メール形式で入力してください"
	case "datefmt":
		return "日付形式で入力してください"
	case "notfuture":
		if label == "" {
			return "未来の日付は指定できません"
		}
		return label + "に未来の日付は指定できません"
	case "hhmm":
		return "時刻形式（HH:mm）で入力してください"
	case "phone":
		return "電話番号の形式で入力してください"
	case "oneof":
		return "無効な値です"
	case "nomarkup":
		return "HTMLタグは入力できません"
	}
	return "入力内容に誤りがあります"
}
