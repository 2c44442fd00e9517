package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"net/url"
	"reflect"
	"strings"
	"time"

	"GophVault/internal/apperr"
)

const (
	msgExpectedString = "Expected string, received null"
	msgInvalidURL     = "Invalid url"
	msgInvalidEmail   = "Invalid email"
	msgInvalidDate    = "Invalid datetime"
	msgKeyPair        = "encryptionKey and iv must be provided together"
)

func required(is *apperr.Issues, path, v, msg string) {
	if strings.TrimSpace(v) == "" {
		is.Add(path, msg)
	}
}

// requiredPatch — непустая строка, null запрещён.
func requiredPatch(is *apperr.Issues, path string, o Optional[string], msg string) {
	if !o.Set {
		return
	}
	if o.Null {
		is.Add(path, msgExpectedString)
		return
	}
	required(is, path, o.Value, msg)
}

// notNull — поле можно не передавать, но нельзя обнулять.
func notNull[T any](is *apperr.Issues, path string, o Optional[T]) {
	if o.Set && o.Null {
		is.Add(path, msgExpectedString)
	}
}

func oneOf[T ~string](is *apperr.Issues, path string, v T, allowed []T) {
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		quoted[i] = "'" + string(a) + "'"
	}
	is.Add(path, fmt.Sprintf("Invalid enum value. Expected %s, received '%s'", strings.Join(quoted, " | "), v))
}

func optOneOf[T ~string](is *apperr.Issues, path string, o Optional[T], allowed []T) {
	notNull(is, path, o)
	if o.Present() {
		oneOf(is, path, o.Value, allowed)
	}
}

func isURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func checkURL(is *apperr.Issues, path string, s *string) {
	if s != nil && *s != "" && !isURL(*s) {
		is.Add(path, msgInvalidURL)
	}
}

func checkEmail(is *apperr.Issues, path string, s *string) {
	if s == nil || *s == "" {
		return
	}
	addr, err := mail.ParseAddress(*s)
	if err != nil || addr.Address != *s {
		is.Add(path, msgInvalidEmail)
	}
}

func checkTime(is *apperr.Issues, path string, s *string) {
	if s == nil || *s == "" {
		return
	}
	if _, err := time.Parse(time.RFC3339, *s); err != nil {
		is.Add(path, msgInvalidDate)
	}
}

// checkKeyPair — ключ и IV передаются вместе либо не передаются вовсе.
// Если оба отсутствуют, значение шифрует сервер.
func checkKeyPair(is *apperr.Issues, key, iv *string) {
	hasKey := key != nil && *key != ""
	hasIV := iv != nil && *iv != ""
	switch {
	case hasKey && !hasIV:
		is.Add("iv", msgKeyPair)
	case !hasKey && hasIV:
		is.Add("encryptionKey", msgKeyPair)
	}
}

// ptr возвращает указатель на значение Optional либо nil.
func ptr[T any](o Optional[T]) *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// nonEmpty приводит пустую строку к nil.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// ParseTime разбирает необязательную дату RFC 3339. Формат проверяется в Validate.
func ParseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// setColumn кладёт в patch значение поля, если оно передано. null -> NULL.
func setColumn[T any](patch map[string]any, col string, o Optional[T]) {
	if !o.Set {
		return
	}
	if o.Null {
		patch[col] = nil
		return
	}
	patch[col] = o.Value
}

// Decode читает JSON тела запроса в dst. Ошибки формата превращаются
// в ошибку валидации: все поля с неверным типом, затем проблемы из
// Validate для остальных полей.
func Decode(r io.Reader, dst any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	var issues apperr.Issues
	if len(bytes.TrimSpace(body)) == 0 {
		issues.Add("", "Request body is empty")
		return apperr.Validation(issues)
	}
	err = json.Unmarshal(body, dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		issues.Add("", "Invalid JSON: "+err.Error())
		return apperr.Validation(issues)
	}
	issues, ok := fieldIssues(body, reflect.TypeOf(dst).Elem())
	if !ok {
		issues.Add(typeErr.Field, typeMessage(typeErr))
	}
	return apperr.Validation(issues)
}

type validator interface {
	Validate() apperr.Issues
}

type normalizer interface {
	Normalize()
}

// fieldIssues разбирает объект поле за полем. Поля с неверным типом дают
// по одной проблеме, корректные собираются в отдельное значение и
// проверяются его Validate. false — тело не является объектом.
func fieldIssues(body []byte, t reflect.Type) (apperr.Issues, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, false
	}
	var issues apperr.Issues
	valid := reflect.New(t)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, false
		}
		one, _ := json.Marshal(map[string]json.RawMessage{key: raw})
		var typeErr *json.UnmarshalTypeError
		if err := json.Unmarshal(one, reflect.New(t).Interface()); err != nil {
			if errors.As(err, &typeErr) {
				issues.Add(typeErr.Field, typeMessage(typeErr))
			} else {
				issues.Add(key, "Invalid value")
			}
			continue
		}
		_ = json.Unmarshal(one, valid.Interface())
	}
	if v, ok := valid.Interface().(validator); ok {
		if n, ok := v.(normalizer); ok {
			n.Normalize()
		}
		for _, is := range v.Validate() {
			if !issues.Has(is.Path) {
				issues = append(issues, is)
			}
		}
	}
	return issues, true
}

func typeMessage(e *json.UnmarshalTypeError) string {
	return fmt.Sprintf("Expected %s, received %s", jsonKind(e.Type), e.Value)
}

// jsonKind называет Go-тип так, как его видит клиент.
func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
