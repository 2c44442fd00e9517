// Package apperr описывает единую классификацию ошибок операций хранилища.
// Вызывающая сторона сопоставляет ошибки через errors.Is с сентинелами Err*.
package apperr

import (
	"errors"
	"fmt"
)

// Виды ошибок. Текст сентинела — сообщение, которое видит пользователь.
var (
	ErrUnauthenticated = errors.New("Not authenticated")
	ErrValidation      = errors.New("Validation failed")
	ErrNotFound        = errors.New("not found")
	ErrPersistence     = errors.New("Something went wrong. Please try again.")
	ErrEncryption      = errors.New("encryption failed")
)

// Issue — одна проблема валидации, привязанная к полю.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Issues — упорядоченный список проблем валидации.
type Issues []Issue

// Add добавляет проблему для поля path.
func (is *Issues) Add(path, message string) {
	*is = append(*is, Issue{Path: path, Message: message})
}

// Empty сообщает, что проблем нет.
func (is Issues) Empty() bool { return len(is) == 0 }

// Has сообщает, есть ли проблема для поля path.
func (is Issues) Has(path string) bool {
	for _, i := range is {
		if i.Path == path {
			return true
		}
	}
	return false
}

// Error — типизированный результат неуспешной операции.
type Error struct {
	Kind    error
	Message string
	Issues  Issues
	Err     error // внутренняя причина, наружу не отдаётся
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap позволяет errors.Is(err, apperr.ErrNotFound) и т.п.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Public возвращает сообщение, безопасное для отдачи клиенту.
func (e *Error) Public() string {
	switch e.Kind {
	case ErrPersistence, ErrEncryption:
		return ErrPersistence.Error()
	}
	return e.Message
}

func Unauthenticated() *Error {
	return &Error{Kind: ErrUnauthenticated, Message: ErrUnauthenticated.Error()}
}

func Validation(issues Issues) *Error {
	return &Error{Kind: ErrValidation, Message: ErrValidation.Error(), Issues: issues}
}

// NotFound создаёт ошибку вида «<entity> not found».
func NotFound(entity string) *Error {
	return &Error{Kind: ErrNotFound, Message: entity + " not found"}
}

func Persistence(err error) *Error {
	return &Error{Kind: ErrPersistence, Message: ErrPersistence.Error(), Err: err}
}

func Encryption(err error) *Error {
	return &Error{Kind: ErrEncryption, Message: ErrEncryption.Error(), Err: err}
}

// As извлекает *Error из цепочки err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
