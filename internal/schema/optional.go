// Package schema описывает входные (Dto, Patch) и выходные (Ro) формы записей
// хранилища и их валидацию.
package schema

import "encoding/json"

// Optional — поле частичного обновления. Различает три состояния:
// поле не передано (Set == false), передан null (Null == true) и передано значение.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some — переданное значение.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null — явно переданный null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Present сообщает, что передано значение (не null).
func (o Optional[T]) Present() bool { return o.Set && !o.Null }

// UnmarshalJSON вызывается только для присутствующих в JSON полей,
// поэтому отсутствующее поле остаётся с Set == false.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// MarshalJSON нужен клиентам и тестам, собирающим патчи в Go.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
