// Package outcome описывает результат доменной операции: либо значение, либо
// сообщение об ошибке. Инфраструктурные сбои сюда не попадают, они
// возвращаются обычным error.
package outcome

// Kind классифицирует неуспешный результат для слоя HTTP.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Outcome хранит ровно один из вариантов. Поля закрыты, поэтому создать
// значение можно только через Success или Failure.
type Outcome[T any] struct {
	value   *T
	kind    Kind
	message string
}

func Success[T any](value T) Outcome[T] {
	return Outcome[T]{value: &value}
}

// Failure с пустым сообщением получает текст по умолчанию для своего вида.
func Failure[T any](kind Kind, message string) Outcome[T] {
	if kind == 0 {
		kind = KindValidation
	}
	if message == "" {
		message = "операция отклонена: " + kind.String()
	}
	return Outcome[T]{kind: kind, message: message}
}

func (o Outcome[T]) IsSuccess() bool { return o.value != nil }

// Value возвращает значение и true для успешного результата.
func (o Outcome[T]) Value() (T, bool) {
	if o.value == nil {
		var zero T
		return zero, false
	}
	return *o.value, true
}

// Kind равен нулю для успешного результата.
func (o Outcome[T]) Kind() Kind { return o.kind }

func (o Outcome[T]) Message() string { return o.message }
