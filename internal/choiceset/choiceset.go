// Package choiceset converts a question's answer options and its correct
// answer ids to and from the JSON text stored on the question row.
//
// Decoding never fails: malformed or empty text yields an empty list. Callers
// that need to tell "nothing stored" from "stored but unreadable" use the
// DecodeOptions / DecodeIDs variants, which report a Status alongside the
// values.
package choiceset

import (
	"encoding/json"
	"strings"
)

// Option is a single selectable answer.
type Option struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusCorrupt
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusCorrupt:
		return "corrupt"
	}
	return "unknown"
}

// Result carries decoded values together with how decoding went.
type Result[T any] struct {
	Values []T
	Status Status
}

const emptyList = "[]"

// Encode serializes options. A nil or empty slice encodes to "[]".
func Encode(options []Option) string {
	if len(options) == 0 {
		return emptyList
	}
	b, err := json.Marshal(options)
	if err != nil {
		return emptyList
	}
	return string(b)
}

// Decode parses stored option text, returning an empty list on any failure.
func Decode(text string) []Option {
	return DecodeOptions(text).Values
}

func DecodeOptions(text string) Result[Option] {
	return decode[Option](text)
}

// EncodeAnswerIDs serializes the correct answer ids. A nil or empty slice
// encodes to "[]".
func EncodeAnswerIDs(ids []int) string {
	if len(ids) == 0 {
		return emptyList
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return emptyList
	}
	return string(b)
}

// DecodeAnswerIDs parses stored id text, returning an empty list on any failure.
func DecodeAnswerIDs(text string) []int {
	return DecodeIDs(text).Values
}

func DecodeIDs(text string) Result[int] {
	return decode[int](text)
}

func decode[T any](text string) Result[T] {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "null" {
		return Result[T]{Values: []T{}, Status: StatusEmpty}
	}
	var values []T
	if err := json.Unmarshal([]byte(trimmed), &values); err != nil {
		return Result[T]{Values: []T{}, Status: StatusCorrupt}
	}
	if values == nil {
		values = []T{}
	}
	if len(values) == 0 {
		return Result[T]{Values: values, Status: StatusEmpty}
	}
	return Result[T]{Values: values, Status: StatusOK}
}

// IDs returns the option ids in their stored order.
func IDs(options []Option) []int {
	ids := make([]int, 0, len(options))
	for _, o := range options {
		ids = append(ids, o.ID)
	}
	return ids
}
