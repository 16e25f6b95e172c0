// Package position tags values with the source locations that declared them.
//
// Positions exist for diagnostics only. A [Positioned] value compares, hashes
// and resolves exactly like the value it wraps; the positions ride along so
// that a failure deep inside a fetch can still be reported against the
// directive the user wrote.
package position

import (
	"strconv"
	"strings"
)

// Position is a location in a source file. Zero Line or Column means unknown.
type Position struct {
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// String renders the position as "file:line:col", dropping unknown parts.
func (p Position) String() string {
	var b strings.Builder
	b.WriteString(p.File)
	if p.Line > 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(p.Line))
		if p.Column > 0 {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(p.Column))
		}
	}
	return b.String()
}

// Positioned is a value annotated with zero or more source positions.
type Positioned[T any] struct {
	Value     T
	Positions []Position
}

// New wraps v with the given positions.
func New[T any](v T, pos ...Position) Positioned[T] {
	return Positioned[T]{Value: v, Positions: pos}
}

// None wraps v with no position. Used for values synthesized internally.
func None[T any](v T) Positioned[T] {
	return Positioned[T]{Value: v}
}

// HasPositions reports whether p carries at least one position.
func (p Positioned[T]) HasPositions() bool { return len(p.Positions) > 0 }

// Map transforms the wrapped value, keeping the positions.
func Map[T, U any](p Positioned[T], f func(T) U) Positioned[U] {
	return Positioned[U]{Value: f(p.Value), Positions: p.Positions}
}

// Values unwraps a slice of positioned values, preserving order.
func Values[T any](ps []Positioned[T]) []T {
	out := make([]T, len(ps))
	for i, p := range ps {
		out[i] = p.Value
	}
	return out
}

// Flatten merges a slice of positioned values into one positioned slice whose
// positions are the concatenation of every element's positions, in order.
func Flatten[T any](ps []Positioned[T]) Positioned[[]T] {
	out := Positioned[[]T]{Value: make([]T, 0, len(ps))}
	for _, p := range ps {
		out.Value = append(out.Value, p.Value)
		out.Positions = append(out.Positions, p.Positions...)
	}
	return out
}

// All returns every position carried by ps, in order.
func All[T any](ps []Positioned[T]) []Position {
	var out []Position
	for _, p := range ps {
		out = append(out, p.Positions...)
	}
	return out
}
