// Package record describes the fixed-width binary layout of an employee and
// converts between data.Employee and its block.
//
// A block is RecordSize bytes with no header or delimiter: the fields of
// Schema are laid out back to back, numbers are little-endian and text
// fields are zero-padded to their width. Text longer than its width is cut
// at the byte budget, which may split a multi-byte rune; such a block no
// longer decodes as valid UTF-8.
package record

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
)

const (
	CodeWidth       = 4
	NameWidth       = 50
	NationalIdWidth = 15
	BirthDateWidth  = 11
	JobTitleWidth   = 30
	DepartmentWidth = 30
	SalaryWidth     = 8

	// Code(4) + Name(50) + NationalId(15) + BirthDate(11) + JobTitle(30) +
	// Department(30) + Salary(8) = 148 bytes
	RecordSize = CodeWidth + NameWidth + NationalIdWidth + BirthDateWidth +
		JobTitleWidth + DepartmentWidth + SalaryWidth
)

// ErrIncomplete is returned by Decode when fewer than RecordSize bytes are
// given, it marks the end of the data rather than a damaged block.
var ErrIncomplete = errors.New("incomplete record")

var ErrInvalidText = errors.New("text is not valid utf-8")

var byteOrder = binary.LittleEndian

type Kind int

const (
	Integer Kind = iota + 1
	Float
	FixedText
)

func (k Kind) String() string {
	switch k {
	default:
		return "unknown"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case FixedText:
		return "fixed_text"
	}
}

type Field struct {
	Name   string
	Width  int
	Kind   Kind
	Offset int

	// ref returns a pointer to the employee's value for this field: *int32,
	// *float64 or *string depending on Kind
	ref func(e *data.Employee) any
}

// Schema is the ordered layout of a block.
var Schema = layout([]Field{
	{Name: "code", Width: CodeWidth, Kind: Integer,
		ref: func(e *data.Employee) any { return &e.Code }},
	{Name: "name", Width: NameWidth, Kind: FixedText,
		ref: func(e *data.Employee) any { return &e.Name }},
	{Name: "national_id", Width: NationalIdWidth, Kind: FixedText,
		ref: func(e *data.Employee) any { return &e.NationalId }},
	{Name: "birth_date", Width: BirthDateWidth, Kind: FixedText,
		ref: func(e *data.Employee) any { return &e.BirthDate }},
	{Name: "job_title", Width: JobTitleWidth, Kind: FixedText,
		ref: func(e *data.Employee) any { return &e.JobTitle }},
	{Name: "department", Width: DepartmentWidth, Kind: FixedText,
		ref: func(e *data.Employee) any { return &e.Department }},
	{Name: "salary", Width: SalaryWidth, Kind: Float,
		ref: func(e *data.Employee) any { return &e.Salary }},
})

func layout(fields []Field) []Field {
	var offset int

	for i := range fields {
		switch fields[i].Kind {
		case Integer:
			if fields[i].Width != 4 {
				panic(fmt.Sprintf("record: integer field %s must be 4 bytes wide", fields[i].Name))
			}
		case Float:
			if fields[i].Width != 8 {
				panic(fmt.Sprintf("record: float field %s must be 8 bytes wide", fields[i].Name))
			}
		}
		fields[i].Offset = offset
		offset += fields[i].Width
	}
	if offset != RecordSize {
		panic(fmt.Sprintf("record: schema is %d bytes, expected %d", offset, RecordSize))
	}
	return fields
}

// DecodeError reports a text field whose bytes aren't valid UTF-8.
type DecodeError struct {
	Field  string
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("record: field %s at offset %d: %s", e.Field, e.Offset, ErrInvalidText)
}

func (e *DecodeError) Unwrap() error {
	return ErrInvalidText
}
