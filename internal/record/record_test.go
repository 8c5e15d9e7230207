package record_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployee() *data.Employee {
	return &data.Employee{
		Code:       42,
		Name:       "Ana Silva",
		NationalId: "123.456.789-01",
		BirthDate:  "01/02/1990",
		JobTitle:   "Analista",
		Department: "TI",
		Salary:     4321.5,
	}
}

func TestSchema(t *testing.T) {
	var width int

	for i, field := range record.Schema {
		assert.Equal(t, width, field.Offset, "offset of %s", field.Name)
		width += field.Width
		if i == 0 {
			assert.Equal(t, "code", field.Name)
		}
	}
	assert.Equal(t, record.RecordSize, width)
	assert.Equal(t, 148, record.RecordSize)
}

func TestEncode(t *testing.T) {
	t.Run("fixed size", func(t *testing.T) {
		for _, e := range []*data.Employee{
			{},
			newEmployee(),
			{Name: strings.Repeat("x", 500)},
		} {
			assert.Len(t, record.Encode(e), record.RecordSize)
		}
	})

	t.Run("layout", func(t *testing.T) {
		e := newEmployee()
		block := record.Encode(e)

		assert.Equal(t, uint32(42), binary.LittleEndian.Uint32(block[0:4]))
		name := block[4 : 4+record.NameWidth]
		assert.Equal(t, []byte("Ana Silva"), name[:9])
		assert.Equal(t, make([]byte, record.NameWidth-9), name[9:])
		salary := block[record.RecordSize-8:]
		assert.Equal(t, math.Float64bits(4321.5), binary.LittleEndian.Uint64(salary))
	})

	t.Run("negative code", func(t *testing.T) {
		e := &data.Employee{Code: -7}
		decoded, err := record.Decode(record.Encode(e))
		require.NoError(t, err)
		assert.Equal(t, int32(-7), decoded.Code)
	})

	t.Run("truncates text at byte budget", func(t *testing.T) {
		e := &data.Employee{Department: strings.Repeat("d", record.DepartmentWidth+10)}
		decoded, err := record.Decode(record.Encode(e))
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("d", record.DepartmentWidth), decoded.Department)
		assert.Equal(t, decoded.Department, record.Truncate(e.Department, record.DepartmentWidth))
	})

	t.Run("encode to reuses buffer", func(t *testing.T) {
		block := bytes.Repeat([]byte{0xff}, record.RecordSize)
		record.EncodeTo(block, &data.Employee{Name: "a"})
		decoded, err := record.Decode(block)
		require.NoError(t, err)
		assert.Equal(t, "a", decoded.Name)
		assert.Equal(t, "", decoded.JobTitle)
	})
}

func TestDecode(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		cases := []*data.Employee{
			newEmployee(),
			{},
			{Code: math.MaxInt32, Salary: math.Inf(-1)},
			{Code: math.MinInt32, Name: "José Conceição", Department: "Vendas"},
			{
				Name:       strings.Repeat("n", record.NameWidth),
				NationalId: strings.Repeat("1", record.NationalIdWidth),
				BirthDate:  strings.Repeat("2", record.BirthDateWidth),
				JobTitle:   strings.Repeat("j", record.JobTitleWidth),
				Department: strings.Repeat("ç", record.DepartmentWidth/2),
			},
		}
		for _, e := range cases {
			require.True(t, record.Fits(e))
			decoded, err := record.Decode(record.Encode(e))
			require.NoError(t, err)
			assert.Equal(t, e, decoded)
		}
	})

	t.Run("incomplete", func(t *testing.T) {
		block := record.Encode(newEmployee())
		for _, n := range []int{0, 1, 4, record.RecordSize / 2, record.RecordSize - 1} {
			e, err := record.Decode(block[:n])
			assert.ErrorIs(t, err, record.ErrIncomplete, "length %d", n)
			assert.Nil(t, e)
		}
	})

	t.Run("ignores trailing bytes", func(t *testing.T) {
		block := append(record.Encode(newEmployee()), 1, 2, 3)
		e, err := record.Decode(block)
		require.NoError(t, err)
		assert.Equal(t, newEmployee(), e)
	})

	t.Run("cuts at first zero byte", func(t *testing.T) {
		e := &data.Employee{Name: "Ana\x00Silva"}
		assert.False(t, record.Fits(e))
		decoded, err := record.Decode(record.Encode(e))
		require.NoError(t, err)
		assert.Equal(t, "Ana", decoded.Name)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		block := record.Encode(newEmployee())
		offset := record.Schema[4].Offset
		block[offset] = 0xff

		e, err := record.Decode(block)
		assert.Nil(t, e)
		assert.ErrorIs(t, err, record.ErrInvalidText)
		var decodeErr *record.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "job_title", decodeErr.Field)
		assert.Equal(t, offset, decodeErr.Offset)
	})

	t.Run("truncation splitting a rune", func(t *testing.T) {
		// 49 ASCII bytes followed by a two byte rune, the budget keeps one byte of it
		e := &data.Employee{Name: strings.Repeat("a", record.NameWidth-1) + "é"}
		assert.False(t, record.Fits(e))
		_, err := record.Decode(record.Encode(e))
		var decodeErr *record.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "name", decodeErr.Field)
	})
}

func TestKind(t *testing.T) {
	assert.Equal(t, "integer", record.Integer.String())
	assert.Equal(t, "float", record.Float.String())
	assert.Equal(t, "fixed_text", record.FixedText.String())
	assert.Equal(t, "unknown", record.Kind(0).String())
}
