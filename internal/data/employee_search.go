package data

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	SearchKindSequential string = "sequential"
	SearchKindBinary     string = "binary"
	SearchKindField      string = "field"
)

const (
	FieldName       string = "name"
	FieldJobTitle   string = "job_title"
	FieldDepartment string = "department"
)

const (
	MatchEqual    string = "equal"
	MatchContains string = "contains"
)

type EmployeeSearch struct {
	Kind  string `json:"kind"`
	Code  int32  `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
	Match string `json:"match,omitempty"`
	Value string `json:"value,omitempty"`
}

func (e *EmployeeSearch) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *EmployeeSearch) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}

func (e *EmployeeSearch) ToParams() url.Values {
	params := make(url.Values)
	if e.Kind != "" {
		params.Set(ParameterKind, e.Kind)
	}
	if e.Code != 0 {
		params.Set(ParameterCode, fmt.Sprint(e.Code))
	}
	if e.Field != "" {
		params.Set(ParameterField, e.Field)
	}
	if e.Match != "" {
		params.Set(ParameterMatch, e.Match)
	}
	if e.Value != "" {
		params.Set(ParameterValue, e.Value)
	}
	return params
}

// FromParams fills e from query parameters, a code that isn't a 32 bit
// integer is an error.
func (e *EmployeeSearch) FromParams(params url.Values) error {
	for key, value := range params {
		if len(value) == 0 {
			continue
		}
		switch strings.ToLower(key) {
		case ParameterKind:
			e.Kind = strings.ToLower(value[0])
		case ParameterCode:
			code, err := strconv.ParseInt(value[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid code %q: %w", value[0], err)
			}
			e.Code = int32(code)
		case ParameterField:
			e.Field = strings.ToLower(value[0])
		case ParameterMatch:
			e.Match = strings.ToLower(value[0])
		case ParameterValue:
			e.Value = value[0]
		}
	}
	return nil
}

// ToKey returns a key that's identical for searches that would return the
// same result; the kind is part of the key since comparisons differ between
// sequential and binary searches and field values are folded since matching
// ignores case.
func (e *EmployeeSearch) ToKey() (string, error) {
	switch e.Kind {
	default:
		return "", fmt.Errorf("unsupported search kind: %q", e.Kind)
	case SearchKindSequential, SearchKindBinary:
		return fmt.Sprintf("%s:code:%d", e.Kind, e.Code), nil
	case SearchKindField:
		return fmt.Sprintf("%s:%s:%s:%s", e.Kind, e.Field, e.Match,
			strings.ToLower(e.Value)), nil
	}
}

// Criterion describes the query in the form written to the search log.
func (e *EmployeeSearch) Criterion() string {
	switch e.Kind {
	default:
		return ""
	case SearchKindSequential, SearchKindBinary:
		return fmt.Sprintf("code=%d", e.Code)
	case SearchKindField:
		return fmt.Sprintf("%s %s %q", e.Field, e.Match, e.Value)
	}
}
