package data

import (
	"encoding/json"
	"time"
)

type SearchResult struct {
	Kind        string        `json:"kind"`
	Criterion   string        `json:"criterion"`
	Comparisons int           `json:"comparisons"`
	Elapsed     time.Duration `json:"elapsed"` //nanoseconds
	Cached      bool          `json:"cached,omitempty"`
	Employee    *Employee     `json:"employee,omitempty"`
	Employees   []*Employee   `json:"employees,omitempty"`
}

// Found reports whether the search matched at least one employee.
func (s *SearchResult) Found() bool {
	return s.Employee != nil || len(s.Employees) > 0
}

func (s *SearchResult) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *SearchResult) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}
