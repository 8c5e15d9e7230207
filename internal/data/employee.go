package data

import "encoding/json"

type Employee struct {
	Code       int32   `json:"code"` //key, the store is ascending by code when built sorted
	Name       string  `json:"name"`
	NationalId string  `json:"national_id"`
	BirthDate  string  `json:"birth_date"` //free form, usually DD/MM/YYYY
	JobTitle   string  `json:"job_title"`
	Department string  `json:"department"`
	Salary     float64 `json:"salary"`
}

func (e *Employee) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Employee) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}
