package data

type Page struct {
	Number    int         `json:"number"`
	Size      int         `json:"size"`
	Total     int64       `json:"total"`
	Employees []*Employee `json:"employees"`
}

// Pages returns the number of pages needed to list every record.
func (p *Page) Pages() int64 {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + int64(p.Size) - 1) / int64(p.Size)
}
