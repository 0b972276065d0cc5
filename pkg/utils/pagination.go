package utils

import "fmt"

const DefaultPageCount = 20

// Pagination 游标分页请求参数，cursor 为偏移量
type Pagination struct {
	Cursor int `json:"cursor" form:"cursor"`
	Count  int `json:"count" form:"count"`
}

// Normalize 填充默认值并校验上限
func (p *Pagination) Normalize(maxCount int) error {
	if p.Cursor < 0 {
		return fmt.Errorf("cursor must be >= 0")
	}
	if p.Count <= 0 {
		p.Count = DefaultPageCount
	}
	if p.Count > maxCount {
		return fmt.Errorf("count must be <= %d", maxCount)
	}
	return nil
}

