package util

import (
	"strconv"
)

// ParsePage 解析分页参数，非法值回退为默认
func ParsePage(pageStr, limitStr string, defaultLimit, maxLimit int) (page, limit int) {
	page, _ = strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(limitStr)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
