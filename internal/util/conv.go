package util

import (
	"strconv"
)

// ParseIntDefault 解析整数参数，为空或非法时返回默认值
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
