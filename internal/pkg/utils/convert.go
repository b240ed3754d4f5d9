/**
 * 工具包:数据转换工具
 * @author: sun977
 * @date: 2025.08.29
 * @description: 提供各种数据类型转换、格式转换和结构体转换的工具函数
 * @func: 数据转换相关的工具函数集合
 */
package utils

import (
	"strconv"
	"strings"
)

// StringToInt 字符串转整数，支持默认值
// 参数: str - 待转换的字符串, defaultValue - 转换失败时的默认值
// 返回: 转换后的整数值
func StringToInt(str string, defaultValue int) int {
	if str == "" {
		return defaultValue
	}
	if result, err := strconv.Atoi(str); err == nil {
		return result
	}
	return defaultValue
}

// StringToBool 字符串转布尔值，支持多种格式
// 参数: str - 待转换的字符串, defaultValue - 转换失败时的默认值
// 返回: 转换后的布尔值
// 支持的true值: "true", "1", "yes", "on", "enabled"
// 支持的false值: "false", "0", "no", "off", "disabled"
func StringToBool(str string, defaultValue bool) bool {
	if str == "" {
		return defaultValue
	}

	str = strings.ToLower(strings.TrimSpace(str))
	switch str {
	case "true", "1", "yes", "on", "enabled":
		return true
	case "false", "0", "no", "off", "disabled":
		return false
	default:
		return defaultValue
	}
}

// ParseIntList 解析整数列表字符串，支持逗号分隔和范围
// 参数: input - 逗号分隔的整数字符串或范围 (e.g., "80,443,1000-2000")
// 返回: 整数切片，如果解析失败则忽略该项
func ParseIntList(input string) []int {
	if input == "" {
		return nil
	}
	var result []int
	// 去重 map
	seen := make(map[int]bool)

	parts := strings.Split(input, ",")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		// 处理范围 (e.g. "1000-2000")
		if strings.Contains(p, "-") {
			rangeParts := strings.Split(p, "-")
			if len(rangeParts) == 2 {
				start, err1 := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
				end, err2 := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
				if err1 == nil && err2 == nil && start <= end {
					for i := start; i <= end; i++ {
						if !seen[i] {
							result = append(result, i)
							seen[i] = true
						}
					}
				}
			}
			continue
		}

		// 处理单个端口
		if val, err := strconv.Atoi(p); err == nil {
			if !seen[val] {
				result = append(result, val)
				seen[val] = true
			}
		}
	}
	return result
}
