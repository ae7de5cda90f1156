package entities

import "fmt"

func formatSeconds(total int64) string {
	if total < 0 {
		total = 0
	}
	min := total / 60
	sec := total % 60
	if min >= 60 {
		return fmt.Sprintf("%02d:%02d:%02d", min/60, min%60, sec)
	}
	return fmt.Sprintf("%02d:%02d", min, sec)
}
