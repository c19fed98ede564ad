package utils

import (
	"log"
	"time"
)

// TimeNowCST returns the current time in the Shanghai market timezone.
func TimeNowCST() time.Time {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return time.Now().In(loc)
}
