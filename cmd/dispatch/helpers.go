package main

import (
	"fmt"
	"strconv"
	"time"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func nowFn() time.Time { return time.Now() }
