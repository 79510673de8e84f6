package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	eventlogdomain "github.com/smallbiznis/numera/internal/eventlog/domain"
)

const dateOnlyLayout = "2006-01-02"

func parseOptionalInt(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 0 {
		return 0, errors.New("invalid_int")
	}
	return parsed, nil
}

func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		if endOfDay {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		}
		return &parsed, nil
	}
	return nil, errors.New("invalid_time")
}

func parseOptionalLevel(value string) (eventlogdomain.Level, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	switch eventlogdomain.Level(trimmed) {
	case "", eventlogdomain.LevelInfo, eventlogdomain.LevelWarn, eventlogdomain.LevelError:
		return eventlogdomain.Level(trimmed), nil
	default:
		return "", errors.New("invalid_level")
	}
}
