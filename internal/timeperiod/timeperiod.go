// Package timeperiod validates media active-period expressions.
//
// An expression is one or more periods separated by ";", each period being
// a day or day range followed by a time range: "1-5,09:00-18:00" or
// "7,00:00-24:00". Days run 1 (Monday) to 7 (Sunday), the end time may be
// 24:00 at most and must be after the start time.
package timeperiod

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate checks a full active-period expression and returns the first
// violation found.
func Validate(expression string) error {
	if expression == "" {
		return fmt.Errorf("empty time period")
	}

	// a trailing separator is tolerated: "1-5,09:00-18:00;"
	expression = strings.TrimSuffix(expression, ";")

	for _, period := range strings.Split(expression, ";") {
		if err := validatePeriod(period); err != nil {
			return err
		}
	}

	return nil
}

func validatePeriod(period string) error {
	parts := strings.Split(period, ",")
	if len(parts) != 2 {
		return fmt.Errorf("incorrect time period \"%s\"", period)
	}

	if err := validateDays(parts[0]); err != nil {
		return fmt.Errorf("incorrect time period \"%s\": %v", period, err)
	}
	if err := validateTimeRange(parts[1]); err != nil {
		return fmt.Errorf("incorrect time period \"%s\": %v", period, err)
	}

	return nil
}

func validateDays(days string) error {
	bounds := strings.Split(days, "-")
	if len(bounds) > 2 {
		return fmt.Errorf("invalid day range \"%s\"", days)
	}

	from, err := parseDay(bounds[0])
	if err != nil {
		return err
	}

	if len(bounds) == 2 {
		to, err := parseDay(bounds[1])
		if err != nil {
			return err
		}
		if from > to {
			return fmt.Errorf("day range \"%s\" is reversed", days)
		}
	}

	return nil
}

func parseDay(s string) (int, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid day \"%s\"", s)
	}
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 7 {
		return 0, fmt.Errorf("invalid day \"%s\"", s)
	}
	return day, nil
}

func validateTimeRange(timeRange string) error {
	bounds := strings.Split(timeRange, "-")
	if len(bounds) != 2 {
		return fmt.Errorf("invalid time range \"%s\"", timeRange)
	}

	from, err := parseMinutes(bounds[0])
	if err != nil {
		return err
	}
	to, err := parseMinutes(bounds[1])
	if err != nil {
		return err
	}

	if to > 24*60 {
		return fmt.Errorf("time \"%s\" is out of range", bounds[1])
	}
	if from >= to {
		return fmt.Errorf("time range \"%s\" is reversed or empty", timeRange)
	}

	return nil
}

// parseMinutes converts "hh:mm" into minutes since midnight.
func parseMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[1]) != 2 || len(parts[0]) < 1 || len(parts[0]) > 2 {
		return 0, fmt.Errorf("invalid time \"%s\"", s)
	}

	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 24 {
		return 0, fmt.Errorf("invalid time \"%s\"", s)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid time \"%s\"", s)
	}

	return hh*60 + mm, nil
}
