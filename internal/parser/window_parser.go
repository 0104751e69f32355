package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseRetentionWindow parses a retention window into days
// Supported formats:
// - bare days (e.g., "30")
// - X days (e.g., "45 days", "1 day")
// - X weeks (e.g., "6 weeks", "1 week")
// - X months (e.g., "3 months", treated as 30 days each)
func ParseRetentionWindow(input string) (int, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return 0, fmt.Errorf("empty retention window")
	}

	if days, err := strconv.Atoi(input); err == nil {
		return days, nil
	}

	windowRegex := regexp.MustCompile(`^(\d+)\s*(day|days|week|weeks|month|months)$`)
	matches := windowRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid retention window. Use: a number of days, X days, X weeks, or X months")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid amount")
	}

	switch matches[2] {
	case "day", "days":
		return amount, nil
	case "week", "weeks":
		return amount * 7, nil
	case "month", "months":
		return amount * 30, nil
	}

	return 0, fmt.Errorf("invalid retention window unit")
}
