package timer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidLength = errors.New("invalid timer length")

const maxMinutes = math.MaxInt64 / int64(time.Minute)

// ParseLength accepts whole minutes ("25") or a Go duration ("90s", "1h30m").
func ParseLength(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidLength)
	}

	if minutes, err := strconv.ParseInt(input, 10, 64); err == nil {
		if minutes < 0 {
			return 0, fmt.Errorf("%w: %q is negative", ErrInvalidLength, input)
		}
		if minutes > maxMinutes {
			return 0, fmt.Errorf("%w: %q is too long", ErrInvalidLength, input)
		}
		return time.Duration(minutes) * time.Minute, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLength, input)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidLength, input)
	}
	return d, nil
}
