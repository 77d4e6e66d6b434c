package bench

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/bebsworthy/startbench/internal/config"
)

var firstFrameRegex = regexp.MustCompile(config.DefaultPattern)

// ParseFirstFrame extracts the first_frame_ms value from target output
func ParseFirstFrame(output string) (float64, error) {
	return ParseMeasurement(firstFrameRegex, output)
}

// ParseMeasurement returns the first capture group of the first match of re
// in output, parsed as milliseconds. A miss is a ParseFailure carrying the
// full output.
func ParseMeasurement(re *regexp.Regexp, output string) (float64, error) {
	m := re.FindStringSubmatch(output)
	if len(m) < 2 {
		return 0, &Error{
			Kind:   KindParse,
			Err:    fmt.Errorf("no match for %q in output", re.String()),
			Output: output,
		}
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, &Error{
			Kind:   KindParse,
			Err:    fmt.Errorf("invalid measurement %q: %w", m[1], err),
			Output: output,
		}
	}
	return value, nil
}
