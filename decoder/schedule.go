package decoder

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/dialogmesh/logging"
)

var scheduleTokenRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)(ms|s|m|h|d)$`)

// unitMillis maps schedule units to milliseconds.
var unitMillis = map[string]float64{
	"ms": 1,
	"s":  1e3,
	"m":  60e3,
	"h":  3.6e6,
	"d":  86.4e6,
}

// maxScheduleMillis is the longest delay a time.Duration can hold.
const maxScheduleMillis = float64(math.MaxInt64 / int64(time.Millisecond))

// ParseSchedule sums a space separated list of <number><unit> tokens such as
// "1m 30s". Unparseable tokens are logged and contribute nothing. Sums beyond
// the time.Duration range are clamped to the maximum duration.
func ParseSchedule(s string, logger logging.Logger) time.Duration {
	logger = logging.OrNoOp(logger)
	var millis float64
	for _, tok := range strings.Fields(s) {
		m := scheduleTokenRe.FindStringSubmatch(tok)
		if m == nil {
			logger.Warn("decoder.schedule.invalid_token", "token", tok)
			continue
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			logger.Warn("decoder.schedule.invalid_token", "token", tok, "error", err.Error())
			continue
		}
		millis += n * unitMillis[m[2]]
	}
	if millis >= maxScheduleMillis {
		logger.Warn("decoder.schedule.clamped", "schedule", s)
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(millis * float64(time.Millisecond))
}
