package matchservice

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// KickoffLayout is the exact format accepted besides natural language.
const KickoffLayout = "2006-01-02 15:04"

var kickoffParser = newKickoffParser()

func newKickoffParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseKickoff turns user input such as "2026-10-20 19:30" or "tomorrow at
// 8pm" into a UTC instant. Input is read in loc; nil means UTC. Whether the
// result lies in the future is checked by ScheduleMatch.
func ParseKickoff(input string, loc *time.Location, now time.Time) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, ErrUnparsableKickoff
	}

	if t, err := time.ParseInLocation(KickoffLayout, input, loc); err == nil {
		return t.UTC(), nil
	}

	r, err := kickoffParser.Parse(strings.ToLower(input), now.In(loc))
	if err != nil || r == nil {
		return time.Time{}, ErrUnparsableKickoff
	}
	return r.Time.Truncate(time.Minute).UTC(), nil
}
