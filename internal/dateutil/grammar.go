package dateutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrParse is returned for any range expression the grammar cannot resolve.
// Out-of-domain numeric fields (week 0, quarter 5, three-digit years) fail
// the same way as unrecognized input.
var ErrParse = errors.New("could not parse date")

// Range is an inclusive pair of calendar dates, normalized so that Start
// never falls after End.
type Range struct {
	Start time.Time
	End   time.Time
}

var (
	fullDateRe = regexp.MustCompile(`^(\d\d?)/(\d\d?)/(\d{4})$`)
	monthRe    = regexp.MustCompile(`^(\d\d?)/(\d{4})$`)
	weekRe     = regexp.MustCompile(`^[wW](\d\d?)/?(\d{4})?$`)
	quarterRe  = regexp.MustCompile(`^[qQ]([1-4])/?(\d{4})?$`)
	halfRe     = regexp.MustCompile(`^[hH]([12])/(\d{4})$`)
	yearRe     = regexp.MustCompile(`^(\d{4})$`)
)

// A matcher recognizes one shape of range token. It reports whether the
// token matched its pattern; a matched token can still fail validation.
type matcher func(s string, currentYear int) (Range, bool, error)

// Matchers are tried in order and the first match wins, so the more
// specific shapes come before the bare year.
var matchers = []matcher{
	matchFullDate,
	matchMonth,
	matchWeek,
	matchQuarter,
	matchHalf,
	matchYear,
}

func matchFullDate(s string, _ int) (Range, bool, error) {
	m := fullDateRe.FindStringSubmatch(s)
	if m == nil {
		return Range{}, false, nil
	}
	day := atoi(m[1])
	month := time.Month(atoi(m[2]))
	year := atoi(m[3])
	if month < time.January || month > time.December {
		return Range{}, true, fmt.Errorf("%w: %q", ErrParse, s)
	}
	if day < 1 || day > LastDayOfMonth(year, month) {
		return Range{}, true, fmt.Errorf("%w: %q", ErrParse, s)
	}
	d := Date(year, month, day)
	return Range{Start: d, End: d}, true, nil
}

func matchMonth(s string, _ int) (Range, bool, error) {
	m := monthRe.FindStringSubmatch(s)
	if m == nil {
		return Range{}, false, nil
	}
	month := time.Month(atoi(m[1]))
	year := atoi(m[2])
	if month < time.January || month > time.December {
		return Range{}, true, fmt.Errorf("%w: %q", ErrParse, s)
	}
	return Range{
		Start: Date(year, month, 1),
		End:   Date(year, month, LastDayOfMonth(year, month)),
	}, true, nil
}

func matchWeek(s string, currentYear int) (Range, bool, error) {
	m := weekRe.FindStringSubmatch(s)
	if m == nil {
		return Range{}, false, nil
	}
	week := atoi(m[1])
	year := currentYear
	if m[2] != "" {
		year = atoi(m[2])
	}
	start, err := FromWeekNumber(year, week, false)
	if err != nil {
		return Range{}, true, fmt.Errorf("%w: %q", ErrParse, s)
	}
	end, _ := FromWeekNumber(year, week, true)
	return Range{Start: start, End: end}, true, nil
}

func matchQuarter(s string, currentYear int) (Range, bool, error) {
	m := quarterRe.FindStringSubmatch(s)
	if m == nil {
		return Range{}, false, nil
	}
	quarter := atoi(m[1])
	year := currentYear
	if m[2] != "" {
		year = atoi(m[2])
	}
	return Range{
		Start: FromQuarterNumber(year, quarter, false),
		End:   FromQuarterNumber(year, quarter, true),
	}, true, nil
}

func matchHalf(s string, _ int) (Range, bool, error) {
	m := halfRe.FindStringSubmatch(s)
	if m == nil {
		return Range{}, false, nil
	}
	half := atoi(m[1])
	year := atoi(m[2])
	return Range{
		Start: FromHalfNumber(year, half, false),
		End:   FromHalfNumber(year, half, true),
	}, true, nil
}

func matchYear(s string, _ int) (Range, bool, error) {
	m := yearRe.FindStringSubmatch(s)
	if m == nil {
		return Range{}, false, nil
	}
	year := atoi(m[1])
	return Range{Start: FromYear(year, false), End: FromYear(year, true)}, true, nil
}

// ParseToken resolves a single range token such as "31/1/2018", "12/2018",
// "w5", "q2/2019", "h1/2019" or "2018". Weeks and quarters without an
// explicit year resolve against currentYear, which callers are expected to
// pass in so that tests can pin it.
func ParseToken(s string, currentYear int) (Range, error) {
	for _, match := range matchers {
		r, ok, err := match(s, currentYear)
		if err != nil {
			return Range{}, err
		}
		if ok {
			return r, nil
		}
	}
	return Range{}, fmt.Errorf("%w: %q", ErrParse, s)
}

// ParseRange resolves a range expression: either a single token, or two
// tokens separated by "-" combined as [first.Start, second.End]. The result
// is sorted regardless of clause order.
func ParseRange(s string, currentYear int) (Range, error) {
	var r Range
	if strings.Contains(s, "-") {
		parts := strings.SplitN(s, "-", 2)
		first, err := ParseToken(strings.TrimSpace(parts[0]), currentYear)
		if err != nil {
			return Range{}, err
		}
		second, err := ParseToken(strings.TrimSpace(parts[1]), currentYear)
		if err != nil {
			return Range{}, err
		}
		r = Range{Start: first.Start, End: second.End}
	} else {
		var err error
		r, err = ParseToken(s, currentYear)
		if err != nil {
			return Range{}, err
		}
	}

	if r.End.Before(r.Start) {
		r.Start, r.End = r.End, r.Start
	}
	return r, nil
}

// atoi converts digits already vetted by a pattern, so errors cannot occur.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
