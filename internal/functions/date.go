package functions

import (
	"time"

	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

func init() {
	Register("DATE", fnDate)
	Register("YEAR", fnYear)
	Register("MONTH", fnMonth)
	Register("DAY", fnDay)
	Register("TODAY", fnToday)
	Register("NOW", fnNow)
	Register("WEEKDAY", fnWeekday)
	Register("WEEKNUM", fnWeeknum)
	Register("DATEDIF", fnDatedif)
	Register("DAYS360", fnDays360)
	Register("WORKDAY.INTL", fnWorkdayIntl)
	Register("NETWORKDAYS", fnNetworkdays)
}

func fnDate(args []model.Value, ctx Context) model.Value {
	if len(args) != 3 {
		return errVal(ctx, locale.ErrValue)
	}
	y, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	m, err := Num(args[1], ctx)
	if err != nil {
		return err
	}
	d, err := Num(args[2], ctx)
	if err != nil {
		return err
	}
	year := int(y)
	if year < 1900 {
		year += 1900
	}
	return dateSerial(year, int(m), int(d))
}

func serialArg(args []model.Value, ctx Context) (time.Time, *model.ErrorValue) {
	if len(args) != 1 {
		return time.Time{}, errVal(ctx, locale.ErrValue)
	}
	n, err := Num(args[0], ctx)
	if err != nil {
		return time.Time{}, err
	}
	return serialToTime(n), nil
}

func fnYear(args []model.Value, ctx Context) model.Value {
	t, err := serialArg(args, ctx)
	if err != nil {
		return err
	}
	return float64(t.Year())
}

func fnMonth(args []model.Value, ctx Context) model.Value {
	t, err := serialArg(args, ctx)
	if err != nil {
		return err
	}
	return float64(t.Month())
}

func fnDay(args []model.Value, ctx Context) model.Value {
	t, err := serialArg(args, ctx)
	if err != nil {
		return err
	}
	return float64(t.Day())
}

func fnToday(args []model.Value, ctx Context) model.Value {
	now := ctx.Clock().Now()
	return timeToSerial(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
}

func fnNow(args []model.Value, ctx Context) model.Value {
	return timeToSerial(ctx.Clock().Now())
}

// fnWeekday implements every return-type convention spec §5 names: type
// 1 (default) Sunday=1..Saturday=7, type 2 Monday=1..Sunday=7, type 3
// Monday=0..Sunday=6, and types 11..17, each numbering 1..7 starting
// from a different day (11 starts Monday, 12 Tuesday, ... 17 Sunday).
func fnWeekday(args []model.Value, ctx Context) model.Value {
	if len(args) < 1 || len(args) > 2 {
		return errVal(ctx, locale.ErrValue)
	}
	n, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	kind := 1
	if len(args) == 2 {
		k, err := Num(args[1], ctx)
		if err != nil {
			return err
		}
		kind = int(k)
	}
	wd := int(serialToTime(n).Weekday()) // 0=Sunday .. 6=Saturday
	mondayBased := (wd + 6) % 7          // 0=Monday .. 6=Sunday
	switch {
	case kind == 1:
		return float64(wd + 1)
	case kind == 2:
		return float64(mondayBased + 1)
	case kind == 3:
		return float64(mondayBased)
	case kind >= 11 && kind <= 17:
		start := kind - 11 // 0=Monday .. 6=Sunday
		return float64((mondayBased-start+7)%7 + 1)
	default:
		return errVal(ctx, locale.ErrNum)
	}
}

// fnWeeknum implements the two common return-type conventions: type 1
// weeks start Sunday, type 2 weeks start Monday. Week 1 is the week
// containing January 1st.
func fnWeeknum(args []model.Value, ctx Context) model.Value {
	if len(args) < 1 || len(args) > 2 {
		return errVal(ctx, locale.ErrValue)
	}
	n, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	kind := 1
	if len(args) == 2 {
		k, err := Num(args[1], ctx)
		if err != nil {
			return err
		}
		kind = int(k)
	}
	t := serialToTime(n)
	jan1 := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	jan1WD := int(jan1.Weekday())
	if kind == 2 {
		jan1WD = (jan1WD + 6) % 7
	}
	dayOfYear := t.YearDay()
	return float64((dayOfYear+jan1WD-1)/7 + 1)
}

// fnDatedif implements DATEDIF's six interval units, including the three
// spec §5 flags as non-goals for naive day-count math: "MD" (days
// ignoring months and years), "YM" (months ignoring years), and "YD"
// (days ignoring years).
func fnDatedif(args []model.Value, ctx Context) model.Value {
	if len(args) != 3 {
		return errVal(ctx, locale.ErrValue)
	}
	startN, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	endN, err := Num(args[1], ctx)
	if err != nil {
		return err
	}
	unit, terr := Text(args[2], ctx)
	if terr != nil {
		return terr
	}
	start := serialToTime(startN)
	end := serialToTime(endN)
	if end.Before(start) {
		return errVal(ctx, locale.ErrNum)
	}
	switch unit {
	case "Y":
		years := end.Year() - start.Year()
		if end.Month() < start.Month() || (end.Month() == start.Month() && end.Day() < start.Day()) {
			years--
		}
		return float64(years)
	case "M":
		months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
		if end.Day() < start.Day() {
			months--
		}
		return float64(months)
	case "D":
		return float64(int(end.Sub(start).Hours() / 24))
	case "MD":
		day := end.Day() - start.Day()
		if day < 0 {
			prevMonth := time.Date(end.Year(), end.Month(), 0, 0, 0, 0, 0, time.UTC)
			day += prevMonth.Day()
		}
		return float64(day)
	case "YM":
		months := int(end.Month()) - int(start.Month())
		if end.Day() < start.Day() {
			months--
		}
		if months < 0 {
			months += 12
		}
		return float64(months)
	case "YD":
		anniv := clampedAnniversary(end.Year(), start.Month(), start.Day())
		if anniv.After(end) {
			anniv = clampedAnniversary(end.Year()-1, start.Month(), start.Day())
		}
		return float64(int(end.Sub(anniv).Hours() / 24))
	default:
		return errVal(ctx, locale.ErrNum)
	}
}

// clampedAnniversary builds the date (year, month, day), clamping day to
// the last day of that month instead of letting it overflow into the
// next month (time.Date's default behavior) — a Feb 29 anniversary in a
// non-leap year lands on Feb 28, not March 1.
func clampedAnniversary(year int, month time.Month, day int) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// fnDays360 implements both the US (NASD) and European 30/360 day-count
// conventions spec §5 names, selected by the optional third argument.
func fnDays360(args []model.Value, ctx Context) model.Value {
	if len(args) < 2 || len(args) > 3 {
		return errVal(ctx, locale.ErrValue)
	}
	startN, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	endN, err := Num(args[1], ctx)
	if err != nil {
		return err
	}
	european := false
	if len(args) == 3 {
		european, err = Bool(args[2], ctx)
		if err != nil {
			return err
		}
	}
	s := serialToTime(startN)
	e := serialToTime(endN)
	sy, sm, sd := s.Year(), int(s.Month()), s.Day()
	ey, em, ed := e.Year(), int(e.Month()), e.Day()

	if european {
		if sd == 31 {
			sd = 30
		}
		if ed == 31 {
			ed = 30
		}
	} else {
		lastDayOfMonth := func(y, m int) int {
			return time.Date(y, time.Month(m)+1, 0, 0, 0, 0, 0, time.UTC).Day()
		}
		if sd == lastDayOfMonth(sy, sm) {
			sd = 30
		}
		if ed == 31 && sd == 30 {
			ed = 30
		}
	}
	return float64((ey-sy)*360 + (em-sm)*30 + (ed - sd))
}

// fnWorkdayIntl implements the weekend-mask variant: weekend selects
// which days of the week count as non-working via a 7-character "1"/"0"
// mask string (the numeric codes 1..7 and 11..17 — 1 is Sat/Sun — are
// accepted too), and an optional holiday list is subtracted like NETWORKDAYS.
func fnWorkdayIntl(args []model.Value, ctx Context) model.Value {
	if len(args) < 2 {
		return errVal(ctx, locale.ErrValue)
	}
	startN, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	daysN, err := Num(args[1], ctx)
	if err != nil {
		return err
	}
	weekendMask := defaultWeekendMask()
	if len(args) >= 3 {
		m, werr := parseWeekendArg(args[2], ctx)
		if werr != nil {
			return werr
		}
		weekendMask = m
	}
	if len(weekendMask) >= 7 {
		// An all-ones mask marks every day of the week as a non-workday,
		// which would otherwise spin the loop below forever (spec §5).
		return errVal(ctx, locale.ErrValue)
	}
	holidays := map[string]struct{}{}
	if len(args) >= 4 {
		for _, v := range Flatten(args[3:]) {
			if n, ok := v.(float64); ok {
				holidays[serialToTime(n).Format("2006-01-02")] = struct{}{}
			}
		}
	}
	remaining := int(daysN)
	step := 1
	if remaining < 0 {
		step = -1
		remaining = -remaining
	}
	cur := serialToTime(startN)
	for remaining > 0 {
		cur = cur.AddDate(0, 0, step)
		if weekendMask[int(cur.Weekday())] {
			continue
		}
		if _, ok := holidays[cur.Format("2006-01-02")]; ok {
			continue
		}
		remaining--
	}
	return timeToSerial(cur)
}

func fnNetworkdays(args []model.Value, ctx Context) model.Value {
	if len(args) < 2 {
		return errVal(ctx, locale.ErrValue)
	}
	startN, err := Num(args[0], ctx)
	if err != nil {
		return err
	}
	endN, err := Num(args[1], ctx)
	if err != nil {
		return err
	}
	holidays := map[string]struct{}{}
	if len(args) >= 3 {
		for _, v := range Flatten(args[2:]) {
			if n, ok := v.(float64); ok {
				holidays[serialToTime(n).Format("2006-01-02")] = struct{}{}
			}
		}
	}
	start := serialToTime(startN)
	end := serialToTime(endN)
	step := 1
	if end.Before(start) {
		start, end = end, start
		step = -1
	}
	weekendMask := defaultWeekendMask()
	count := 0
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		if weekendMask[int(cur.Weekday())] {
			continue
		}
		if _, ok := holidays[cur.Format("2006-01-02")]; ok {
			continue
		}
		count++
	}
	return float64(count * step)
}

func defaultWeekendMask() map[int]bool {
	return map[int]bool{int(time.Saturday): true, int(time.Sunday): true}
}

// parseWeekendArg decodes WORKDAY.INTL's weekend argument: either one of
// the fourteen numeric codes 1..7/11..17, or a 7-char "1"/"0" string
// starting Monday where '1' marks a non-working day. A malformed mask
// string (wrong length or character) is spec §5's #VALUE!.
func parseWeekendArg(v model.Value, ctx Context) (map[int]bool, *model.ErrorValue) {
	if s, ok := v.(string); ok {
		if len(s) != 7 {
			return nil, errVal(ctx, locale.ErrValue)
		}
		mask := map[int]bool{}
		days := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}
		for i, c := range s {
			switch c {
			case '1':
				mask[int(days[i])] = true
			case '0':
			default:
				return nil, errVal(ctx, locale.ErrValue)
			}
		}
		return mask, nil
	}
	n, err := Num(v, ctx)
	if err != nil {
		return nil, err
	}
	switch int(n) {
	case 1:
		return map[int]bool{int(time.Saturday): true, int(time.Sunday): true}, nil
	case 2:
		return map[int]bool{int(time.Sunday): true, int(time.Monday): true}, nil
	case 3:
		return map[int]bool{int(time.Monday): true, int(time.Tuesday): true}, nil
	case 4:
		return map[int]bool{int(time.Tuesday): true, int(time.Wednesday): true}, nil
	case 5:
		return map[int]bool{int(time.Wednesday): true, int(time.Thursday): true}, nil
	case 6:
		return map[int]bool{int(time.Thursday): true, int(time.Friday): true}, nil
	case 7:
		return map[int]bool{int(time.Friday): true, int(time.Saturday): true}, nil
	case 11:
		return map[int]bool{int(time.Sunday): true}, nil
	case 12:
		return map[int]bool{int(time.Monday): true}, nil
	case 13:
		return map[int]bool{int(time.Tuesday): true}, nil
	case 14:
		return map[int]bool{int(time.Wednesday): true}, nil
	case 15:
		return map[int]bool{int(time.Thursday): true}, nil
	case 16:
		return map[int]bool{int(time.Friday): true}, nil
	case 17:
		return map[int]bool{int(time.Saturday): true}, nil
	default:
		return nil, errVal(ctx, locale.ErrNum)
	}
}
