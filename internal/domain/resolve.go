package domain

// ResolveDaySchedule merges the weekly template with any applicable date
// override for one calendar date. This is the single home of the override
// precedence rule: the single-date and range availability paths both call
// it rather than re-deriving the conditionals.
//
// An override that matches supersedes the template entirely. A closed
// override still carries the template's slot duration as a fallback default
// since callers may read the field; an open override carries its own hours
// but never its own slot granularity.
func ResolveDaySchedule(date string, dayOfWeek int, templates map[int]WeeklyTemplate, overrides []DateOverride) DaySchedule {
	tpl, hasTemplate := templates[dayOfWeek]

	duration := 0
	if hasTemplate {
		duration = tpl.SlotDurationMinutes
	}

	if o, ok := MatchOverride(date, overrides); ok {
		reason := ""
		if o.Reason != nil {
			reason = *o.Reason
		}
		if o.IsClosed || o.OpenTime == nil || o.CloseTime == nil {
			return DaySchedule{IsOpen: false, SlotDurationMinutes: duration, OverrideReason: reason}
		}
		return DaySchedule{
			IsOpen:              true,
			OpenTime:            *o.OpenTime,
			CloseTime:           *o.CloseTime,
			SlotDurationMinutes: duration,
			OverrideReason:      reason,
		}
	}

	// No template row means closed, not an error.
	if !hasTemplate || !tpl.IsOpen {
		return DaySchedule{IsOpen: false, SlotDurationMinutes: duration}
	}

	return DaySchedule{
		IsOpen:              true,
		OpenTime:            tpl.OpenTime,
		CloseTime:           tpl.CloseTime,
		SlotDurationMinutes: duration,
	}
}

// MatchOverride returns the override applying to date, if any. When several
// overrides cover the same date the tie-break is deterministic: a
// non-recurring override beats a recurring one, and among equals the
// earliest-created wins.
func MatchOverride(date string, overrides []DateOverride) (DateOverride, bool) {
	var best DateOverride
	found := false

	for _, o := range overrides {
		if !OverrideCoversDate(o, date) {
			continue
		}
		if !found || overrideBeats(o, best) {
			best = o
			found = true
		}
	}

	return best, found
}

func overrideBeats(a, b DateOverride) bool {
	if a.IsRecurring != b.IsRecurring {
		return !a.IsRecurring
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// OverrideCoversDate reports whether the override's inclusive range
// [date, end_date ?? date] contains the queried date. Recurring overrides
// match on month+day every year; non-recurring ones require the exact
// stored year.
func OverrideCoversDate(o DateOverride, date string) bool {
	if len(date) != 10 || len(o.Date) != 10 {
		return false
	}

	start := o.Date
	end := start
	if o.EndDate != nil && len(*o.EndDate) == 10 {
		end = *o.EndDate
	}

	if !o.IsRecurring {
		// ISO date strings order lexicographically.
		return date >= start && date <= end
	}

	md := date[5:]
	startMD := start[5:]
	endMD := end[5:]

	if startMD <= endMD {
		return md >= startMD && md <= endMD
	}
	// Range wraps the year boundary (e.g. Dec 30 .. Jan 2).
	return md >= startMD || md <= endMD
}
