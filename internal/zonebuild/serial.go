package zonebuild

import "time"

// dateBase returns the YYYYMMDD00 base for now's UTC calendar date, so the
// first serial issued that day is dateBase+1 (spec §4.5: "the serial is
// derived from the current UTC date as YYYYMMDD01").
func dateBase(now time.Time) uint32 {
	d := now.UTC()
	return uint32(d.Year())*10000*100 + uint32(d.Month())*100*100 + uint32(d.Day())*100
}

// InitialSerial returns the first serial of the UTC day containing now.
func InitialSerial(now time.Time) uint32 {
	return dateBase(now) + 1
}

// NextSerial advances previous to the next serial for now: an increment
// within the same UTC day previous was issued on, or today's base+1 when
// the calendar date has rolled over (spec §4.5: "bumps the serial
// (increment within the same day, roll over to the next day's base on
// date change)").
func NextSerial(previous uint32, now time.Time) uint32 {
	base := dateBase(now)
	if previous >= base && previous < base+100 {
		return previous + 1
	}
	return base + 1
}
