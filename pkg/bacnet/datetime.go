package bacnet

import (
	"cmp"
	"fmt"
	"time"
)

// Wildcard is the "unspecified" value for any date or time octet.
const Wildcard uint8 = 0xFF

// WildcardYear is the full year that encodes as the wildcard year octet.
const WildcardYear uint16 = 1900 + 0xFF

// Date is a BACnet date. Weekday runs 1 (Monday) to 7 (Sunday).
type Date struct {
	Year    uint16
	Month   uint8
	Day     uint8
	Weekday uint8
}

// Time is a BACnet time of day.
type Time struct {
	Hour       uint8
	Minute     uint8
	Second     uint8
	Hundredths uint8
}

// DateTime is a date and a time of day.
type DateTime struct {
	Date Date
	Time Time
}

// WildcardDateTime returns a datetime with every field unspecified.
func WildcardDateTime() DateTime {
	return DateTime{
		Date: Date{Year: WildcardYear, Month: Wildcard, Day: Wildcard, Weekday: Wildcard},
		Time: Time{Hour: Wildcard, Minute: Wildcard, Second: Wildcard, Hundredths: Wildcard},
	}
}

// IsWildcard reports whether every field is unspecified.
func (d DateTime) IsWildcard() bool {
	return d == WildcardDateTime()
}

// DateTimeFromTime converts t (in its own location) to a DateTime.
func DateTimeFromTime(t time.Time) DateTime {
	wd := uint8(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return DateTime{
		Date: Date{
			Year:    uint16(t.Year()),
			Month:   uint8(t.Month()),
			Day:     uint8(t.Day()),
			Weekday: wd,
		},
		Time: Time{
			Hour:       uint8(t.Hour()),
			Minute:     uint8(t.Minute()),
			Second:     uint8(t.Second()),
			Hundredths: uint8(t.Nanosecond() / int(10*time.Millisecond)),
		},
	}
}

// Compare orders two datetimes field by field (year, month, day, hour,
// minute, second, hundredths). The weekday does not take part.
// It returns -1, 0 or +1.
func (d DateTime) Compare(o DateTime) int {
	if c := cmp.Compare(d.Date.Year, o.Date.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Date.Month, o.Date.Month); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Date.Day, o.Date.Day); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Time.Hour, o.Time.Hour); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Time.Minute, o.Time.Minute); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Time.Second, o.Time.Second); c != 0 {
		return c
	}
	return cmp.Compare(d.Time.Hundredths, o.Time.Hundredths)
}

// String returns the datetime as "YYYY-MM-DD hh:mm:ss.hh" with '*' for
// unspecified fields.
func (d DateTime) String() string {
	if d.IsWildcard() {
		return "*"
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%02d",
		d.Date.Year, d.Date.Month, d.Date.Day,
		d.Time.Hour, d.Time.Minute, d.Time.Second, d.Time.Hundredths)
}

// TimeStampTag selects the TimeStamp choice.
type TimeStampTag uint8

const (
	TimeStampTime     TimeStampTag = 0
	TimeStampSequence TimeStampTag = 1
	TimeStampDateTime TimeStampTag = 2
)

// TimeStamp is the BACnetTimeStamp choice.
type TimeStamp struct {
	Tag            TimeStampTag
	Time           Time
	SequenceNumber uint32
	DateTime       DateTime
}

// DateTimeStamp wraps dt as a datetime-tagged TimeStamp.
func DateTimeStamp(dt DateTime) TimeStamp {
	return TimeStamp{Tag: TimeStampDateTime, DateTime: dt}
}
