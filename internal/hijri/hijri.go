// Package hijri converts Gregorian instants to tabular (civil) Islamic
// calendar dates and computes the countdown to a configured target day.
//
// The conversion is pure arithmetic: Gregorian date -> Julian day number
// -> tabular Hijri year/month/day. No locale or ICU facility is
// involved, so the rendered month name is always one of the twelve
// canonical transliterations below.
package hijri

import (
	"fmt"
	"time"
)

// monthNames is the fixed month vocabulary, indexed by Hijri month 1-12.
var monthNames = [12]string{
	"Muharram",
	"Safar",
	"Rabi Al Awwal",
	"Rabi Al Thani",
	"Jumada Al Ula",
	"Jumada Al Akhira",
	"Rajab",
	"Sha'ban",
	"Ramadan",
	"Shawwal",
	"Dhu al-Qadah",
	"Dhu al-Hijjah",
}

// hijriEpochJDN is the Julian day number offset for the civil tabular
// calendar: 1 Muharram 1 AH falls on 19 July 622 (proleptic Gregorian).
const hijriEpochJDN = 1948440

// Date is a date in the tabular Islamic calendar.
type Date struct {
	Day   int
	Month int // 1-12
	Year  int
}

// MonthName returns the canonical transliteration of the date's month.
func (d Date) MonthName() string {
	return monthNames[d.Month-1]
}

// Label renders the date as e.g. "18 Rabi Al Awwal 1448AH".
func (d Date) Label() string {
	return fmt.Sprintf("%d %s %dAH", d.Day, d.MonthName(), d.Year)
}

// Converter maps Gregorian instants into the secondary calendar. The
// offset fixes which civil day an instant belongs to, so the label does
// not depend on the host timezone.
type Converter struct {
	offset *time.Location
}

// NewConverter returns a Converter that resolves instants to calendar
// days at the given fixed UTC offset in hours.
func NewConverter(offsetHours int) *Converter {
	return &Converter{offset: time.FixedZone("reminder", offsetHours*3600)}
}

// FromGregorian converts the calendar day containing t to a tabular
// Hijri date.
func (c *Converter) FromGregorian(t time.Time) Date {
	y, m, d := t.In(c.offset).Date()
	return fromJDN(gregorianJDN(y, int(m), d))
}

// Label returns the Hijri label for the calendar day containing t. It
// returns an empty string for instants before the Hijri epoch, where the
// tabular arithmetic has no meaningful rendering.
func (c *Converter) Label(t time.Time) string {
	d := c.FromGregorian(t)
	if d.Year < 1 {
		return ""
	}
	return d.Label()
}

// GregorianLabel renders the calendar day containing t as an ISO
// YYYY-MM-DD string at the converter's offset.
func (c *Converter) GregorianLabel(t time.Time) string {
	return t.In(c.offset).Format("2006-01-02")
}

// DaysUntil returns the number of whole calendar days from now until
// target, both resolved at the converter's offset. A target on the
// current day or in the past yields 0; the time-of-day component never
// affects the count.
func (c *Converter) DaysUntil(target, now time.Time) int {
	ty, tm, td := target.In(c.offset).Date()
	ny, nm, nd := now.In(c.offset).Date()
	diff := gregorianJDN(ty, int(tm), td) - gregorianJDN(ny, int(nm), nd)
	if diff < 0 {
		return 0
	}
	return diff
}

// gregorianJDN computes the Julian day number for a proleptic Gregorian
// date (Fliegel-Van Flandern).
func gregorianJDN(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// fromJDN converts a Julian day number to a tabular civil Hijri date
// using the 30-year intercalation cycle (11 leap years of 355 days per
// 10631-day cycle).
func fromJDN(jdn int) Date {
	l := jdn - hijriEpochJDN + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	month := (24 * l) / 709
	day := l - (709*month)/24
	year := 30*n + j - 30
	return Date{Day: day, Month: month, Year: year}
}
