// Package calendar converts between Gregorian and Jalali (Solar Hijri)
// dates for display. Scheduling comparisons never use it; due and
// overdue checks always run on absolute time.
package calendar

import (
	"fmt"
	"time"
)

// Date is a Jalali calendar date at day granularity.
type Date struct {
	Year  int
	Month int // 1..12, Farvardin = 1
	Day   int
}

var monthNames = [12]string{
	"فروردین", "اردیبهشت", "خرداد", "تیر",
	"مرداد", "شهریور", "مهر", "آبان",
	"آذر", "دی", "بهمن", "اسفند",
}

var weekdayNames = map[time.Weekday]string{
	time.Saturday:  "شنبه",
	time.Sunday:    "یکشنبه",
	time.Monday:    "دوشنبه",
	time.Tuesday:   "سه‌شنبه",
	time.Wednesday: "چهارشنبه",
	time.Thursday:  "پنج‌شنبه",
	time.Friday:    "جمعه",
}

// cumulative days before each Gregorian month (non-leap).
var gregCumDays = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// FromGregorian converts the calendar date of t to Jalali.
func FromGregorian(t time.Time) Date {
	gy, gm, gd := t.Date()
	return fromYMD(gy, int(gm), gd)
}

func fromYMD(gy, gm, gd int) Date {
	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}
	days := 355666 + 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 + gd + gregCumDays[gm-1]

	jy := -1595 + 33*(days/12053)
	days %= 12053
	jy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		jy += (days - 1) / 365
		days = (days - 1) % 365
	}

	var jm, jd int
	if days < 186 {
		jm = 1 + days/31
		jd = 1 + days%31
	} else {
		jm = 7 + (days-186)/30
		jd = 1 + (days-186)%30
	}
	return Date{Year: jy, Month: jm, Day: jd}
}

// Gregorian converts d back to a Gregorian time at midnight in loc.
func (d Date) Gregorian(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	gy, gm, gd := d.gregorianYMD()
	return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, loc)
}

func (d Date) gregorianYMD() (int, int, int) {
	jy := d.Year + 1595
	days := -355668 + 365*jy + (jy/33)*8 + ((jy%33)+3)/4 + d.Day
	if d.Month < 7 {
		days += (d.Month - 1) * 31
	} else {
		days += (d.Month-7)*30 + 186
	}

	gy := 400 * (days / 146097)
	days %= 146097
	if days > 36524 {
		days--
		gy += 100 * (days / 36524)
		days %= 36524
		if days >= 365 {
			days++
		}
	}
	gy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		gy += (days - 1) / 365
		days = (days - 1) % 365
	}

	gd := days + 1
	feb := 28
	if gy%4 == 0 && gy%100 != 0 || gy%400 == 0 {
		feb = 29
	}
	monthLen := [12]int{31, feb, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	gm := 1
	for gm <= 12 && gd > monthLen[gm-1] {
		gd -= monthLen[gm-1]
		gm++
	}
	return gy, gm, gd
}

// MonthName returns the Persian name of Jalali month m (1..12).
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

// WeekdayName returns the Persian name of the weekday of t.
func WeekdayName(t time.Time) string {
	return weekdayNames[t.Weekday()]
}

// String renders the date as "1403/01/01".
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// Format renders t as a full Persian date label, e.g.
// "چهارشنبه 1 فروردین 1403".
func Format(t time.Time) string {
	d := FromGregorian(t)
	return fmt.Sprintf("%s %d %s %d", WeekdayName(t), d.Day, monthNames[d.Month-1], d.Year)
}

// FormatTime renders the clock portion of t as "HH:MM".
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}
