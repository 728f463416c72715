package emulator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDate renders t using PHP date() format letters ("Y-m-d_H-i-s").
// Unknown letters are copied verbatim; a backslash escapes the next rune.
func FormatDate(layout string, t time.Time) string {
	var b strings.Builder
	runes := []rune(layout)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' {
			if i+1 < len(runes) {
				i++
				b.WriteRune(runes[i])
			}
			continue
		}
		b.WriteString(formatLetter(r, t))
	}
	return b.String()
}

func formatLetter(r rune, t time.Time) string {
	switch r {
	// day
	case 'd':
		return pad2(t.Day())
	case 'D':
		return t.Format("Mon")
	case 'j':
		return strconv.Itoa(t.Day())
	case 'l':
		return t.Weekday().String()
	case 'N':
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7
		}
		return strconv.Itoa(wd)
	case 'S':
		return ordinalSuffix(t.Day())
	case 'w':
		return strconv.Itoa(int(t.Weekday()))
	case 'z':
		return strconv.Itoa(t.YearDay() - 1)
	// week
	case 'W':
		_, w := t.ISOWeek()
		return pad2(w)
	// month
	case 'F':
		return t.Month().String()
	case 'm':
		return pad2(int(t.Month()))
	case 'M':
		return t.Format("Jan")
	case 'n':
		return strconv.Itoa(int(t.Month()))
	case 't':
		return strconv.Itoa(daysIn(t))
	// year
	case 'L':
		if daysInYear(t.Year()) == 366 {
			return "1"
		}
		return "0"
	case 'o':
		y, _ := t.ISOWeek()
		return strconv.Itoa(y)
	case 'Y':
		return strconv.Itoa(t.Year())
	case 'y':
		return t.Format("06")
	// time
	case 'a':
		return t.Format("pm")
	case 'A':
		return t.Format("PM")
	case 'g':
		return t.Format("3")
	case 'G':
		return strconv.Itoa(t.Hour())
	case 'h':
		return t.Format("03")
	case 'H':
		return pad2(t.Hour())
	case 'i':
		return pad2(t.Minute())
	case 's':
		return pad2(t.Second())
	case 'u':
		return fmt.Sprintf("%06d", t.Nanosecond()/int(time.Microsecond))
	case 'v':
		return fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond))
	// timezone
	case 'e':
		return t.Location().String()
	case 'O':
		return t.Format("-0700")
	case 'P':
		return t.Format("-07:00")
	case 'T':
		return t.Format("MST")
	case 'Z':
		_, off := t.Zone()
		return strconv.Itoa(off)
	// full date/time
	case 'c':
		return t.Format("2006-01-02T15:04:05-07:00")
	case 'r':
		return t.Format("Mon, 02 Jan 2006 15:04:05 -0700")
	case 'U':
		return strconv.FormatInt(t.Unix(), 10)
	}
	return string(r)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func daysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
