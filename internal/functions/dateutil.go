package functions

import "time"

// excelEpoch is serial date 0 under the 1900 date system: December 31,
// 1899 ("January 0, 1900"), so serial 1 is January 1, 1900. Grounded on model.ExcelDateBase's documented proleptic-day-count
// offset (internal/model/address.go); kept local to this package rather
// than imported because only the function library needs a Go time.Time
// view of a serial, not the model.
var excelEpoch = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)

// serialToTime converts an Excel date serial (days since the 1900 epoch,
// with fractional part as a time-of-day) to a Go time, preserving the
// historical Lotus 1-2-3 bug that treats 1900 as a leap year: serial 60
// is the fictitious February 29, 1900, so every serial at or above it is
// shifted back one day before adding to the real epoch.
func serialToTime(serial float64) time.Time {
	days := int(serial)
	frac := serial - float64(days)
	if days >= 60 {
		days--
	}
	t := excelEpoch.AddDate(0, 0, days)
	if frac > 0 {
		t = t.Add(time.Duration(frac*24*3600) * time.Second)
	}
	return t
}

// timeToSerial is serialToTime's inverse.
func timeToSerial(t time.Time) float64 {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(midnight.Sub(excelEpoch).Hours() / 24)
	if days >= 60 {
		days++
	}
	frac := t.Sub(midnight).Hours() / 24
	return float64(days) + frac
}

func dateSerial(year, month, day int) float64 {
	return timeToSerial(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
}
