package format

import "time"

// excelEpoch mirrors internal/functions' serial-date conversion
// (serial 0 is December 31, 1899, with the 1900 fictitious-leap-day bug
// preserved) so a formatted date and a TEXT()-formatted date agree.
// Duplicated rather than imported because internal/functions would
// otherwise need to import internal/format for TEXT(), and
// internal/format has no other reason to depend on the function library.
var excelEpoch = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)

// civilFromSerial converts an Excel date serial to a (year, month, day)
// triple.
func civilFromSerial(serial float64) (year, month, day int) {
	days := int(serial)
	if days >= 60 {
		days--
	}
	t := excelEpoch.AddDate(0, 0, days)
	return t.Year(), int(t.Month()), t.Day()
}
