// Package format holds the store's display conventions: Japanese calendar
// dates and yen amounts with digit grouping.
package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var yenPrinter = message.NewPrinter(language.Japanese)

var weekdayKanji = map[time.Weekday]string{
	time.Sunday:    "日",
	time.Monday:    "月",
	time.Tuesday:   "火",
	time.Wednesday: "水",
	time.Thursday:  "木",
	time.Friday:    "金",
	time.Saturday:  "土",
}

// DateJP renders an ISO date as a Japanese calendar label, e.g.
// "2024年12月24日(火)". Values carrying a time component group by the calendar
// date alone, so only the first ten characters are considered. Unparseable
// input is returned as-is.
func DateJP(iso string) string {
	if len(iso) > 10 {
		iso = iso[:10]
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("2006年1月2日") + "(" + weekdayKanji[t.Weekday()] + ")"
}

// Yen renders an integer yen amount with ja-JP digit grouping, e.g. "¥3,000".
func Yen(amount int) string {
	return yenPrinter.Sprintf("¥%d", amount)
}

// YenTaxIncluded appends the 税込 marker used on catalog prices.
func YenTaxIncluded(amount int) string {
	return Yen(amount) + " 税込"
}
