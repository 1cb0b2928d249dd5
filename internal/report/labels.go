package report

import (
	"fmt"
	"time"
)

var ptMonths = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// DayLabel renders t as "05 de mar".
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%02d de %s", t.Day(), ptMonths[t.Month()-1])
}

// MonthLabel renders t as "Mar/2024".
func MonthLabel(t time.Time) string {
	m := ptMonths[t.Month()-1]
	return fmt.Sprintf("%s%s/%d", string(m[0]-'a'+'A'), m[1:], t.Year())
}
