package ledger

// Window bounds a trend to the most recent N days.
type Window string

const (
	Window3M  Window = "3m"
	Window6M  Window = "6m"
	Window1Y  Window = "1y"
	WindowAll Window = "all"

	DefaultWindow = Window1Y
)

var windowDays = map[Window]int{
	Window3M:  90,
	Window6M:  180,
	Window1Y:  365,
	WindowAll: 0,
}

var windowLabels = map[Window]string{
	Window3M:  "3 months",
	Window6M:  "6 months",
	Window1Y:  "1 year",
	WindowAll: "All",
}

// Windows returns the selectable windows, shortest first.
func Windows() []Window {
	return []Window{Window3M, Window6M, Window1Y, WindowAll}
}

// ParseWindow maps a token to a Window. Unknown tokens fall back to DefaultWindow.
func ParseWindow(token string) Window {
	w := Window(token)
	if _, ok := windowDays[w]; !ok {
		return DefaultWindow
	}
	return w
}

func (w Window) Days() int {
	return windowDays[w]
}

func (w Window) Label() string {
	return windowLabels[w]
}

// Since returns the first day inside the window ending on today. Unbounded windows
// report false.
func (w Window) Since(today Date) (Date, bool) {
	days := w.Days()
	if days == 0 {
		return Date{}, false
	}
	return today.AddDays(-days), true
}
