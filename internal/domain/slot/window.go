package slot

// Operating window shared by the booking grid and calendar sync. Both ends
// are inclusive start hours; every slot lasts one hour.
const (
	OpenHour  = 8
	CloseHour = 20
)

func WithinOperatingWindow(hour int) bool {
	return hour >= OpenHour && hour <= CloseHour
}

// CandidateHours lists the bookable start hours of a day.
func CandidateHours() []int {
	hours := make([]int, 0, CloseHour-OpenHour+1)
	for h := OpenHour; h <= CloseHour; h++ {
		hours = append(hours, h)
	}
	return hours
}
