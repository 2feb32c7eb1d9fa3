package core

// Timer frequency: one tick per microsecond, matching the RP2040 system timer
const (
	TimerFreq = 1000000
)

var bootTime uint32 // Time at boot for uptime calculation

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// Uptime returns ticks elapsed since TimerInit, modulo 2^32
func Uptime() uint32 {
	return GetTime() - bootTime
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerFromMS converts milliseconds to timer ticks
func TimerFromMS(ms uint32) uint32 {
	return uint32(uint64(ms) * TimerFreq / 1000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// TimerBefore reports whether a is earlier than b, tolerating counter wrap.
// The 32-bit microsecond counter wraps every ~71 minutes.
func TimerBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// TimerInit initializes the system timer
func TimerInit() {
	bootTime = GetTime()
}

// ProcessTimers processes scheduled timers
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}
