package domain

// Screen identifies a navigation target.
type Screen string

const (
	ScreenNone     Screen = ""
	ScreenLogin    Screen = "Login"
	ScreenEventMap Screen = "EventsMap"
	ScreenAddEvent Screen = "AddEvent"
)
