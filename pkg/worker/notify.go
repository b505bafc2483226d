package worker

import "github.com/nikosa/p2pflow/pkg/driver"

// DriverNotifier adapts the automation driver's fine-grained state
// transitions onto job-level progress events, so an observer sees one
// consistent stream. Wire it to driver.OnState.
func DriverNotifier(fn func(Event)) func(platform string, state driver.State) {
	return func(platform string, state driver.State) {
		var js JobState
		switch state {
		case driver.StateInit:
			js = StatePending
		case driver.StateLoggingIn, driver.StateLoggedIn:
			js = StateAuthenticating
		case driver.StateSettingDateRange, driver.StateGeneratingStatement:
			js = StateAwaitingStatement
		case driver.StateDownloading, driver.StateDownloaded:
			js = StateDownloading
		case driver.StateLoggingOut, driver.StateDone:
			return
		default:
			return
		}
		fn(Event{Platform: platform, State: js, Message: string(state)})
	}
}
