package profile

// Event names accepted by the host's test-fire command.
const (
	EventNamePrintStarted     = "PrintStarted"
	EventNamePrintDone        = "PrintDone"
	EventNamePrintFailed      = "PrintFailed"
	EventNamePrintPaused      = "PrintPaused"
	EventNameError            = "Error"
	EventNameUserActionNeeded = "plugin_webhooks_notify"
	EventNamePrintProgress    = "plugin_webhooks_progress"
)

var builtinEvents = []string{
	EventNamePrintStarted,
	EventNamePrintDone,
	EventNamePrintFailed,
	EventNamePrintPaused,
	EventNameError,
	EventNameUserActionNeeded,
	EventNamePrintProgress,
}

// TestEvents lists the event names p can be test-fired with: the built-in
// events followed by the profile's named custom events.
func (p *Profile) TestEvents() []string {
	names := make([]string, 0, len(builtinEvents)+len(p.CustomEvents))
	names = append(names, builtinEvents...)
	for _, ce := range p.CustomEvents {
		if ce.Name != "" {
			names = append(names, ce.Name)
		}
	}
	return names
}

// IsTestEvent reports whether name is a valid test event for p.
func (p *Profile) IsTestEvent(name string) bool {
	for _, n := range p.TestEvents() {
		if n == name {
			return true
		}
	}
	return false
}
