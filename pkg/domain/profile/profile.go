// Package profile holds the webhook profile model: the profile record, the
// collection and selection that the operator edits, and the template overlay.
package profile

// Default text values shared by NewProfile and the reset helpers.
const (
	DefaultHeaders = "{\n  \"Content-Type\": \"application/json\"\n}"

	DefaultData = "{\n  \"deviceIdentifier\":\"@deviceIdentifier\",\n  \"apiSecret\":\"@apiSecret\",\n" +
		"  \"topic\":\"@topic\",\n  \"message\":\"@message\",\n  \"extra\":\"@extra\",\n" +
		"  \"state\": \"@state\",\n  \"job\": \"@job\",\n  \"progress\": \"@progress\",\n" +
		"  \"currentZ\": \"@currentZ\",\n  \"offsets\": \"@offsets\",\n  \"meta\": \"@meta\",\n" +
		"  \"currentTime\": \"@currentTime\",\n  \"snapshot\": \"@snapshot\"\n}"

	DefaultOAuthHeaders = "{\n  \"Content-Type\": \"application/json\"\n}"

	DefaultOAuthData = "{\n  \"client_id\":\"myClient\",\n  \"client_secret\":\"mySecret\",\n" +
		"  \"grant_type\":\"client_credentials\"\n}"
)

// CustomEvent is a user named event with its own message.
type CustomEvent struct {
	Name    string `json:"name" yaml:"name"`
	Message string `json:"message" yaml:"message"`
}

// Profile is one complete webhook configuration.
type Profile struct {
	URL              string `json:"url" yaml:"url"`
	APISecret        string `json:"apiSecret" yaml:"apiSecret"`
	DeviceIdentifier string `json:"deviceIdentifier" yaml:"deviceIdentifier"`
	Enabled          bool   `json:"webhook_enabled" yaml:"webhook_enabled"`
	EventCooldown    int    `json:"event_cooldown" yaml:"event_cooldown"`

	EventPrintStarted     bool   `json:"eventPrintStarted" yaml:"eventPrintStarted"`
	EventPrintDone        bool   `json:"eventPrintDone" yaml:"eventPrintDone"`
	EventPrintFailed      bool   `json:"eventPrintFailed" yaml:"eventPrintFailed"`
	EventPrintPaused      bool   `json:"eventPrintPaused" yaml:"eventPrintPaused"`
	EventUserActionNeeded bool   `json:"eventUserActionNeeded" yaml:"eventUserActionNeeded"`
	EventError            bool   `json:"eventError" yaml:"eventError"`
	EventPrintProgress    bool   `json:"event_print_progress" yaml:"event_print_progress"`
	PrintProgressInterval string `json:"event_print_progress_interval" yaml:"event_print_progress_interval"`

	PrintStartedMessage     string `json:"eventPrintStartedMessage" yaml:"eventPrintStartedMessage"`
	PrintDoneMessage        string `json:"eventPrintDoneMessage" yaml:"eventPrintDoneMessage"`
	PrintFailedMessage      string `json:"eventPrintFailedMessage" yaml:"eventPrintFailedMessage"`
	PrintPausedMessage      string `json:"eventPrintPausedMessage" yaml:"eventPrintPausedMessage"`
	UserActionNeededMessage string `json:"eventUserActionNeededMessage" yaml:"eventUserActionNeededMessage"`
	PrintProgressMessage    string `json:"eventPrintProgressMessage" yaml:"eventPrintProgressMessage"`
	ErrorMessage            string `json:"eventErrorMessage" yaml:"eventErrorMessage"`

	CustomEvents []CustomEvent `json:"customEvents" yaml:"customEvents"`

	VerifySSL   bool   `json:"verify_ssl" yaml:"verify_ssl"`
	Headers     string `json:"headers" yaml:"headers"`
	Data        string `json:"data" yaml:"data"`
	HTTPMethod  string `json:"http_method" yaml:"http_method"`
	ContentType string `json:"content_type" yaml:"content_type"`

	OAuth            bool   `json:"oauth" yaml:"oauth"`
	OAuthURL         string `json:"oauth_url" yaml:"oauth_url"`
	OAuthHeaders     string `json:"oauth_headers" yaml:"oauth_headers"`
	OAuthData        string `json:"oauth_data" yaml:"oauth_data"`
	OAuthHTTPMethod  string `json:"oauth_http_method" yaml:"oauth_http_method"`
	OAuthContentType string `json:"oauth_content_type" yaml:"oauth_content_type"`

	// TestEvent selects which event the test-fire workflow triggers.
	TestEvent string `json:"test_event" yaml:"test_event"`
}

// NewProfile returns a profile populated with every default value.
func NewProfile() *Profile {
	return &Profile{
		Enabled: true,

		EventPrintStarted:     true,
		EventPrintDone:        true,
		EventPrintFailed:      true,
		EventPrintPaused:      true,
		EventUserActionNeeded: true,
		EventError:            true,
		PrintProgressInterval: "50",

		PrintStartedMessage:     "Your print has started",
		PrintDoneMessage:        "Your print is done.",
		PrintFailedMessage:      "Something went wrong and your print has failed.",
		PrintPausedMessage:      "Your print has paused. You might need to change the filament color.",
		UserActionNeededMessage: "User action needed. You might need to change the filament color.",
		PrintProgressMessage:    "Your print is @percentCompleteMilestone % complete.",
		ErrorMessage:            "There was an error.",

		CustomEvents: []CustomEvent{},

		VerifySSL:   true,
		Headers:     DefaultHeaders,
		Data:        DefaultData,
		HTTPMethod:  "POST",
		ContentType: "JSON",

		OAuthHeaders:     DefaultOAuthHeaders,
		OAuthData:        DefaultOAuthData,
		OAuthHTTPMethod:  "POST",
		OAuthContentType: "JSON",

		TestEvent: EventNamePrintStarted,
	}
}

// Clone returns a deep copy that shares no mutable state with p.
func (p *Profile) Clone() *Profile {
	c := *p
	c.CustomEvents = make([]CustomEvent, len(p.CustomEvents))
	copy(c.CustomEvents, p.CustomEvents)
	return &c
}

// AddCustomEvent appends an empty custom event and returns its index.
func (p *Profile) AddCustomEvent() int {
	p.CustomEvents = append(p.CustomEvents, CustomEvent{})
	return len(p.CustomEvents) - 1
}

// RemoveCustomEvent deletes the custom event at i.
func (p *Profile) RemoveCustomEvent(i int) error {
	if i < 0 || i >= len(p.CustomEvents) {
		return &IndexError{Kind: "custom event", Index: i, Len: len(p.CustomEvents)}
	}
	p.CustomEvents = append(p.CustomEvents[:i], p.CustomEvents[i+1:]...)
	return nil
}

func (p *Profile) ResetData()         { p.Data = DefaultData }
func (p *Profile) ResetHeaders()      { p.Headers = DefaultHeaders }
func (p *Profile) ResetOAuthData()    { p.OAuthData = DefaultOAuthData }
func (p *Profile) ResetOAuthHeaders() { p.OAuthHeaders = DefaultOAuthHeaders }
