package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Parameters a new session starts from
	Defaults Parameters `json:"defaults"`

	// Report metadata
	ReportTitle  string `json:"report_title"`
	ReportAuthor string `json:"report_author"`

	// Application preferences
	ExportDir  string `json:"export_dir"` // "" = current directory
	ServerPort int    `json:"server_port"`
	LogLevel   string `json:"log_level"` // "debug", "info", "warn", "error"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching DefaultParameters().
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Defaults:     DefaultParameters(),
		ReportTitle:  "Buildable Envelope Study",
		ReportAuthor: "",
		ExportDir:    "",
		ServerPort:   3000,
		LogLevel:     "info",
	}
}

// ApplyToParameters copies the configured defaults into p.
// This is used when a session is created so it inherits the user's saved defaults.
func (c AppConfig) ApplyToParameters(p *Parameters) {
	*p = c.Defaults
}
