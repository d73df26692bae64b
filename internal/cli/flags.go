package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	LogLevel string

	// Rendering flags
	Engine     string
	RstCommand string

	// Editor flags
	Preview    bool
	AutoReload bool

	// History flags
	NoHistory bool
	HistoryDB string

	// Export flags
	ExportDir string
	BatchFile string
	Force     bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:   "info",
		Engine:     "docutils",
		RstCommand: "rst2html",
		Preview:    true,
		AutoReload: true,
	}
}
