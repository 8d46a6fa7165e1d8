package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	APIAccessKey      string
	SchedulerInterval int
	SourceDelayMs     int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
