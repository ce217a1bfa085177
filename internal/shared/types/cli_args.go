package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile  string
	Profile     string
	Listen      string
	Dir         string
	Threshold   *float64
	OthersLabel string
	ShowBudgets *bool
	NoBanner    bool

	// Set by the report subcommand only.
	StartDate  string
	EndDate    string
	ReportName string
	ReportType []string
}
