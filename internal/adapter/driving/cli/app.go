package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driving/web"
	"github.com/diillson/aws-cost-dashboard-go/internal/application/usecase"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/repository"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
	"github.com/diillson/aws-cost-dashboard-go/pkg/version"
)

// AWSRepositoryFactory builds the billing adapter once the profile is known.
type AWSRepositoryFactory func(ctx context.Context, profile string) (repository.AWSRepository, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	newAWSRepo AWSRepositoryFactory
	exportRepo repository.ExportRepository
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface
	version    string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(
	versionStr string,
	newAWSRepo AWSRepositoryFactory,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *CLIApp {
	app := &CLIApp{
		newAWSRepo: newAWSRepo,
		exportRepo: exportRepo,
		configRepo: configRepo,
		console:    console,
		version:    versionStr,
	}

	rootCmd := &cobra.Command{
		Use:           "aws-cost-dashboard",
		Short:         "Monthly AWS cost-by-service dashboard",
		Long:          "Serves a local dashboard that charts AWS Cost Explorer usage cost by service for a date range.",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runServe,
	}
	rootCmd.SetVersionTemplate(`{{printf "AWS Cost Dashboard version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("profile", "p", "", "AWS profile to use (default: ambient credential chain)")
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.Float64("threshold", types.DefaultThreshold, "Share of the mean period total below which services are merged into Others")
	flags.String("others-label", types.DefaultOthersLabel, "Label of the merged low-spend column")
	flags.Bool("no-banner", false, "Do not print the startup banner")

	rootCmd.Flags().StringP("listen", "l", types.DefaultListen, "Address the dashboard listens on")
	rootCmd.Flags().Bool("show-budgets", false, "Show AWS Budgets on the dashboard")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate one date range, print it and optionally export it",
		RunE:  app.runReport,
	}
	reportCmd.Flags().String("start", "", "Start date, inclusive (YYYY-MM-DD)")
	reportCmd.Flags().String("end", "", "End date, exclusive (YYYY-MM-DD)")
	reportCmd.Flags().StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	reportCmd.Flags().StringSliceP("report-type", "y", nil, "Specify report types: csv, json, pdf")
	_ = reportCmd.MarkFlagRequired("start")
	_ = reportCmd.MarkFlagRequired("end")

	rootCmd.AddCommand(reportCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// SetArgs overrides os.Args, used by tests.
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
// Only flags the user actually set end up in the struct, so the config file keeps its values.
func (app *CLIApp) parseArgs(cmd *cobra.Command) *types.CLIArgs {
	flags := cmd.Flags()
	args := &types.CLIArgs{}

	args.Profile, _ = flags.GetString("profile")
	args.ConfigFile, _ = flags.GetString("config-file")
	args.Dir, _ = flags.GetString("dir")
	args.NoBanner, _ = flags.GetBool("no-banner")

	if flags.Changed("threshold") {
		threshold, _ := flags.GetFloat64("threshold")
		args.Threshold = &threshold
	}
	if flags.Changed("others-label") {
		args.OthersLabel, _ = flags.GetString("others-label")
	}
	if flags.Lookup("listen") != nil && flags.Changed("listen") {
		args.Listen, _ = flags.GetString("listen")
	}
	if flags.Lookup("show-budgets") != nil && flags.Changed("show-budgets") {
		showBudgets, _ := flags.GetBool("show-budgets")
		args.ShowBudgets = &showBudgets
	}

	if flags.Lookup("start") != nil {
		args.StartDate, _ = flags.GetString("start")
		args.EndDate, _ = flags.GetString("end")
		args.ReportName, _ = flags.GetString("report-name")
		args.ReportType, _ = flags.GetStringSlice("report-type")
	}

	return args
}

// setup resolves settings and credentials shared by both commands.
// A credential chain that cannot identify the caller is fatal here, before anything is served.
func (app *CLIApp) setup(ctx context.Context, cliArgs *types.CLIArgs) (*usecase.ReportUseCase, types.Settings, string, error) {
	settings, err := usecase.ResolveSettings(app.configRepo, app.console, cliArgs)
	if err != nil {
		return nil, types.Settings{}, "", err
	}

	awsRepo, err := app.newAWSRepo(ctx, settings.Profile)
	if err != nil {
		return nil, types.Settings{}, "", err
	}

	uc := usecase.NewReportUseCase(awsRepo, app.exportRepo, app.console)
	uc.Configure(settings)

	accountID, err := uc.VerifyCredentials(ctx)
	if err != nil {
		return nil, types.Settings{}, "", err
	}

	profile := settings.Profile
	if profile == "" {
		profile = "default credential chain"
	}
	app.console.LogInfo("Using AWS account %s (%s)", accountID, profile)

	return uc, settings, accountID, nil
}

// runServe é o ponto de entrada principal: serve o dashboard até receber um sinal.
func (app *CLIApp) runServe(cmd *cobra.Command, _ []string) error {
	cliArgs := app.parseArgs(cmd)
	if !cliArgs.NoBanner {
		displayWelcomeBanner(app.version)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uc, settings, accountID, err := app.setup(ctx, cliArgs)
	if err != nil {
		return err
	}

	return web.NewServer(uc, app.console, settings, accountID).Run(ctx)
}

func (app *CLIApp) runReport(cmd *cobra.Command, _ []string) error {
	cliArgs := app.parseArgs(cmd)
	if !cliArgs.NoBanner {
		displayWelcomeBanner(app.version)
	}

	ctx := cmd.Context()
	uc, settings, _, err := app.setup(ctx, cliArgs)
	if err != nil {
		return err
	}

	return uc.RunReport(ctx, cliArgs, settings)
}
