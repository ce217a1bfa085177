package usecase

import (
	"os"
	"path/filepath"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/repository"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

// ResolveSettings builds the runtime settings: defaults, then the config file, then explicit flags.
func ResolveSettings(configRepo repository.ConfigRepository, console types.ConsoleInterface, args *types.CLIArgs) (types.Settings, error) {
	settings := types.DefaultSettings()

	if args.ConfigFile != "" {
		cfg, err := configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return types.Settings{}, err
		}
		settings = settings.Merge(cfg)
		console.LogInfo("Loaded configuration from %s", args.ConfigFile)
	}

	if args.Profile != "" {
		settings.Profile = args.Profile
	}
	if args.Listen != "" {
		settings.Listen = args.Listen
	}
	if args.Dir != "" {
		settings.Dir = args.Dir
	}
	if args.Threshold != nil {
		settings.Threshold = *args.Threshold
	}
	if args.OthersLabel != "" {
		settings.OthersLabel = args.OthersLabel
	}
	if args.ShowBudgets != nil {
		settings.ShowBudgets = *args.ShowBudgets
	}

	// Set default directory to current working directory if not specified
	if settings.Dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return types.Settings{}, err
		}
		settings.Dir = cwd
	} else {
		absDir, err := filepath.Abs(settings.Dir)
		if err != nil {
			return types.Settings{}, err
		}
		settings.Dir = absDir
	}

	if err := settings.Validate(); err != nil {
		return types.Settings{}, err
	}

	return settings, nil
}
