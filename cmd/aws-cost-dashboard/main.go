package main

import (
	"fmt"
	"os"

	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driven/aws"
	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driven/config"
	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driven/export"
	"github.com/diillson/aws-cost-dashboard-go/internal/adapter/driving/cli"
	"github.com/diillson/aws-cost-dashboard-go/pkg/console"
	"github.com/diillson/aws-cost-dashboard-go/pkg/version"
)

func main() {
	// O repositório AWS depende do perfil, que só é conhecido depois de ler flags e config.
	app := cli.NewCLIApp(
		version.FormatVersion(),
		aws.NewAWSRepository,
		export.NewExportRepository(),
		config.NewConfigRepository(),
		console.NewConsole(),
	)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
