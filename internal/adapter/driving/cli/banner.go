package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/diillson/aws-cost-dashboard-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
     ___        ______     ____          _     ____            _     _                         _
    / \ \      / / ___|   / ___|___  ___| |_  |  _ \  __ _ ___| |__ | |__   ___   __ _ _ __ __| |
   / _ \ \ /\ / /\___ \  | |   / _ \/ __| __| | | | |/ _' / __| '_ \| '_ \ / _ \ / _' | '__/ _' |
  / ___ \ V  V /  ___) | | |__| (_) \__ \ |_  | |_| | (_| \__ \ | | | |_) | (_) | (_| | | | (_| |
 /_/   \_\_/\_/  |____/   \____\___/|___/\__| |____/ \__,_|___/_| |_|_.__/ \___/ \__,_|_|  \__,_|
`
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))

	if versionStr == "" {
		versionStr = version.FormatVersion()
	}
	fmt.Println(blue(fmt.Sprintf("AWS Cost Dashboard (v%s)", versionStr)))
}
