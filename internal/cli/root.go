package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/7c/procmon/internal/display"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	// jsonOutput and yamlOutput select machine-readable output.
	jsonOutput bool
	yamlOutput bool

	configFlag  string
	refreshFlag time.Duration
	sortFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "procmon",
	Short: display.CBold + "procmon" + display.CReset + " - interactive process monitor",
	Long: "procmon samples the process table and shows a live, sortable view of\n" +
		"per-process CPU and memory use. Run without a command to start the monitor.",
	Args: cobra.NoArgs,
	Run:  runTop,
}

// coloredHelpTemplate is the Cobra help template with ANSI colors.
var coloredHelpTemplate = `{{with .Long}}{{. | trimTrailingWhitespaces}}

{{end}}` +
	`{{if or .Runnable .HasSubCommands}}` + display.CYellow + `Usage:` + display.CReset + `{{end}}
{{if .Runnable}}  {{.UseLine}}{{end}}` +
	`{{if .HasAvailableSubCommands}}  {{.CommandPath}} [command]{{end}}

` +
	`{{if gt (len .Aliases) 0}}` + display.CYellow + `Aliases:` + display.CReset + `
  {{.NameAndAliases}}

{{end}}` +
	`{{if .HasExample}}` + display.CYellow + `Examples:` + display.CReset + `
{{.Example}}

{{end}}` +
	`{{if .HasAvailableSubCommands}}` + display.CYellow + `Available Commands:` + display.CReset + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  ` + display.CCyan + `{{rpad .Name .NamePadding}}` + display.CReset + `  {{.Short}}{{end}}{{end}}

{{end}}` +
	`{{if .HasAvailableLocalFlags}}` + display.CYellow + `Flags:` + display.CReset + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}` +
	`{{if .HasAvailableInheritedFlags}}` + display.CYellow + `Global Flags:` + display.CReset + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}` +
	`{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&jsonOutput, "json", false, "output in JSON format")
	pf.BoolVar(&yamlOutput, "yaml", false, "output in YAML format")
	pf.StringVar(&configFlag, "config", "", "path to procmon.config.json")
	pf.DurationVar(&refreshFlag, "refresh", time.Second, "sampling interval (minimum 200ms)")
	pf.StringVar(&sortFlag, "sort", "pid", "sort order: pid, cpu or mem")

	rootCmd.SetHelpTemplate(coloredHelpTemplate)

	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(pidCmd)
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(suspendCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(configShowCmd)
}

// Execute runs the root command.
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
