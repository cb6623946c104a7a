// Package cli holds what the escapetime binaries share: global flags,
// configuration bootstrap and terminal styles.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/marben/escapetime/internal/config"
	"github.com/marben/escapetime/internal/logger"
)

// Globals are the persistent flags every root command carries.
type Globals struct {
	ConfigFile string
	Verbose    bool

	cfg *config.Config
}

// AddGlobalFlags registers --config and --verbose on root.
func AddGlobalFlags(root *cobra.Command, g *Globals) {
	root.PersistentFlags().StringVarP(&g.ConfigFile, "config", "c", "", "config file path")
	root.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "verbose output")
}

// IsVerbose implements logger.VerboseChecker. The flag wins over the
// config file.
func (g *Globals) IsVerbose() bool {
	return g.Verbose || (g.cfg != nil && g.cfg.Output.Verbose)
}

// Load reads the configuration named by the flags and returns it with a
// logger for component.
func (g *Globals) Load(component string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.NewLoader().LoadConfig(g.ConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	g.cfg = cfg
	return cfg, logger.New(component, g), nil
}

var (
	primaryColor   = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	secondaryColor = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	successColor   = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}
	errorColor     = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}
)

// Terminal styles shared by the commands.
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	LabelStyle   = lipgloss.NewStyle().Foreground(secondaryColor).Width(16)
	ValueStyle   = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(successColor)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	BoxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)
)

// KV renders "label value" rows, one per pair, for a summary box.
func KV(pairs ...string) string {
	rows := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			LabelStyle.Render(pairs[i]),
			ValueStyle.Render(pairs[i+1]),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
