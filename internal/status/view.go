package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	// Colors and styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Render renders the status data to a string
func Render(data *Data) string {
	sections := []string{
		renderHeader(data),
		renderSystemInfo(data),
		renderConfig(data),
		renderProviders(data),
		renderTools(data),
		renderCompspecs(data),
		renderCacheInfo(data),
	}
	return strings.Join(sections, "\n\n") + "\n"
}

func line(key, value string) string {
	return "   " + keyStyle.Render(key+": ") + value + "\n"
}

func renderHeader(data *Data) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📦 Version: ") + valueStyle.Render(data.Version))
	if data.GitCommit != "" && data.GitCommit != "unknown" {
		b.WriteString(subtleStyle.Render(fmt.Sprintf(" (%s, %s)", data.GitCommit, data.BuildTime)))
	}
	return b.String()
}

func renderSystemInfo(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("⚙️  System & Installation:") + "\n")

	b.WriteString(line("Binary", valueStyle.Render(data.Binary)))
	if data.HookInstalled {
		b.WriteString(line("Hook", successStyle.Render("✓ Installed")))
		if data.HookFile != "" {
			b.WriteString(line("Hook file", subtleStyle.Render(data.HookFile)))
		}
	} else {
		b.WriteString(line("Hook", errorStyle.Render("✗ Not installed")))
		b.WriteString("   " + warningStyle.Render("Run 'bft setup' to install") + "\n")
	}
	if data.RCFile != "" {
		b.WriteString(line("RC file", subtleStyle.Render(data.RCFile)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderConfig(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("📝 Configuration:") + "\n")

	switch {
	case data.Config.Error != "":
		b.WriteString(line("File", valueStyle.Render(data.Config.Path)+" "+errorStyle.Render("✗")))
		b.WriteString("   " + errorStyle.Render(data.Config.Error) + "\n")
	case data.Config.Loaded:
		b.WriteString(line("File", valueStyle.Render(data.Config.Path)+" "+successStyle.Render("✓")))
	default:
		b.WriteString(line("File", subtleStyle.Render(data.Config.Path+" (not found, using defaults)")))
	}

	if len(data.EnvOverrides) > 0 {
		b.WriteString(line("Environment", valueStyle.Render(strings.Join(data.EnvOverrides, ", "))))
	}

	if cfg := data.Effective; cfg != nil {
		b.WriteString(line("Selector", valueStyle.Render(cfg.Selector)+subtleStyle.Render(" (height "+cfg.SelectorHeight+")")))
		b.WriteString(line("Common prefix", boolValue(cfg.AutoCommonPrefix)+subtleStyle.Render(" partial: ")+boolValue(cfg.AutoCommonPrefixPart)))
		b.WriteString(line("Empty line commands", boolValue(!cfg.NoEmptyCmdCompletion)))
		b.WriteString(line("Timeout", valueStyle.Render(cfg.Timeout.String())))
		b.WriteString(line("Log level", valueStyle.Render(cfg.LogLevel)))
		if cfg.LogFile != "" {
			b.WriteString(line("Log file", subtleStyle.Render(cfg.LogFile)))
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func boolValue(v bool) string {
	if v {
		return successStyle.Render("on")
	}
	return subtleStyle.Render("off")
}

func renderProviders(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🔌 Providers:") + "\n")

	if data.Effective == nil || len(data.Effective.Providers) == 0 {
		b.WriteString("   " + warningStyle.Render("No provider enabled"))
		return b.String()
	}

	for i, p := range data.Effective.Providers {
		limit := ""
		if p.Limit > 0 {
			limit = subtleStyle.Render(fmt.Sprintf(" (limit %d)", p.Limit))
		}
		b.WriteString(fmt.Sprintf("   %d. %s%s\n", i+1, valueStyle.Render(p.Type), limit))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderTools(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🧰 External tools:") + "\n")

	for _, tool := range data.Tools {
		if tool.Found {
			b.WriteString(fmt.Sprintf("   %s %s %s\n",
				successStyle.Render("✓"),
				valueStyle.Render(tool.Name),
				subtleStyle.Render(tool.Path)))
		} else {
			b.WriteString(fmt.Sprintf("   %s %s %s\n",
				errorStyle.Render("✗"),
				valueStyle.Render(tool.Name),
				subtleStyle.Render("not found, needed for "+tool.Purpose)))
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderCompspecs(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("📚 Completion specs:") + "\n")

	b.WriteString(line("Shell", valueStyle.Render("complete -p (exported by the hook)")))
	switch {
	case data.RegistryFile == "":
		b.WriteString(line("Registry file", subtleStyle.Render("none")))
	case data.RegistryError != "":
		b.WriteString(line("Registry file", valueStyle.Render(data.RegistryFile)+" "+errorStyle.Render("✗")))
		b.WriteString("   " + errorStyle.Render(data.RegistryError) + "\n")
	default:
		b.WriteString(line("Registry file", valueStyle.Render(data.RegistryFile)+
			subtleStyle.Render(fmt.Sprintf(" (%d commands)", data.RegistryCommands))))
	}
	if data.RegistryURL != "" {
		b.WriteString(line("Registry URL", valueStyle.Render(data.RegistryURL)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderCacheInfo(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("💾 Cache:") + "\n")

	if data.Cache == nil {
		b.WriteString("   " + subtleStyle.Render("Unavailable"))
		return b.String()
	}

	b.WriteString(line("Path", subtleStyle.Render(data.Cache.Path)))
	if data.Cache.Size == 0 {
		b.WriteString("   " + subtleStyle.Render("Empty"))
		return b.String()
	}

	b.WriteString(line("Size", valueStyle.Render(humanize.IBytes(uint64(data.Cache.Size)))))
	if !data.Cache.Updated.IsZero() {
		b.WriteString(line("Updated", valueStyle.Render(humanize.Time(data.Cache.Updated))))
	}
	b.WriteString(line("Commands", valueStyle.Render(fmt.Sprintf("%d (%d with a compspec)", data.Cache.TotalEntries, data.Cache.Registered))))
	if data.Cache.Expired > 0 {
		b.WriteString(line("Expired", warningStyle.Render(fmt.Sprintf("%d older than %s", data.Cache.Expired, data.CacheTTL))))
	}

	return strings.TrimSuffix(b.String(), "\n")
}
