package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/martinsuchenak/advisorctl/internal/advisor"
	"github.com/martinsuchenak/advisorctl/internal/model"
)

// Printer turns snapshots into terminal text
type Printer struct {
	theme Theme
}

// NewPrinter creates a printer with the given theme
func NewPrinter(theme Theme) *Printer {
	return &Printer{theme: theme}
}

func (p *Printer) title(text string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(p.theme.Title).Render(text)
}

func (p *Printer) muted(text string) string {
	return lipgloss.NewStyle().Foreground(p.theme.Muted).Render(text)
}

// PowerBadge renders a device power state
func (p *Printer) PowerBadge(status model.PowerStatus) string {
	status = status.Normalize()
	color := p.theme.Muted
	switch status {
	case model.PowerStatusOn:
		color = p.theme.PowerOn
	case model.PowerStatusOff:
		color = p.theme.PowerOff
	}
	return lipgloss.NewStyle().Foreground(color).Render("● " + string(status))
}

// HealthBadge renders one health field value
func (p *Printer) HealthBadge(status model.HealthStatus) string {
	if status == "" {
		return p.muted("-")
	}
	color := p.theme.Warning
	switch {
	case status.IsNormal():
		color = p.theme.Normal
	case strings.EqualFold(string(status), string(model.HealthCritical)):
		color = p.theme.Critical
	}
	return lipgloss.NewStyle().Foreground(color).Render(strings.ToUpper(string(status)))
}

func (p *Printer) card(label, value string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.theme.Border).
		Padding(0, 2).
		Render(p.muted(label) + "\n" + lipgloss.NewStyle().Bold(true).Foreground(p.theme.NormalFg).Render(value))
}

// table lays out rows in padded columns sized to the widest cell
func (p *Printer) table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = style.Width(widths[i] + 2).Render(cell)
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	var b strings.Builder
	b.WriteString(line(headers, lipgloss.NewStyle().Bold(true).Foreground(p.theme.Muted)))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(line(row, lipgloss.NewStyle()))
	}
	return b.String()
}

// Overview renders the home dashboard
func (p *Printer) Overview(o *Overview) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		p.card("Systems", fmt.Sprint(len(o.Systems))),
		p.card("Compute devices", fmt.Sprint(len(o.Devices))),
		p.card("Firmware compliant", fmt.Sprintf("%.0f%%", o.Firmware.CompliancePercent())),
		p.card("Active tasks", fmt.Sprint(len(o.Tasks))),
		p.card("Alerts", fmt.Sprint(len(o.Alerts))),
	)

	sections := []string{
		p.title("Advisor overview") + " " + p.muted(o.LoadedAt.Format("15:04:05")),
		cards,
		p.title("Alerts"),
		p.Alerts(o.Alerts),
		p.title("Active tasks"),
		p.Tasks(o.Tasks),
		p.title("Locations"),
		p.Markers(o.Markers),
	}
	return strings.Join(sections, "\n\n")
}

// Systems renders the managed systems list
func (p *Printer) Systems(systems []model.ManagedSystem) string {
	if len(systems) == 0 {
		return p.muted("No managed systems")
	}
	rows := make([][]string, len(systems))
	for i, s := range systems {
		rows[i] = []string{s.ID, s.Name, s.Model, s.Region, s.ResourceState, fmt.Sprint(len(s.ComputeDevices))}
	}
	return p.table([]string{"ID", "NAME", "MODEL", "REGION", "STATE", "DEVICES"}, rows)
}

// Devices renders compute devices with power and health badges
func (p *Printer) Devices(devices []model.ComputeDevice) string {
	if len(devices) == 0 {
		return p.muted("No compute devices")
	}
	rows := make([][]string, len(devices))
	for i := range devices {
		d := &devices[i]
		firmware := "current"
		if !d.FirmwareAtRecommendedVersion {
			firmware = lipgloss.NewStyle().Foreground(p.theme.Warning).Render("outdated")
		}
		rows[i] = []string{
			d.ID,
			d.DisplayName(),
			d.Model,
			p.PowerBadge(d.PowerStatus),
			p.HealthBadge(d.DriveHealthStatus),
			p.HealthBadge(d.FanHealthStatus),
			p.HealthBadge(d.TemperatureHealthStatus),
			p.HealthBadge(d.PowerSupplyHealthStatus),
			p.HealthBadge(d.ProcessorHealthStatus),
			firmware,
		}
	}
	return p.table([]string{"ID", "NAME", "MODEL", "POWER", "DRIVE", "FAN", "TEMP", "PSU", "CPU", "FIRMWARE"}, rows)
}

// Device renders the full detail of one compute device
func (p *Printer) Device(d *model.ComputeDevice) string {
	rows := [][]string{
		{"ID", d.ID},
		{"Name", d.DisplayName()},
		{"Model", d.Model},
		{"Serial", d.SerialNumber},
		{"State", d.ResourceState},
		{"Power", p.PowerBadge(d.PowerStatus)},
		{"CPUs", fmt.Sprint(d.CPUs)},
		{"Memory", fmt.Sprintf("%d MB", d.TotalMemoryInMb)},
		{"GPUs", fmt.Sprint(d.GPUs)},
		{"BIOS firmware", d.BIOSFirmwareVersion},
		{"BMC firmware", d.BMCFirmwareVersion},
		{"Recommended", d.RecommendedFirmwareVersion},
	}
	for _, gpu := range d.GPUInfo {
		rows = append(rows, []string{"GPU", fmt.Sprintf("%s %s (%d MB)", gpu.Vendor, gpu.Model, gpu.MemorySizeInKB/1024)})
	}
	for _, a := range advisor.DeriveAlerts([]model.ComputeDevice{*d}) {
		rows = append(rows, []string{"Alert", p.HealthBadge(a.Status) + " " + a.Message})
	}
	return p.table([]string{"FIELD", "VALUE"}, rows)
}

// SystemDetail renders a system header followed by its device table
func (p *Printer) SystemDetail(s *SystemDetail) string {
	sys := s.System
	header := p.table([]string{"FIELD", "VALUE"}, [][]string{
		{"ID", sys.ID},
		{"Name", sys.Name},
		{"Model", sys.Model},
		{"Serial", sys.SerialNumber},
		{"Region", sys.Region},
		{"Gateway", sys.GatewayAddress},
		{"State", sys.ResourceState},
		{"Storage devices", fmt.Sprint(len(sys.StorageDevices))},
		{"Ethernet switches", fmt.Sprint(len(sys.EthernetSwitches))},
		{"FC switches", fmt.Sprint(len(sys.FibreChannelSwitches))},
	})
	return strings.Join([]string{
		p.title(sys.Name) + " " + p.muted(s.LoadedAt.Format("15:04:05")),
		header,
		p.title("Compute devices"),
		p.Devices(s.Devices),
	}, "\n\n")
}

// Firmware renders the compliance summary
func (p *Printer) Firmware(f model.FirmwareSummary) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		p.card("Total", fmt.Sprint(f.Total)),
		p.card("Compliant", fmt.Sprint(f.Compliant)),
		p.card("Non-compliant", fmt.Sprint(f.NonCompliant)),
		p.card("Compliance", fmt.Sprintf("%.0f%%", f.CompliancePercent())),
	)
}

// Alerts renders derived device alerts
func (p *Printer) Alerts(alerts []model.Alert) string {
	if len(alerts) == 0 {
		return p.muted("No alerts")
	}
	rows := make([][]string, len(alerts))
	for i, a := range alerts {
		rows[i] = []string{a.DeviceName, a.DeviceSerial, p.HealthBadge(a.Status), a.Message}
	}
	return p.table([]string{"DEVICE", "SERIAL", "STATUS", "MESSAGE"}, rows)
}

// Tasks renders active tasks
func (p *Printer) Tasks(tasks []model.Task) string {
	if len(tasks) == 0 {
		return p.muted("No active tasks")
	}
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = []string{t.ID, t.Name, t.Status, t.StartTime}
	}
	return p.table([]string{"ID", "NAME", "STATUS", "STARTED"}, rows)
}

// Markers renders system locations
func (p *Printer) Markers(markers []model.MapMarker) string {
	if len(markers) == 0 {
		return p.muted("No located systems")
	}
	rows := make([][]string, len(markers))
	for i, m := range markers {
		rows[i] = []string{m.Name, m.Region, fmt.Sprintf("%.4f, %.4f", m.Latitude, m.Longitude), fmt.Sprint(m.Devices)}
	}
	return p.table([]string{"SYSTEM", "REGION", "LOCATION", "DEVICES"}, rows)
}
