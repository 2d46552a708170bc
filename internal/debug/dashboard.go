// Package debug renders an ASCII/HTML view of the effective chain for
// human debugging over the apiserver's /debug endpoint, the same role
// this package's dashboard played for the audio pipeline before the
// rewrite: one exported DashboardData struct, one RenderHTML built from
// an inline fmt.Sprintf template plus small per-section renderers.
package debug

import (
	"fmt"
	"strings"

	"github.com/shaban/rackless/pkg/orchestrator"
)

// DashboardData holds everything the dashboard renders, gathered from an
// Orchestrator snapshot rather than held live.
type DashboardData struct {
	State string
	Slots []orchestrator.SlotView
}

// SnapshotOf gathers dashboard data from a running Orchestrator.
func SnapshotOf(o *orchestrator.Orchestrator) DashboardData {
	return DashboardData{State: o.State().String(), Slots: o.Slots()}
}

// RenderASCII draws the chain as a left-to-right row of boxes, the
// textual counterpart to the HTML dashboard, useful for terminal/log
// output.
func RenderASCII(data DashboardData) string {
	var b strings.Builder
	b.WriteString("[input_terminal]")
	for _, s := range data.Slots {
		if s.Empty {
			b.WriteString(" -> [ ]")
			continue
		}
		name := s.Name
		if s.Bypassed {
			name += "*"
		}
		b.WriteString(fmt.Sprintf(" -> [%s]", name))
	}
	b.WriteString(" -> [output_terminal]")
	return b.String()
}

// RenderHTML generates the complete HTML for the debug dashboard.
func RenderHTML(data DashboardData) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>Rackless Debug Dashboard</title>
    <style>%s</style>
</head>
<body>
    <h1>Chain Dashboard</h1>

    <div class="section">
        <h2>Orchestrator State</h2>
        %s
    </div>

    <div class="section">
        <h2>Effective Chain</h2>
        <pre>%s</pre>
        %s
    </div>
</body>
</html>`,
		getCSS(),
		renderState(data),
		RenderASCII(data),
		renderSlotTable(data.Slots),
	)
}

func getCSS() string {
	return `
        body { font-family: monospace; margin: 20px; background: #1a1a1a; color: #e0e0e0; }
        .status { padding: 10px; margin: 10px 0; border-radius: 5px; display: inline-block; }
        .idle { background: #2d5a27; border: 1px solid #4a8f42; }
        .editing { background: #5a4a27; border: 1px solid #8f7a42; }
        .reconciling { background: #27405a; border: 1px solid #42708f; }
        .section { margin: 20px 0; padding: 15px; background: #2a2a2a; border-radius: 5px; }
        table { border-collapse: collapse; width: 100%; }
        td, th { border: 1px solid #444; padding: 6px 10px; text-align: left; }
    `
}

func renderState(data DashboardData) string {
	return fmt.Sprintf(`<div class="status %s"><strong>%s</strong></div>`,
		strings.ToLower(data.State), data.State)
}

func renderSlotTable(slots []orchestrator.SlotView) string {
	var b strings.Builder
	b.WriteString("<table><tr><th>Index</th><th>Label</th><th>URI</th><th>Bypassed</th></tr>")
	for _, s := range slots {
		if s.Empty {
			b.WriteString(fmt.Sprintf("<tr><td>%d</td><td colspan=3><em>empty</em></td></tr>", s.Index))
			continue
		}
		b.WriteString(fmt.Sprintf("<tr><td>%d</td><td>%s</td><td>%s</td><td>%v</td></tr>",
			s.Index, s.Label, s.URI, s.Bypassed))
	}
	b.WriteString("</table>")
	return b.String()
}
