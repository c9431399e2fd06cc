package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/trxmining/api-contract-tests/framework"
)

// Viewer displays the failures of a saved run.
type Viewer interface {
	View(record *RunRecord) error
}

// FailureViewer displays failed results in an interactive terminal UI: the list of failures on
// the left, the details of the selected one on the right.
type FailureViewer struct{}

func NewFailureViewer() *FailureViewer {
	return &FailureViewer{}
}

func (v *FailureViewer) View(record *RunRecord) error {
	failures := record.Summary().Failures
	if len(failures) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i, f := range failures {
		list.AddItem(fmt.Sprintf("[yellow]%d.[white] %s", i+1, tview.Escape(f.Name)), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" Failed tests (%d of %d) against %s | ↑↓ navigate, → details, ← back, q or Ctrl+C to exit ",
			len(failures), record.Meta.Total, tview.Escape(record.Meta.BaseURL)))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(failures) {
			statsView.SetText(formatFailureStats(failures[index], index+1))
			detailsView.SetText(formatFailureDetails(failures[index]))
			detailsView.ScrollToBeginning()
		}
	}
	list.SetChangedFunc(func(int, string, string, rune) { updateDetails() })

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC, tcell.KeyEsc:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(flex, 0, 1, true)

	updateDetails()
	return app.SetRoot(layout, true).EnableMouse(true).Run()
}

func formatFailureStats(r framework.TestResult, number int) string {
	status := "no response"
	if r.StatusCode != 0 {
		status = fmt.Sprintf("HTTP %d", r.StatusCode)
	}
	return fmt.Sprintf("[yellow]#%d[white] %s\n[gray]%s %s | %s | %s | %s[white]",
		number, tview.Escape(r.Name), r.Method, tview.Escape(r.Path), r.Kind, status, r.Duration)
}

func formatFailureDetails(r framework.TestResult) string {
	var b strings.Builder
	b.WriteString("[red]Message[white]\n")
	b.WriteString(tview.Escape(r.Message))
	b.WriteString("\n\n")
	if r.Body != "" {
		b.WriteString("[red]Response body[white]\n")
		b.WriteString(tview.Escape(PrettyBody(r.Body)))
		b.WriteString("\n\n")
	}
	if r.Curl != "" {
		b.WriteString("[red]Reproduce[white]\n")
		b.WriteString(tview.Escape(r.Curl))
		b.WriteString("\n")
	}
	return b.String()
}

// PrettyBody indents a JSON body; other bodies are returned unchanged.
func PrettyBody(body string) string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(body), "", "  "); err != nil {
		return body
	}
	return out.String()
}
