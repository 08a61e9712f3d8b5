package views

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/loom-social/loom/internal/resolver"
	"github.com/loom-social/loom/internal/tui/ui"
	"github.com/rivo/tview"
)

// filterOrder fixes the cycling order of the source filter.
var filterOrder = []resolver.Filter{
	resolver.FilterAll,
	resolver.FilterUser,
	resolver.FilterBrand,
	resolver.FilterStore,
	resolver.FilterSupplier,
	resolver.FilterNonProfit,
	resolver.FilterPage,
}

// Picker is the conversation composer: a query input, a source filter, the
// search results and the running selection.
type Picker struct {
	*tview.Flex
	theme     *ui.Theme
	input     *tview.InputField
	results   *tview.Table
	selection *tview.TextView
	filterIdx int
	data      []resolver.Participant
	onQuery   func(query string, filter resolver.Filter)
	onToggle  func(p resolver.Participant)
	onSubmit  func()
}

// NewPicker creates the participant picker view.
func NewPicker(theme *ui.Theme) *Picker {
	input := tview.NewInputField().
		SetLabel(" To: ").
		SetFieldWidth(0)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.TitleColor)

	results := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	results.SetBorder(true)
	results.SetBorderColor(theme.BorderColor)
	results.SetBackgroundColor(theme.BgColor)
	results.SetTitleColor(theme.TitleColor)
	results.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	selection := tview.NewTextView().
		SetDynamicColors(true)
	selection.SetBorder(true).SetTitle(" Selected ")
	selection.SetBorderColor(theme.BorderColor)
	selection.SetBackgroundColor(theme.BgColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(input, 1, 0, true).
		AddItem(results, 0, 1, false).
		AddItem(selection, 3, 0, false)

	p := &Picker{
		Flex:      flex,
		theme:     theme,
		input:     input,
		results:   results,
		selection: selection,
	}
	p.renderTitle()

	input.SetChangedFunc(func(text string) {
		if p.onQuery != nil {
			p.onQuery(text, p.Filter())
		}
	})

	results.SetSelectedFunc(func(row, col int) {
		idx := row - 1
		if idx >= 0 && idx < len(p.data) && p.onToggle != nil {
			p.onToggle(p.data[idx])
		}
	})

	return p
}

// Filter returns the active source filter.
func (p *Picker) Filter() resolver.Filter {
	return filterOrder[p.filterIdx]
}

// CycleFilter advances to the next source filter and re-runs the query.
func (p *Picker) CycleFilter() {
	p.filterIdx = (p.filterIdx + 1) % len(filterOrder)
	p.renderTitle()
	if p.onQuery != nil {
		p.onQuery(p.input.GetText(), p.Filter())
	}
}

func (p *Picker) renderTitle() {
	p.results.SetTitle(" Results (" + string(p.Filter()) + ") ")
}

// SetOnQuery sets the callback fired as the query text or filter changes.
func (p *Picker) SetOnQuery(fn func(query string, filter resolver.Filter)) {
	p.onQuery = fn
}

// SetOnToggle sets the callback when a result is picked or unpicked.
func (p *Picker) SetOnToggle(fn func(p resolver.Participant)) {
	p.onToggle = fn
}

// SetOnSubmit sets the callback when the selection is confirmed.
func (p *Picker) SetOnSubmit(fn func()) {
	p.onSubmit = fn
	p.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && p.onSubmit != nil && p.input.GetText() == "" {
			p.onSubmit()
		}
	})
}

// Update refreshes the search results.
func (p *Picker) Update(results []resolver.Participant) {
	p.data = results
	p.results.Clear()

	headers := []string{" NAME", " TYPE", " DETAIL"}
	for col, h := range headers {
		p.results.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(p.theme.TableHeaderFg).
			SetAttributes(tcell.AttrBold))
	}

	for i, r := range results {
		row := i + 1
		p.results.SetCell(row, 0, tview.NewTableCell(" "+tview.Escape(r.Name)).SetExpansion(1).SetTextColor(p.theme.FgColor))
		p.results.SetCell(row, 1, tview.NewTableCell(" "+r.Kind.Label()).SetMaxWidth(12).SetTextColor(p.theme.FgColor))
		p.results.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(r.Subtitle)).SetMaxWidth(24).SetTextColor(p.theme.FgColor))
	}
}

// UpdateSelection refreshes the picked-participant strip. A pick clears the
// query box along with the results.
func (p *Picker) UpdateSelection(selection []resolver.Participant) {
	p.input.SetText("")
	p.selection.Clear()

	names := make([]string, 0, len(selection))
	for _, s := range selection {
		names = append(names, s.Name)
	}
	p.selection.SetText(" " + strings.Join(names, ", "))
}

// Reset clears the picker for the next composition.
func (p *Picker) Reset() {
	p.input.SetText("")
	p.data = nil
	p.results.Clear()
	p.selection.Clear()
	p.filterIdx = 0
	p.renderTitle()
}

// Input returns the query input field.
func (p *Picker) Input() *tview.InputField {
	return p.input
}

// Results returns the results table.
func (p *Picker) Results() *tview.Table {
	return p.results
}
