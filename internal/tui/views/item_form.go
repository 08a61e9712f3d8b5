package views

import (
	"strings"

	"github.com/loom-social/loom/internal/api"
	"github.com/loom-social/loom/internal/tui/ui"
	"github.com/rivo/tview"
)

var conditionOptions = []string{"new", "excellent-used", "good", "fair", "poor"}

// ItemForm is the add-item dialog.
type ItemForm struct {
	*tview.Form
	onSave   func(item *api.Item)
	onCancel func()
}

// NewItemForm creates the add-item form.
func NewItemForm(theme *ui.Theme) *ItemForm {
	form := tview.NewForm()
	form.SetBorder(true).SetTitle(" New Item ")
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetTitleColor(theme.TitleColor)

	f := &ItemForm{Form: form}
	f.build()
	return f
}

func (f *ItemForm) build() {
	f.Clear(true)
	f.AddInputField("Name", "", 40, nil, nil)
	f.AddInputField("Brand", "", 40, nil, nil)
	f.AddInputField("Category", "", 40, nil, nil)
	f.AddDropDown("Condition", conditionOptions, 2, nil)
	f.AddInputField("Colors", "", 40, nil, nil)

	f.AddButton("Save", func() {
		if f.onSave == nil {
			return
		}
		item := &api.Item{
			Name:         f.fieldText(0),
			Brand:        f.fieldText(1),
			CategoryPage: f.fieldText(2),
		}
		_, item.Condition = f.GetFormItem(3).(*tview.DropDown).GetCurrentOption()
		if colors := f.fieldText(4); colors != "" {
			for _, c := range strings.Split(colors, ",") {
				if c = strings.TrimSpace(c); c != "" {
					item.Colors = append(item.Colors, c)
				}
			}
		}
		f.onSave(item)
		f.build()
	})
	f.AddButton("Cancel", func() {
		if f.onCancel != nil {
			f.onCancel()
		}
		f.build()
	})
}

func (f *ItemForm) fieldText(i int) string {
	return strings.TrimSpace(f.GetFormItem(i).(*tview.InputField).GetText())
}

// SetOnSave sets the callback when the form is submitted.
func (f *ItemForm) SetOnSave(fn func(item *api.Item)) {
	f.onSave = fn
}

// SetOnCancel sets the callback when the form is dismissed.
func (f *ItemForm) SetOnCancel(fn func()) {
	f.onCancel = fn
}
