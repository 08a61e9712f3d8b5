package views

import (
	"time"

	"github.com/loom-social/loom/internal/api"
	"github.com/rivo/tview"
)

// ItemList is the main wardrobe table.
type ItemList struct {
	*tview.Table
	items      []api.Entry
	selectedFn func() (int, int)
}

// NewItemList creates the wardrobe table.
func NewItemList() *ItemList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Wardrobe ")

	il := &ItemList{Table: table}
	il.selectedFn = table.GetSelection
	return il
}

// Update refreshes the table with new data.
func (il *ItemList) Update(items []api.Entry) {
	il.items = items
	il.Clear()

	headers := []string{" Name", " Brand", " Category", " Condition", " Sync", " Updated"}
	for col, h := range headers {
		il.SetCell(0, col, tview.NewTableCell(h).SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	}

	for i, item := range items {
		row := i + 1
		name := item.Name
		if name == "" {
			name = item.ID
		}

		badge := " "
		if item.NeedsSync {
			badge = "[orange]*[-]"
		}

		il.SetCell(row, 0, tview.NewTableCell(" "+name).SetMaxWidth(30).SetExpansion(2))
		il.SetCell(row, 1, tview.NewTableCell(" "+item.Brand).SetMaxWidth(20).SetExpansion(1))
		il.SetCell(row, 2, tview.NewTableCell(" "+item.CategoryPage).SetMaxWidth(16).SetExpansion(1))
		il.SetCell(row, 3, tview.NewTableCell(" "+item.Condition).SetMaxWidth(16))
		il.SetCell(row, 4, tview.NewTableCell(" "+badge).SetMaxWidth(6))
		il.SetCell(row, 5, tview.NewTableCell(" "+formatTimestamp(item.UpdatedAt)).SetMaxWidth(12))
	}
}

// SelectedItem returns the ID of the currently selected item.
func (il *ItemList) SelectedItem() string {
	row, _ := il.selectedFn()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(il.items) {
		return il.items[idx].ID
	}
	return ""
}

func formatTimestamp(ms int64) string {
	if ms == 0 {
		return ""
	}
	t := time.UnixMilli(ms)
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}
