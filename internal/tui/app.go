// Package tui implements the terminal client for the wardrobe daemon.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/loom-social/loom/internal/api"
	"github.com/loom-social/loom/internal/resolver"
	"github.com/loom-social/loom/internal/tui/client"
	"github.com/loom-social/loom/internal/tui/model"
	"github.com/loom-social/loom/internal/tui/ui"
	"github.com/loom-social/loom/internal/tui/views"
	"github.com/rivo/tview"
)

// App is the main TUI application shell.
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	vm        *model.ViewModel
	theme     *ui.Theme
	statusBar *views.StatusBar
	itemList  *views.ItemList
	itemForm  *views.ItemForm
	picker    *views.Picker
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(c *client.Client, profileName string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		vm:        model.NewViewModel(c),
		theme:     theme,
		statusBar: views.NewStatusBar(),
		itemList:  views.NewItemList(),
		itemForm:  views.NewItemForm(theme),
		picker:    views.NewPicker(theme),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.statusBar.SetProfile(profileName)
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupCallbacks() {
	a.itemForm.SetOnSave(func(item *api.Item) {
		go func() {
			if err := a.vm.CreateItem(a.ctx, item); err != nil {
				a.vm.Flash.Set("Save failed: "+err.Error(), 5*time.Second)
			}
			a.refresh()
			a.app.QueueUpdateDraw(func() {
				a.pages.SwitchToPage("items")
				a.app.SetFocus(a.itemList)
			})
		}()
	})
	a.itemForm.SetOnCancel(func() {
		a.pages.SwitchToPage("items")
		a.app.SetFocus(a.itemList)
	})

	a.picker.SetOnQuery(func(query string, filter resolver.Filter) {
		go func() {
			if err := a.vm.SearchParticipants(a.ctx, query, filter); err != nil {
				a.vm.Flash.Set("Search failed: "+err.Error(), 5*time.Second)
				return
			}
			a.app.QueueUpdateDraw(func() {
				a.picker.Update(a.vm.GetParticipants())
			})
		}()
	})
	a.picker.SetOnToggle(func(p resolver.Participant) {
		a.vm.ToggleParticipant(p)
		a.picker.Update(nil)
		a.picker.UpdateSelection(a.vm.GetSelection())
		a.app.SetFocus(a.picker.Input())
	})
	a.picker.SetOnSubmit(func() {
		go func() {
			conv, err := a.vm.CreateConversation(a.ctx, "")
			if err != nil {
				a.vm.Flash.Set("Conversation failed: "+err.Error(), 5*time.Second)
				a.app.QueueUpdateDraw(func() {
					a.statusBar.SetFlash(a.vm.Flash.Get())
				})
				return
			}
			a.vm.Flash.Set("Conversation created: "+conv.Slug, 3*time.Second)
			a.app.QueueUpdateDraw(func() {
				a.picker.Reset()
				a.pages.SwitchToPage("items")
				a.app.SetFocus(a.itemList)
				a.statusBar.SetFlash(a.vm.Flash.Get())
			})
		}()
	})
}

func (a *App) setupLayout() {
	a.pages.AddPage("items", a.itemList, true, true)
	a.pages.AddPage("new", a.itemForm, true, false)
	a.pages.AddPage("compose", a.picker, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch currentPage {
			case "new", "compose":
				a.pages.SwitchToPage("items")
				a.app.SetFocus(a.itemList)
				return nil
			}
		}

		if currentPage == "compose" && event.Key() == tcell.KeyTab {
			a.picker.CycleFilter()
			return nil
		}

		// Let text input widgets handle all keys normally.
		focused := a.app.GetFocus()
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}
		if currentPage == "new" {
			return event
		}

		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case 'q':
				a.app.Stop()
				return nil
			case 'n':
				a.pages.SwitchToPage("new")
				a.app.SetFocus(a.itemForm)
				return nil
			case 'c':
				a.pages.SwitchToPage("compose")
				a.app.SetFocus(a.picker.Input())
				return nil
			case 's':
				go a.runSync()
				return nil
			case 'd':
				if currentPage == "items" {
					if id := a.itemList.SelectedItem(); id != "" {
						go a.deleteItem(id)
					}
					return nil
				}
			}
		}

		return event
	})
}

func (a *App) runSync() {
	if _, err := a.vm.Sync(a.ctx); err != nil {
		a.vm.Flash.Set("Sync failed: "+err.Error(), 5*time.Second)
	}
	a.refresh()
}

func (a *App) deleteItem(id string) {
	if err := a.vm.DeleteItem(a.ctx, id); err != nil {
		a.vm.Flash.Set("Delete failed: "+err.Error(), 5*time.Second)
	}
	a.refresh()
}

// refresh reloads daemon state and redraws the main views.
func (a *App) refresh() {
	_ = a.vm.LoadStatus(a.ctx)
	_ = a.vm.LoadItems(a.ctx)
	a.app.QueueUpdateDraw(func() {
		a.itemList.Update(a.vm.GetItems())
		if st := a.vm.GetStatus(); st != nil {
			a.statusBar.SetStatus(string(st.State))
			a.statusBar.SetPending(st.Pending)
		}
		a.statusBar.SetFlash(a.vm.Flash.Get())
	})
}

// Run starts the TUI application.
func (a *App) Run() error {
	go func() {
		a.refresh()
		a.startRefreshLoop()
	}()

	return a.app.Run()
}

func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(5 * time.Second)
	go func() {
		for {
			select {
			case <-ticker.C:
				_ = a.vm.LoadStatus(a.ctx)
				currentPage := ""
				a.app.QueueUpdateDraw(func() {
					currentPage, _ = a.pages.GetFrontPage()
					if st := a.vm.GetStatus(); st != nil {
						a.statusBar.SetStatus(string(st.State))
						a.statusBar.SetPending(st.Pending)
					}
					a.statusBar.SetFlash(a.vm.Flash.Get())
				})
				if currentPage == "items" {
					_ = a.vm.LoadItems(a.ctx)
					a.app.QueueUpdateDraw(func() {
						a.itemList.Update(a.vm.GetItems())
					})
				}
			case <-a.ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
