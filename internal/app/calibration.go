package app

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/scaleruler/pkg/units"
)

// calibrationPrompt asks for the real length of the reference line in a
// modal dialog. Invalid input is reported exactly like Cancel.
type calibrationPrompt struct {
	window fyne.Window
}

// PromptLength shows the dialog; done runs when it closes
func (p *calibrationPrompt) PromptLength(done func(length units.FeetInches, ok bool)) {
	feetEntry := widget.NewEntry()
	feetEntry.SetPlaceHolder("feet")
	inchesEntry := widget.NewEntry()
	inchesEntry.SetPlaceHolder("inches (0–11)")

	header := widget.NewLabel("Enter the real-world length of the drawn line (feet and inches)")

	form := container.New(layout.NewFormLayout(),
		widget.NewLabel("Feet:"), feetEntry,
		widget.NewLabel("Inches:"), inchesEntry,
	)

	dlg := dialog.NewCustomConfirm("Calibration", "OK", "Cancel",
		container.NewVBox(header, form),
		func(confirmed bool) {
			if !confirmed {
				done(units.FeetInches{}, false)
				return
			}
			done(units.ParseFeetInches(feetEntry.Text, inchesEntry.Text))
		}, p.window)

	dlg.Show()
	p.window.Canvas().Focus(feetEntry)
}
