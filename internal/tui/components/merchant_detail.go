package components

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/service"
	"github.com/Veraticus/merchant-ops/internal/tui/themes"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

type detailField int

const (
	fieldName detailField = iota
	fieldCountry
	fieldVolume
	fieldRatio
	fieldStatus
	fieldRisk
)

var inputFields = []detailField{fieldName, fieldCountry, fieldVolume, fieldRatio}

var fieldLabels = map[detailField]string{
	fieldName:    "Name",
	fieldCountry: "Country",
	fieldVolume:  "Monthly Volume",
	fieldRatio:   "Chargeback Ratio (%)",
	fieldStatus:  "Status",
	fieldRisk:    "Risk Level",
}

var fieldFormKeys = map[detailField]string{
	fieldName:    viewmodel.FieldName,
	fieldCountry: viewmodel.FieldCountry,
	fieldVolume:  viewmodel.FieldMonthlyVolume,
	fieldRatio:   viewmodel.FieldChargebackRatio,
}

type detailKeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Left    key.Binding
	Right   key.Binding
	Save    key.Binding
	Close   key.Binding
	Confirm key.Binding
	Decline key.Binding
}

var detailKeys = detailKeyMap{
	Next:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab/↓", "next field")),
	Prev:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab/↑", "previous field")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous option")),
	Right:   key.NewBinding(key.WithKeys("right", "l", " "), key.WithHelp("→/l", "next option")),
	Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	Decline: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
}

// DetailHelp returns the detail panel bindings for the help overlay.
func DetailHelp() []key.Binding {
	k := detailKeys
	return []key.Binding{k.Next, k.Prev, k.Left, k.Right, k.Save, k.Close, k.Confirm, k.Decline}
}

// MerchantDetailModel is the view/edit/create panel for one merchant.
type MerchantDetailModel struct {
	theme     themes.Theme
	err       error
	view      *viewmodel.DetailView
	inputs    map[detailField]*textinput.Model
	fields    []detailField
	focus     int
	width     int
	height    int
	attempted bool
}

// NewMerchantDetail opens the panel. Outside create mode an unknown id
// returns common.ErrNotFound.
func NewMerchantDetail(repo service.MerchantRepository, mode viewmodel.DetailMode, id string, theme themes.Theme, opts ...viewmodel.DetailOption) (MerchantDetailModel, error) {
	v, err := viewmodel.NewDetailView(repo, mode, id, opts...)
	if err != nil {
		return MerchantDetailModel{}, err
	}

	m := MerchantDetailModel{
		theme:  theme,
		view:   v,
		inputs: make(map[detailField]*textinput.Model),
		width:  60,
	}

	if mode == viewmodel.ModeView {
		m.fields = []detailField{fieldStatus, fieldRisk}
	} else {
		m.fields = append(slices.Clone(inputFields), fieldStatus, fieldRisk)
		form := v.Form()
		values := map[detailField]string{
			fieldName:    form.Name,
			fieldCountry: form.Country,
			fieldVolume:  form.MonthlyVolume,
			fieldRatio:   form.ChargebackRatio,
		}
		for _, f := range inputFields {
			in := textinput.New()
			in.Prompt = ""
			in.CharLimit = 64
			in.SetValue(values[f])
			m.inputs[f] = &in
		}
		m.inputs[fieldVolume].Placeholder = "e.g. 125000"
		m.inputs[fieldRatio].Placeholder = "optional, 0-100"
	}
	m.applyFocus()
	return m, nil
}

// DetailView returns the underlying view-model.
func (m MerchantDetailModel) DetailView() *viewmodel.DetailView {
	return m.view
}

// Err returns the last save or transition error.
func (m MerchantDetailModel) Err() error {
	return m.err
}

// EditingText reports whether the focused field is a text input.
func (m MerchantDetailModel) EditingText() bool {
	_, ok := m.inputs[m.focused()]
	return ok
}

func (m MerchantDetailModel) focused() detailField {
	return m.fields[m.focus]
}

func (m *MerchantDetailModel) applyFocus() {
	for f, in := range m.inputs {
		if f == m.focused() {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// Update handles messages.
func (m MerchantDetailModel) Update(msg tea.Msg) (MerchantDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m MerchantDetailModel) handleKey(msg tea.KeyMsg) (MerchantDetailModel, tea.Cmd) {
	switch {
	case key.Matches(msg, detailKeys.Close):
		return m, func() tea.Msg { return CloseDetailMsg{} }
	case key.Matches(msg, detailKeys.Save):
		return m.save()
	}

	if m.view.Gate().Pending() {
		switch {
		case key.Matches(msg, detailKeys.Confirm):
			m.view.ConfirmStatus()
			m.err = nil
		case key.Matches(msg, detailKeys.Decline):
			m.view.CancelStatus()
			m.err = nil
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % len(m.fields)
		m.applyFocus()
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus - 1 + len(m.fields)) % len(m.fields)
		m.applyFocus()
		return m, nil
	}

	if in, ok := m.inputs[m.focused()]; ok {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		m.syncForm()
		return m, cmd
	}

	step := 0
	switch {
	case key.Matches(msg, detailKeys.Left):
		step = -1
	case key.Matches(msg, detailKeys.Right):
		step = 1
	default:
		return m, nil
	}

	switch m.focused() {
	case fieldStatus:
		_, m.err = m.view.RequestStatus(cycle(model.AllStatuses, m.view.Status(), step))
	case fieldRisk:
		m.err = m.view.SetRisk(cycle(model.AllRiskLevels, m.view.Risk(), step))
	}
	return m, nil
}

func (m *MerchantDetailModel) syncForm() {
	m.view.SetForm(viewmodel.MerchantFormInput{
		Name:            m.inputs[fieldName].Value(),
		Country:         m.inputs[fieldCountry].Value(),
		MonthlyVolume:   m.inputs[fieldVolume].Value(),
		ChargebackRatio: m.inputs[fieldRatio].Value(),
	})
}

func (m MerchantDetailModel) save() (MerchantDetailModel, tea.Cmd) {
	m.attempted = true
	saved, err := m.view.Save()
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	mode := m.view.Mode()
	return m, func() tea.Msg { return MerchantSavedMsg{Merchant: saved, Mode: mode} }
}

// cycle steps through options starting from current; an unset current
// starts at the first option.
func cycle[T comparable](options []T, current T, step int) T {
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	return options[(i+step+len(options))%len(options)]
}

// View renders the panel.
func (m MerchantDetailModel) View() string {
	sections := []string{
		m.theme.Title.Render(m.view.Title()),
	}

	if m.view.ShowWarning() {
		sections = append(sections, m.theme.StatusWarning.Render("⚠ "+viewmodel.WarningText), "")
	}

	if m.view.Mode() == viewmodel.ModeView {
		sections = append(sections, m.renderSummary(), "")
	} else {
		sections = append(sections, m.renderForm(), "")
	}

	sections = append(sections, m.renderSelectors())

	if m.view.Gate().Pending() {
		banner := lipgloss.JoinVertical(lipgloss.Left,
			m.theme.StatusWarning.Render(viewmodel.ConfirmationText),
			m.theme.Normal.Render("[y] Yes, activate   [n] No, keep current status"),
		)
		sections = append(sections, "", m.theme.BorderedBox.BorderForeground(m.theme.Warning).Render(banner))
	}

	if m.err != nil {
		sections = append(sections, "", m.theme.StatusError.Render(errorText(m.err)))
	}

	sections = append(sections, "", m.renderActions())

	return m.theme.RoundedBox.Width(max(m.width-4, 40)).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m MerchantDetailModel) renderSummary() string {
	merchant, ok := m.view.Merchant()
	if !ok {
		return ""
	}
	rows := [][2]string{
		{"ID", merchant.ID},
		{"Country", merchant.Country},
		{"Monthly Volume", viewmodel.FormatCurrency(merchant.MonthlyVolume)},
		{"Chargeback Ratio", viewmodel.FormatPercent(merchant.ChargebackRatio)},
		{"Success Rate", viewmodel.FormatPercent(merchant.SuccessRate)},
		{"Transactions", viewmodel.FormatNumber(merchant.Transactions)},
		{"Last Activity", merchant.LastActivity},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, m.label(r[0])+m.theme.Normal.Render(r[1]))
	}
	return strings.Join(lines, "\n")
}

func (m MerchantDetailModel) renderForm() string {
	errs := m.view.FormErrors()
	lines := make([]string, 0, len(inputFields)*2)
	for _, f := range inputFields {
		in := m.inputs[f]
		label := m.label(fieldLabels[f])
		if m.focused() == f {
			label = m.theme.Selected.Render(fmt.Sprintf("%-20s", fieldLabels[f])) + " "
		}
		lines = append(lines, label+in.View())
		if msg, bad := errs[fieldFormKeys[f]]; bad && (m.attempted || in.Value() != "") {
			lines = append(lines, strings.Repeat(" ", 21)+m.theme.StatusError.Render(msg))
		}
	}
	return strings.Join(lines, "\n")
}

func (m MerchantDetailModel) renderSelectors() string {
	status, risk := string(m.view.Status()), string(m.view.Risk())
	if status == "" {
		status = "choose"
	}
	if risk == "" {
		risk = "choose"
	}

	selector := func(f detailField, value string, style lipgloss.Style) string {
		label := m.label(fieldLabels[f])
		if m.focused() == f {
			label = m.theme.Selected.Render(fmt.Sprintf("%-20s", fieldLabels[f])) + " "
		}
		return label + "‹ " + style.Render(value) + " ›"
	}

	lines := []string{
		selector(fieldStatus, status, m.theme.StatusStyle(m.view.Status())),
		selector(fieldRisk, risk, m.theme.RiskStyle(m.view.Risk())),
	}
	if held, ok := m.view.Gate().Held(); ok {
		lines = append(lines, strings.Repeat(" ", 21)+m.theme.StatusPending.Render("pending: "+string(held)))
	}
	return strings.Join(lines, "\n")
}

func (m MerchantDetailModel) renderActions() string {
	saveText := fmt.Sprintf("[ctrl+s] %s", m.view.SaveLabel())
	saveStyle := m.theme.StatusSuccess
	if !m.view.CanSave() {
		saveStyle = m.theme.StatusPending
	}
	return saveStyle.Render(saveText) + "   " +
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("[esc] Cancel  [tab] next field  [←/→] change option")
}

func (m MerchantDetailModel) label(text string) string {
	return lipgloss.NewStyle().Foreground(m.theme.Muted).Render(fmt.Sprintf("%-20s", text)) + " "
}

func errorText(err error) string {
	switch {
	case errors.Is(err, viewmodel.ErrCannotSave):
		return "Nothing to save yet: complete the form or change a value."
	case errors.Is(err, viewmodel.ErrConfirmationPending):
		return "Answer the pending confirmation first."
	default:
		return err.Error()
	}
}
