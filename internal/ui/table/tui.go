package table

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/imgajeed76/pgrid/internal/tableview"
	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"github.com/imgajeed76/pgrid/internal/util"
)

const (
	defaultColWidth = 24
	minColWidth     = 3
	hiddenColWidth  = 3
	colGap          = 2

	// title, search bar, header, separator, scroll indicators, footer
	chromeLines = 6
)

// Column display state
type colState int

const (
	colStateDefault  colState = iota // truncated to defaultColWidth
	colStateExpanded                 // full width
	colStateHidden                   // minimal width (just "...")
)

// Table mode
type tableMode int

const (
	tableModeNormal tableMode = iota
	tableModeSearch
)

// Exit mode: what to print after quitting the TUI
type exitMode int

const (
	exitNormal exitMode = iota
	exitJSON
	exitRaw
	exitPlain
)

type tableModel struct {
	title         string
	engine        *tableview.Engine
	columns       []string
	statusCol     string
	view          tableview.View // engine view as of the last control change
	fullColWidths []int          // widest cell of each column over the whole dataset
	colStates     []colState
	cursor        int // row within the current page
	colCursor     int
	scrollX       int // horizontal scroll offset in characters
	scrollY       int // vertical scroll offset in rows
	width         int
	height        int
	ready         bool
	mode          tableMode
	searchInput   textinput.Model
	exitMode      exitMode

	// Flash notification, e.g. after yank
	statusMsg   string
	statusUntil time.Time

	copyText func(string) error
}

type tableKeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Top            key.Binding
	Bottom         key.Binding
	NextPage       key.Binding
	PrevPage       key.Binding
	BiggerPage     key.Binding
	SmallerPage    key.Binding
	Sort           key.Binding
	ClearSort      key.Binding
	Search         key.Binding
	Toggle         key.Binding
	ClearSelection key.Binding
	Expand         key.Binding
	Hide           key.Binding
	YankRow        key.Binding
	YankSelected   key.Binding
	ExportJSON     key.Binding
	ExportRaw      key.Binding
	ExportPlain    key.Binding
	Quit           key.Binding
}

var tableKeys = tableKeyMap{
	Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:           key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev column")),
	Right:          key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next column")),
	Top:            key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first row")),
	Bottom:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last row")),
	NextPage:       key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next page")),
	PrevPage:       key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "prev page")),
	BiggerPage:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "bigger pages")),
	SmallerPage:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "smaller pages")),
	Sort:           key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	ClearSort:      key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "unsort")),
	Search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Toggle:         key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "select")),
	ClearSelection: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "clear selection")),
	Expand:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand/default")),
	Hide:           key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide/default")),
	YankRow:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy row")),
	YankSelected:   key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy selected")),
	ExportJSON:     key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "print as JSON")),
	ExportRaw:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "print raw")),
	ExportPlain:    key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "print table")),
	Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// Run launches the interactive table viewer over e. It blocks until the
// user quits. If the user requests an export (J/R/P), the page on screen
// at exit is written to out.
func Run(title string, e *tableview.Engine, out io.Writer) error {
	p := tea.NewProgram(newModel(title, e), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if fm, ok := finalModel.(tableModel); ok {
		switch fm.exitMode {
		case exitJSON:
			return WriteJSON(out, e)
		case exitRaw:
			return WriteRaw(out, e)
		case exitPlain:
			return WritePlain(out, e)
		}
	}

	return nil
}

func newModel(title string, e *tableview.Engine) tableModel {
	cfg := e.Config()
	columns := cfg.Columns
	if len(columns) == 0 {
		columns = inferColumns(e.Rows())
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search..."
	ti.CharLimit = 100
	ti.Width = 30

	m := tableModel{
		title:       title,
		engine:      e,
		columns:     columns,
		statusCol:   cfg.StatusColumn,
		colStates:   make([]colState, len(columns)),
		mode:        tableModeNormal,
		searchInput: ti,
		exitMode:    exitNormal,
		copyText:    clipboard.WriteAll,
	}
	m.fullColWidths = m.measureColumns()
	m.refresh()
	return m
}

// inferColumns lists every key of rows, sorted, for engines configured
// without a column list.
func inferColumns(rows []tableview.Row) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for col := range r.Values {
			seen[col] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// measureColumns sizes columns over the whole dataset so widths do not
// jump between pages.
func (m tableModel) measureColumns() []int {
	widths := make([]int, len(m.columns))
	for i, col := range m.columns {
		// room for the sort marker
		widths[i] = lipgloss.Width(col) + 2
	}
	for _, row := range m.engine.Rows() {
		for i, col := range m.columns {
			if w := lipgloss.Width(cellText(m.engine, row, col)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// refresh re-reads the engine view and keeps the cursor on the page.
func (m *tableModel) refresh() {
	m.view = m.engine.View()
	if m.cursor >= len(m.view.Rows) {
		m.cursor = max(len(m.view.Rows)-1, 0)
	}
	m.ensureRowVisible()
}

// toPageTop moves the cursor to the first row after a page change.
func (m *tableModel) toPageTop() {
	m.cursor = 0
	m.scrollY = 0
	m.refresh()
}

func (m tableModel) currentRow() (tableview.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Rows) {
		return tableview.Row{}, false
	}
	return m.view.Rows[m.cursor], true
}

func (m tableModel) Init() tea.Cmd {
	return nil
}

func (m tableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.ensureRowVisible()
		return m, nil

	case statusClearMsg:
		if time.Now().After(m.statusUntil) {
			m.statusMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == tableModeSearch {
			return m.updateSearch(msg)
		}
		if m.move(msg) {
			return m, nil
		}
		for _, x := range exports {
			if key.Matches(msg, x.binding) {
				m.exitMode = x.mode
				return m, tea.Quit
			}
		}
		return m.command(msg)
	}
	return m, nil
}

// exports map the print-on-exit keys to what gets printed.
var exports = []struct {
	binding key.Binding
	mode    exitMode
}{
	{tableKeys.ExportJSON, exitJSON},
	{tableKeys.ExportRaw, exitRaw},
	{tableKeys.ExportPlain, exitPlain},
}

// move handles cursor keys within the current page. It reports whether
// msg was one of them.
func (m *tableModel) move(msg tea.KeyMsg) bool {
	last := len(m.view.Rows) - 1
	switch {
	case key.Matches(msg, tableKeys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, tableKeys.Down):
		m.cursor = max(min(m.cursor+1, last), 0)
	case key.Matches(msg, tableKeys.Top):
		m.cursor, m.scrollY, m.scrollX = 0, 0, 0
	case key.Matches(msg, tableKeys.Bottom):
		m.cursor = max(last, 0)
	case key.Matches(msg, tableKeys.Left):
		m.colCursor = max(m.colCursor-1, 0)
		m.ensureColVisible()
		return true
	case key.Matches(msg, tableKeys.Right):
		m.colCursor = max(min(m.colCursor+1, len(m.columns)-1), 0)
		m.ensureColVisible()
		return true
	default:
		return false
	}
	m.ensureRowVisible()
	return true
}

// command handles the keys that change engine state or leave the view.
func (m tableModel) command(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, tableKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, tableKeys.Search):
		m.mode = tableModeSearch
		m.searchInput.SetValue(m.engine.SearchText())
		m.searchInput.CursorEnd()
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, tableKeys.NextPage):
		m.engine.NextPage()
		m.toPageTop()

	case key.Matches(msg, tableKeys.PrevPage):
		m.engine.PrevPage()
		m.toPageTop()

	case key.Matches(msg, tableKeys.BiggerPage), key.Matches(msg, tableKeys.SmallerPage):
		step := 1
		if key.Matches(msg, tableKeys.SmallerPage) {
			step = -1
		}
		size := m.engine.CyclePageSize(step)
		m.toPageTop()
		return m, m.setStatus(fmt.Sprintf("%d rows per page", size))

	case key.Matches(msg, tableKeys.Sort):
		return m, m.sortColumn()

	case key.Matches(msg, tableKeys.ClearSort):
		m.engine.ClearSort()
		m.refresh()

	case key.Matches(msg, tableKeys.Toggle):
		if row, ok := m.currentRow(); ok {
			m.engine.ToggleSelection(row.ID)
		}

	case key.Matches(msg, tableKeys.ClearSelection):
		m.engine.ClearSelection()
		return m, m.setStatus("Selection cleared")

	case key.Matches(msg, tableKeys.Expand):
		m.toggleColState(colStateExpanded)

	case key.Matches(msg, tableKeys.Hide):
		m.toggleColState(colStateHidden)

	case key.Matches(msg, tableKeys.YankRow):
		return m, m.yankRow()

	case key.Matches(msg, tableKeys.YankSelected):
		return m, m.yankSelected()
	}
	return m, nil
}

// toggleColState switches the cursor column between state and the
// default width.
func (m *tableModel) toggleColState(state colState) {
	if m.colCursor >= len(m.colStates) {
		return
	}
	if m.colStates[m.colCursor] == state {
		state = colStateDefault
	}
	m.colStates[m.colCursor] = state
	m.ensureColVisible()
}

func (m *tableModel) sortColumn() tea.Cmd {
	if len(m.columns) == 0 {
		return nil
	}
	col := m.columns[m.colCursor]
	if err := m.engine.SetSort(col); err != nil {
		return m.setStatus(err.Error())
	}
	m.refresh()

	s := m.engine.Sort()
	if s.Column != col {
		return m.setStatus(fmt.Sprintf("%s cannot be sorted", col))
	}
	return m.setStatus(fmt.Sprintf("Sorted by %s %s", col, s.Direction))
}

// updateSearch feeds keystrokes to the pending search text. The filter is
// only applied on enter; esc clears it.
func (m tableModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = tableModeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.engine.SetSearchText("")
		m.engine.ApplyFilter()
		m.toPageTop()
		return m, nil
	case tea.KeyEnter:
		m.mode = tableModeNormal
		m.searchInput.Blur()
		m.engine.ApplyFilter()
		m.toPageTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.engine.SetSearchText(m.searchInput.Value())

	return m, cmd
}

// colLayout is the horizontal position of every column on the virtual
// line that the viewport slides over.
type colLayout struct {
	widths []int
	starts []int
	total  int
}

func (m tableModel) layout() colLayout {
	l := colLayout{
		widths: make([]int, len(m.columns)),
		starts: make([]int, len(m.columns)),
	}
	x := 0
	for i := range m.columns {
		w := max(min(m.fullColWidths[i], defaultColWidth), minColWidth)
		switch m.colStates[i] {
		case colStateExpanded:
			w = max(m.fullColWidths[i], minColWidth)
		case colStateHidden:
			w = hiddenColWidth
		}
		l.widths[i] = w
		l.starts[i] = x
		x += w + colGap
	}
	l.total = x
	return l
}

// span returns where column i starts and ends.
func (l colLayout) span(i int) (int, int) {
	return l.starts[i], l.starts[i] + l.widths[i]
}

// maxScroll is the largest scrollX that still fills a screen of width w.
func (l colLayout) maxScroll(w int) int {
	return max(l.total-w, 0)
}

// tableWidth leaves a margin of one cell on each side.
func (m tableModel) tableWidth() int {
	return m.width - 2
}

func (m tableModel) bodyHeight() int {
	return max(m.height-chromeLines, 1)
}

func (m *tableModel) ensureRowVisible() {
	h := m.bodyHeight()
	switch {
	case m.cursor < m.scrollY:
		m.scrollY = m.cursor
	case m.cursor >= m.scrollY+h:
		m.scrollY = m.cursor - h + 1
	}
	m.scrollY = max(min(m.scrollY, len(m.view.Rows)-h), 0)
}

// ensureColVisible scrolls just far enough to show the cursor column, or
// its left edge when it is wider than the screen.
func (m *tableModel) ensureColVisible() {
	if len(m.columns) == 0 {
		return
	}
	l := m.layout()
	w := m.tableWidth()
	from, to := l.span(m.colCursor)

	if from < m.scrollX || to-from > w {
		m.scrollX = from
	} else if to > m.scrollX+w {
		m.scrollX = to - w
	}
	m.scrollX = max(min(m.scrollX, l.maxScroll(w)), 0)
}

// viewport returns the visible window [startX, startX+width) of a styled
// line, padded to width.
func viewport(s string, startX, width int) string {
	if width <= 0 {
		return ""
	}
	cut := ansi.Cut(s, startX, startX+width)
	if w := ansi.StringWidth(cut); w < width {
		cut += strings.Repeat(" ", width-w)
	}
	return cut
}

type statusClearMsg struct{}

const statusDuration = 2 * time.Second

// setStatus sets a temporary status message that auto-clears.
func (m *tableModel) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusUntil = time.Now().Add(statusDuration)
	return tea.Tick(statusDuration, func(t time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

// rowValues returns a row's cells as copied to the clipboard: every
// displayed column except the selection checkbox.
func (m tableModel) rowValues(row tableview.Row) []string {
	sel := m.engine.Config().SelectionColumn
	vals := make([]string, 0, len(m.columns))
	for _, col := range m.columns {
		if col != sel {
			vals = append(vals, row.Text(col))
		}
	}
	return vals
}

// yankRow copies the row under the cursor (tab-separated) to the clipboard.
func (m *tableModel) yankRow() tea.Cmd {
	row, ok := m.currentRow()
	if !ok {
		return nil
	}
	vals := m.rowValues(row)
	if err := m.copyText(strings.Join(vals, "\t")); err != nil {
		return m.setStatus(fmt.Sprintf("clipboard error: %s", err))
	}
	return m.setStatus(fmt.Sprintf("Copied row (%d columns)", len(vals)))
}

// yankSelected copies every selected row, on any page, with a header line.
func (m *tableModel) yankSelected() tea.Cmd {
	rows := m.engine.SelectedRows()
	if len(rows) == 0 {
		return m.setStatus("No rows selected")
	}

	sel := m.engine.Config().SelectionColumn
	var header []string
	for _, col := range m.columns {
		if col != sel {
			header = append(header, col)
		}
	}

	lines := []string{strings.Join(header, "\t")}
	for _, row := range rows {
		lines = append(lines, strings.Join(m.rowValues(row), "\t"))
	}
	if err := m.copyText(strings.Join(lines, "\n")); err != nil {
		return m.setStatus(fmt.Sprintf("clipboard error: %s", err))
	}
	return m.setStatus(fmt.Sprintf("Copied %d selected rows", len(rows)))
}

func (m tableModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	return strings.Join([]string{
		m.titleLine(),
		m.searchLine(),
		m.renderTable(),
		m.footerLine(),
	}, "\n")
}

// titleLine shows the row and column counts plus any column that is
// expanded (+) or hidden (-).
func (m tableModel) titleLine() string {
	rows := fmt.Sprintf("%d rows", m.view.TotalRows)
	if m.view.Search != "" {
		rows = fmt.Sprintf("%d/%d rows", m.view.TotalRows, m.view.SourceRows)
	}
	line := styles.Render(styles.TitleStyle, fmt.Sprintf("%s: %s, %d columns", m.title, rows, len(m.columns)))

	var changed []string
	for i, st := range m.colStates {
		if mark, ok := colStateMarks[st]; ok {
			changed = append(changed, m.columns[i]+mark)
		}
	}
	if len(changed) > 0 {
		line += styles.MutedMsg("  [" + strings.Join(changed, ", ") + "]")
	}
	return line
}

var colStateMarks = map[colState]string{
	colStateExpanded: "+",
	colStateHidden:   "-",
}

func (m tableModel) searchLine() string {
	if m.mode == tableModeSearch {
		return m.searchInput.View()
	}
	if m.view.Search != "" {
		return styles.MutedMsg("filter: " + m.view.Search)
	}
	return ""
}

func (m tableModel) footerLine() string {
	if m.statusMsg != "" && time.Now().Before(m.statusUntil) {
		return styles.SuccessMsg(m.statusMsg)
	}
	if m.mode == tableModeSearch {
		return styles.MutedMsg("enter apply  esc clear")
	}
	return styles.MutedMsg(Summary(m.view, len(m.engine.Selected()))) + "  " +
		styles.MutedMsg("s sort  / search  space select  n/p page  +/- size  y copy  J json  P table  q quit")
}

func (m tableModel) renderTable() string {
	if len(m.columns) == 0 {
		return "No columns"
	}

	l := m.layout()
	w := m.tableWidth()
	h := m.bodyHeight()

	var lines []string
	lines = append(lines, m.joinCells(l, m.headerCell), m.joinCells(l, m.separatorCell))

	last := min(m.scrollY+h, len(m.view.Rows))
	for i := m.scrollY; i < last; i++ {
		row, onCursor := m.view.Rows[i], i == m.cursor
		lines = append(lines, m.joinCells(l, func(col int, width int) string {
			return m.bodyCell(row, onCursor, col, width)
		}))
	}
	for i := range lines {
		lines[i] = viewport(lines[i], m.scrollX, w)
	}
	if len(m.view.Rows) == 0 {
		lines = append(lines, styles.MutedMsg("(no matching rows)"))
	}

	var marks []string
	for _, mk := range []struct {
		on   bool
		mark string
	}{
		{m.scrollX > 0, "◀"},
		{m.scrollX+w < l.total, "▶"},
		{m.scrollY > 0, "▲"},
		{last < len(m.view.Rows), "▼"},
	} {
		if mk.on {
			marks = append(marks, mk.mark)
		}
	}

	return strings.Join(lines, "\n") + "\n" + styles.MutedMsg(strings.Join(marks, " "))
}

// joinCells renders one line, calling cell for every column with its
// width and separating columns by colGap spaces.
func (m tableModel) joinCells(l colLayout, cell func(col, width int) string) string {
	var sb strings.Builder
	gap := strings.Repeat(" ", colGap)
	for i := range m.columns {
		sb.WriteString(cell(i, l.widths[i]))
		sb.WriteString(gap)
	}
	return sb.String()
}

func (m tableModel) headerCell(i, width int) string {
	name := headerText(m.view, m.columns[i])
	if m.colStates[i] == colStateHidden {
		name = "..."
	}
	style := styles.HeaderStyle
	if i == m.colCursor {
		style = styles.SelectedHeaderStyle
	}
	return styles.Render(style, util.PadOrTruncate(name, width))
}

func (m tableModel) separatorCell(i, width int) string {
	style := styles.SeparatorStyle
	if i == m.colCursor {
		style = styles.SelectedSepStyle
	}
	return styles.Render(style, strings.Repeat("─", width))
}

// bodyCell styles one data cell. Cursor highlighting wins over selection,
// which wins over status badges and search matches.
func (m tableModel) bodyCell(row tableview.Row, onCursor bool, i, width int) string {
	col := m.columns[i]
	val := cellText(m.engine, row, col)

	text := val
	if m.colStates[i] == colStateHidden {
		text = "..."
	}
	text = util.PadOrTruncate(text, width)

	search := strings.ToLower(m.view.Search)
	switch {
	case onCursor && i == m.colCursor:
		return styles.Render(styles.CursorCellStyle, text)
	case onCursor:
		return styles.Render(styles.CursorRowStyle, text)
	case m.engine.IsSelected(row.ID):
		return styles.Render(styles.SelectedRowStyle, text)
	case col == m.statusCol:
		return styles.StatusBadge(val, text)
	case search != "" && strings.Contains(strings.ToLower(val), search):
		return styles.Render(styles.MatchStyle, text)
	}
	return text
}
