package ui

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/paginator"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	styles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kyaoi/tabview/internal/banner"
	"github.com/kyaoi/tabview/internal/dataset"
	"github.com/kyaoi/tabview/internal/notify"
	"github.com/kyaoi/tabview/internal/table"
	"github.com/kyaoi/tabview/internal/tree"
)

const (
	footerHeight      = 1
	minContentWidth   = 20
	minTreePanelWidth = 18
	defaultTreeWidth  = 28
	datasetCacheSize  = 16
	maxDotPages       = 10
)

var (
	treeBlurBorderColor  = lipgloss.Color("#3b4261")
	treeFocusBorderColor = lipgloss.Color("#7aa2f7")
	treeLineStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
	treeSelectedActive   = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1a1b26")).
				Background(lipgloss.Color("#7aa2f7")).
				Bold(true)
	treeSelectedInactive = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#c0caf5")).
				Background(lipgloss.Color("#283457"))
	helpBoxStyle = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Background(lipgloss.Color("#1f2335"))
	footerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#a9b1d6")).
			Background(lipgloss.Color("#1f2335"))
	errorLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))

	bannerStyles = map[banner.Variant]lipgloss.Style{
		banner.Info:    footerStyle.Foreground(lipgloss.Color("#2563eb")).Background(lipgloss.Color("#dbeafe")),
		banner.Success: footerStyle.Foreground(lipgloss.Color("#065f46")).Background(lipgloss.Color("#d1fae5")),
		banner.Warning: footerStyle.Foreground(lipgloss.Color("#b45309")).Background(lipgloss.Color("#fef3c7")),
		banner.Error:   footerStyle.Foreground(lipgloss.Color("#b91c1c")).Background(lipgloss.Color("#fee2e2")),
	}
)

// inactiveStatuses are status values that trigger the inactive rows warning.
var inactiveStatuses = map[string]bool{
	"inactive": true,
	"disabled": true,
	"비활성":      true,
}

// Model implements the Bubble Tea program for the table viewer.
type Model struct {
	contentVP     viewport.Model
	treeVP        viewport.Model
	renderer      *glamour.TermRenderer
	rendererWidth int
	description   string

	ds         *dataset.Dataset
	view       *table.View
	handlers   table.Handlers
	optionsFor OptionsFunc
	message    string
	grid       btable.Model
	resetGrid  bool
	colCursor  int

	headerPath         string
	treeVisible        bool
	treePreferredWidth int
	treeContentWidth   int
	treeFocus          bool
	showHelp           bool
	showNotes          bool
	pendingKey         string
	ready              bool
	width              int
	height             int
	err                error

	treeRoot      *tree.Node
	treeLoader    *tree.FSLoader
	flatTree      []treeLine
	treeSelection int
	rootDir       string
	displayRoot   string
	activeAbsPath string

	pageInput  textinput.Model
	pageActive bool
	pager      paginator.Model

	notes          *notify.Store
	noteCursor     int
	banner         *banner.Banner
	bannerSeq      int
	bannerDuration time.Duration

	cache *lru.Cache[cacheKey, *dataset.Dataset]

	watcher          *fsnotify.Watcher
	watchDir         string
	watchedFile      string
	events           chan tea.Msg
	listening        bool
	initialWatchPath string
}

type cacheKey struct {
	path    string
	modTime int64
	size    int64
}

type fileEventMsg struct {
	path string
	op   fsnotify.Op
}

type fileWatchErrMsg struct {
	err error
}

type bannerClosedMsg struct {
	seq int
}

// NewModel constructs the viewer model with the provided initial state.
func NewModel(state State) *Model {
	contentVP := viewport.New(0, 0)
	contentVP.Style = lipgloss.NewStyle().Padding(0, 1)
	contentVP.SetHorizontalStep(2)

	treeVP := viewport.New(0, 0)
	treeVP.Style = treePanelStyle(treeBlurBorderColor)
	treeVP.MouseWheelEnabled = false

	cache, _ := lru.New[cacheKey, *dataset.Dataset](datasetCacheSize)

	optionsFor := state.Options
	if optionsFor == nil {
		optionsFor = func(*dataset.Dataset) table.Options {
			return table.Options{Sortable: true, Selectable: true}
		}
	}

	m := &Model{
		contentVP:          contentVP,
		treeVP:             treeVP,
		optionsFor:         optionsFor,
		message:            state.Message,
		headerPath:         state.HeaderPath,
		treeVisible:        state.TreeVisible && state.TreeRoot != nil,
		treePreferredWidth: state.TreePreferredWidth,
		treeRoot:           state.TreeRoot,
		treeLoader:         state.TreeLoader,
		rootDir:            state.RootDir,
		displayRoot:        state.DisplayRoot,
		activeAbsPath:      state.ActiveAbsPath,
		grid:               btable.New(btable.WithStyles(gridStyles(true))),
		notes:              notify.NewStore(notify.Logging(log.Default())),
		bannerDuration:     state.BannerDuration,
		cache:              cache,
		events:             make(chan tea.Msg, 16),
	}

	pageInput := textinput.New()
	pageInput.Prompt = "page: "
	pageInput.CharLimit = 9
	pageInput.Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return errors.New("digits only")
			}
		}
		return nil
	}
	pageInput.Blur()
	m.pageInput = pageInput

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.ActiveDot = treeFocusBorderColorStyle().Render("•")
	pager.InactiveDot = mutedStyle.Render("•")
	m.pager = pager

	if state.Dataset != nil {
		if err := m.setDataset(state.Dataset, nil); err != nil {
			m.fail(err)
		} else {
			m.warnInactive()
		}
	}
	if state.ActiveAbsPath != "" {
		m.initialWatchPath = state.ActiveAbsPath
	}

	if m.treeRoot != nil {
		m.refreshTreeViewWithSelection(state.TreeSelectionPath)
	}
	m.updateTreePanelStyle()

	if state.FocusTree {
		m.focusTree()
	}

	return m
}

func treeFocusBorderColorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(treeFocusBorderColor)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	switch {
	case m.initialWatchPath != "":
		path := m.initialWatchPath
		m.initialWatchPath = ""
		m.startWatching(path)
	case m.treeLoader != nil && m.rootDir != "":
		if err := m.watchDirectory(m.rootDir); err != nil {
			m.err = err
		}
	}
	return m.listen()
}

// Close stops the pending banner and the file watcher. It is safe to call
// more than once.
func (m *Model) Close() error {
	if m.banner != nil {
		m.banner.Stop()
		m.banner = nil
	}
	if m.watcher == nil {
		return nil
	}
	err := m.watcher.Close()
	m.watcher = nil
	return err
}

// View implements tea.Model.
func (m *Model) View() string {
	body := m.contentVP.View()
	if m.view != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, gridView(m.grid, m.view))
	}
	if m.treeVisible {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.treeVP.View(), body)
	}

	if m.err != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, errorLineStyle.Render(m.err.Error()), body)
	}

	var overlay string
	switch {
	case m.showHelp:
		overlay = helpBoxStyle.Render(helpText)
	case m.showNotes:
		overlay = m.notesView()
	}
	if overlay != "" {
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
		}
		return overlay
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.footerView())
}

const helpText = `Help (? / Esc to close)
j / k            : move row cursor
h / l            : move column focus
s / Enter        : sort by focused column (again to reverse)
1-9              : sort by column number
] / [  n / N     : next / previous page
Home / End       : first / last page
:                : go to page
Space / x        : toggle row selection
y                : copy selected rows (or cursor row) as TSV
gg / G           : first / last row on the page
Ctrl+d / Ctrl+u  : move half a screen
!                : notification center
Tab              : switch focus between tree and table
t                : toggle the file tree
Esc              : dismiss banner
q / Ctrl+c       : quit`

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fileEventMsg:
		m.listening = false
		m.handleFileEvent(msg)
		return m, m.listen()
	case fileWatchErrMsg:
		m.listening = false
		m.err = msg.err
		return m, m.listen()
	case bannerClosedMsg:
		m.listening = false
		if msg.seq == m.bannerSeq {
			m.banner = nil
		}
		return m, m.listen()
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.pageActive {
			return m, m.handlePageInput(msg)
		}

		key := msg.String()
		if key != "g" {
			m.pendingKey = ""
		}

		if m.showHelp {
			switch key {
			case "q", "?", "esc":
				m.showHelp = false
			}
			return m, nil
		}
		if m.showNotes {
			m.handleNotesKey(key)
			return m, nil
		}

		switch key {
		case "q", "ctrl+c":
			m.Close()
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "!":
			m.showNotes = true
			m.noteCursor = 0
			return m, nil
		case "esc":
			if m.banner != nil {
				m.banner.Dismiss()
				m.banner = nil
			}
			m.err = nil
			return m, nil
		case "tab":
			if m.treeFocus {
				m.blurTree()
			} else if m.treeVisible {
				m.focusTree()
			}
			return m, nil
		case "ctrl+h":
			if m.treeVisible {
				m.focusTree()
			}
			return m, nil
		case "ctrl+l":
			m.blurTree()
			return m, nil
		case "t":
			if m.treeRoot != nil {
				m.treeVisible = !m.treeVisible
				if !m.treeVisible {
					m.blurTree()
				}
				m.resize(m.width, m.height)
			}
			return m, nil
		case ":":
			return m, m.enterPageMode()
		}

		if m.treeFocus && m.treeVisible {
			_, cmd := m.handleTreeKey(key)
			return m, cmd
		}

		if m.handleTableKey(key) {
			return m, nil
		}

		var cmd tea.Cmd
		m.contentVP, cmd = m.contentVP.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.contentVP, cmd = m.contentVP.Update(msg)
	return m, cmd
}

func (m *Model) handleTableKey(key string) bool {
	if m.view == nil {
		switch key {
		case "ctrl+d":
			m.contentVP.HalfPageDown()
			return true
		case "ctrl+u":
			m.contentVP.HalfPageUp()
			return true
		}
		return false
	}

	half := max(1, (m.height-footerHeight)/2)
	switch key {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "ctrl+d":
		m.moveCursor(half)
	case "ctrl+u":
		m.moveCursor(-half)
	case "h", "left":
		m.colCursor = clamp(m.colCursor-1, 0, max(len(m.ds.Columns)-1, 0))
	case "l", "right":
		m.colCursor = clamp(m.colCursor+1, 0, max(len(m.ds.Columns)-1, 0))
	case "s", "enter":
		m.sortColumn(m.colCursor)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(key)
		m.sortColumn(n - 1)
	case "]", "n", "pgdown":
		m.gotoPage(m.view.State().CurrentPage + 1)
	case "[", "N", "pgup":
		m.gotoPage(m.view.State().CurrentPage - 1)
	case "home":
		m.gotoPage(1)
	case "end":
		m.gotoPage(m.view.PageCount())
	case " ", "space", "x":
		if i, ok := m.view.AbsoluteIndex(m.grid.Cursor()); ok {
			m.handlers.OnRowToggled(i)
		}
	case "y":
		m.yank()
	case "g":
		if m.pendingKey == "g" {
			m.pendingKey = ""
			m.moveCursor(-len(m.grid.Rows()))
			m.contentVP.GotoTop()
		} else {
			m.pendingKey = "g"
			return true
		}
	case "G":
		m.moveCursor(len(m.grid.Rows()))
	default:
		return false
	}
	m.renderContent()
	return true
}

// moveCursor moves the grid cursor by delta rows; the grid scrolls to keep
// it visible.
func (m *Model) moveCursor(delta int) {
	switch {
	case len(m.grid.Rows()) == 0:
	case delta > 0:
		m.grid.MoveDown(delta)
	case delta < 0:
		m.grid.MoveUp(-delta)
	}
}

func (m *Model) sortColumn(index int) {
	if index < 0 || index >= len(m.ds.Columns) || !m.view.Sortable() {
		return
	}
	m.colCursor = index
	m.handlers.OnSortRequested(m.ds.Columns[index].Key)
	m.resetGrid = true
}

func (m *Model) gotoPage(page int) {
	if !m.view.Paginated() {
		return
	}
	before := m.view.State().CurrentPage
	m.handlers.OnPageRequested(page)
	if m.view.State().CurrentPage != before {
		m.resetGrid = true
		m.contentVP.GotoTop()
	}
}

func (m *Model) enterPageMode() tea.Cmd {
	if m.view == nil || !m.view.Paginated() {
		return nil
	}
	m.pageActive = true
	m.pendingKey = ""
	m.pageInput.SetValue("")
	m.pageInput.Placeholder = fmt.Sprintf("1-%d", m.view.PageCount())
	return m.pageInput.Focus()
}

func (m *Model) exitPageMode() {
	m.pageActive = false
	m.pageInput.Blur()
}

func (m *Model) handlePageInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.pageInput.Value())
		m.exitPageMode()
		if value == "" {
			return nil
		}
		page, err := strconv.Atoi(value)
		if err != nil {
			m.err = fmt.Errorf("%q is not a page number", value)
			return nil
		}
		m.err = nil
		m.gotoPage(page)
		m.renderContent()
		return nil
	case tea.KeyEsc, tea.KeyCtrlC:
		m.exitPageMode()
		return nil
	}
	var cmd tea.Cmd
	m.pageInput, cmd = m.pageInput.Update(msg)
	return cmd
}

func (m *Model) handleNotesKey(key string) {
	items := m.notes.State().Items
	current := func() (string, bool) {
		if m.noteCursor < 0 || m.noteCursor >= len(items) {
			return "", false
		}
		return items[m.noteCursor].ID, true
	}
	switch key {
	case "q", "!", "esc":
		m.showNotes = false
	case "j", "down":
		m.noteCursor = clamp(m.noteCursor+1, 0, max(len(items)-1, 0))
	case "k", "up":
		m.noteCursor = clamp(m.noteCursor-1, 0, max(len(items)-1, 0))
	case "r", "enter":
		if id, ok := current(); ok {
			m.notes.Dispatch(notify.MarkRead{ID: id})
		}
	case "R":
		m.notes.Dispatch(notify.MarkAllRead{})
	case "d":
		if id, ok := current(); ok {
			m.notes.Dispatch(notify.Remove{ID: id})
		}
	case "c":
		m.notes.Dispatch(notify.ClearAll{})
	}
	m.noteCursor = clamp(m.noteCursor, 0, max(len(m.notes.State().Items)-1, 0))
}

func (m *Model) notesView() string {
	st := m.notes.State()
	lines := []string{fmt.Sprintf("Notifications (%d unread)", st.Unread()), ""}
	if len(st.Items) == 0 {
		lines = append(lines, mutedStyle.Render("No notifications"))
	}
	for i, n := range st.Items {
		marker := " "
		if !n.Read {
			marker = "●"
		}
		line := fmt.Sprintf("%s %-7s %s", marker, n.Variant, n.Message)
		if i == m.noteCursor {
			line = treeSelectedActive.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", mutedStyle.Render("j/k move · r read · R read all · d delete · c clear · esc close"))
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) footerView() string {
	width := max(m.width, 0)
	switch {
	case m.pageActive:
		return footerStyle.Width(width).Render(m.pageInput.View())
	case m.banner != nil && !m.banner.Closed():
		style, ok := bannerStyles[m.banner.Variant]
		if !ok {
			style = bannerStyles[banner.Info]
		}
		return style.Width(width).Render(m.banner.Message + "  ×")
	}
	return footerStyle.Width(width).Render(m.statusLine())
}

func (m *Model) statusLine() string {
	parts := []string{m.headerPath}
	if m.view != nil {
		st := m.view.State()
		if m.view.Paginated() {
			m.pager.PerPage = m.view.PageSize()
			m.pager.SetTotalPages(m.view.Len())
			m.pager.Page = st.CurrentPage - 1
			m.pager.Type = paginator.Dots
			if m.pager.TotalPages > maxDotPages {
				m.pager.Type = paginator.Arabic
			}
			parts = append(parts, fmt.Sprintf("%s page %d/%d", m.pager.View(), st.CurrentPage, m.view.PageCount()))
		}
		if st.Sorted() {
			dir := sortAscIndicator
			if !st.SortAscending {
				dir = sortDescIndicator
			}
			parts = append(parts, "sort: "+st.SortKey+dir)
		}
		if m.view.Selectable() {
			parts = append(parts, fmt.Sprintf("%d selected", st.SelectionCount()))
		}
	}
	if unread := m.notes.State().Unread(); unread > 0 {
		parts = append(parts, fmt.Sprintf("! %d unread", unread))
	}
	parts = append(parts, "? help")
	return strings.Join(parts, " · ")
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= footerHeight {
		return
	}

	m.width = width
	m.height = height
	m.ready = true

	treeWidth := m.treeWidth(width)
	contentWidth := width - treeWidth
	if m.treeVisible && treeWidth > 0 {
		contentWidth--
	}
	if contentWidth < minContentWidth {
		contentWidth = minContentWidth
	}

	contentHeight := max(height-footerHeight, 1)
	m.contentVP.Width = contentWidth

	wrapWidth := max(contentWidth-m.contentVP.Style.GetHorizontalFrameSize(), 0)
	if m.renderer == nil || wrapWidth != m.rendererWidth {
		renderer, err := newRenderer(wrapWidth)
		if err != nil {
			m.err = err
			return
		}
		m.renderer = renderer
		m.rendererWidth = wrapWidth
		m.renderDescription()
	}
	m.renderContent()

	if m.treeVisible && treeWidth > 0 {
		m.treeVP.Width = treeWidth
		m.treeVP.Height = contentHeight
		m.ensureSelectionVisible()
	} else {
		m.treeVP.Width = 0
		m.treeVP.Height = contentHeight
	}
}

func (m *Model) treeWidth(totalWidth int) int {
	if !m.treeVisible {
		return 0
	}
	preferred := m.treePreferredWidth
	if preferred <= 0 {
		preferred = defaultTreeWidth
	}

	frame := m.treeVP.Style.GetHorizontalFrameSize()
	minPanel := max(minTreePanelWidth-frame, 0)
	maxPanel := max(totalWidth/2-frame, minPanel)
	width := clamp(preferred, minPanel, maxPanel) + frame
	if totalWidth-width < minContentWidth {
		width = max(totalWidth-minContentWidth, 0)
	}
	return min(width, totalWidth)
}

// renderDescription renders the dataset description with glamour.
func (m *Model) renderDescription() {
	m.description = ""
	if m.ds == nil || m.ds.Description == "" || m.renderer == nil {
		return
	}
	rendered, err := m.renderer.Render(m.ds.Description)
	if err != nil {
		m.err = err
		return
	}
	m.description = strings.TrimRight(rendered, "\n")
}

// renderContent redraws the description viewport and loads the current page
// into the grid. The grid gets the body height left below the description.
func (m *Model) renderContent() {
	var parts []string
	if m.description != "" {
		parts = append(parts, m.description)
	}
	bodyHeight := max(m.height-footerHeight, 0)
	if m.view == nil {
		parts = append(parts, mutedStyle.Render(m.message))
		m.contentVP.SetContent(strings.Join(parts, "\n"))
		if bodyHeight > 0 {
			m.contentVP.Height = bodyHeight
		}
		return
	}

	parts = append(parts, titleStyle.Render(m.ds.Title)+mutedStyle.Render(fmt.Sprintf("  %d rows", m.view.Len())))
	top := strings.Join(parts, "\n")
	m.contentVP.SetContent(top)

	opts := gridOptions{
		colCursor: m.colCursor,
		focused:   !m.treeFocus,
		reset:     m.resetGrid,
	}
	if bodyHeight > 0 {
		m.contentVP.Height = clamp(lipgloss.Height(top), 1, max(bodyHeight/3, 1))
		opts.height = max(bodyHeight-m.contentVP.Height, gridHeaderHeight+1)
		opts.width = m.contentVP.Width - gridFrameStyle.GetHorizontalFrameSize()
	}
	syncGrid(&m.grid, m.view, opts)
	m.resetGrid = false
}

// setDataset builds a new view for ds. When restore is set, its sort and
// page are re-applied; the selection always starts empty.
func (m *Model) setDataset(ds *dataset.Dataset, restore *table.ViewState) error {
	view, err := table.New(ds.Columns, ds.Rows, m.optionsFor(ds))
	if err != nil {
		return err
	}
	if restore != nil {
		if restore.Sorted() {
			view.RequestSort(restore.SortKey)
			if !restore.SortAscending {
				view.RequestSort(restore.SortKey)
			}
		}
		view.RequestPage(restore.CurrentPage)
	}

	m.ds = ds
	m.view = view
	m.handlers = view.Handlers()
	m.colCursor = clamp(m.colCursor, 0, max(len(ds.Columns)-1, 0))
	m.resetGrid = restore == nil
	m.renderDescription()
	m.renderContent()
	return nil
}

func (m *Model) loadDataset(path string) (*dataset.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := cacheKey{path: path, modTime: info.ModTime().UnixNano(), size: info.Size()}
	if ds, ok := m.cache.Get(key); ok {
		return ds, nil
	}
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	m.cache.Add(key, ds)
	return ds, nil
}

// warnInactive shows the inactive rows banner when a status column holds
// an inactive value.
func (m *Model) warnInactive() {
	if m.ds == nil {
		return
	}
	var key string
	for _, col := range m.ds.Columns {
		if strings.EqualFold(col.Key, "status") {
			key = col.Key
			break
		}
	}
	if key == "" {
		return
	}
	for _, row := range m.ds.Rows {
		if s, ok := row[key].(string); ok && inactiveStatuses[strings.ToLower(strings.TrimSpace(s))] {
			const text = "Dataset includes inactive rows"
			m.showBanner(text, banner.Warning)
			m.notes.Push(text, banner.Warning)
			return
		}
	}
}

func (m *Model) showBanner(message string, variant banner.Variant) {
	if m.banner != nil {
		m.banner.Stop()
	}
	m.bannerSeq++
	seq := m.bannerSeq
	events := m.events
	m.banner = banner.Show(message, variant, m.bannerDuration, func() {
		select {
		case events <- bannerClosedMsg{seq: seq}:
		default:
		}
	})
}

func (m *Model) fail(err error) {
	log.Printf("tabview: %v", err)
	m.err = err
	m.showBanner(err.Error(), banner.Error)
	m.notes.Push(err.Error(), banner.Error)
}

func (m *Model) yank() {
	rows := m.view.SelectedRows()
	if len(rows) == 0 {
		if i, ok := m.view.AbsoluteIndex(m.grid.Cursor()); ok {
			if row, ok := m.view.RowAt(i); ok {
				rows = append(rows, row)
			}
		}
	}
	if len(rows) == 0 {
		return
	}
	if err := clipboard.WriteAll(tsv(m.view, rows)); err != nil {
		m.fail(fmt.Errorf("copy to clipboard: %w", err))
		return
	}
	text := fmt.Sprintf("Copied %d rows", len(rows))
	m.showBanner(text, banner.Success)
	m.notes.Push(text, banner.Success)
}

func (m *Model) openFileEntry(entry *tree.Node) tea.Cmd {
	if m.rootDir == "" {
		return nil
	}
	absPath := filepath.Join(m.rootDir, filepath.FromSlash(entry.Path))
	ds, err := m.loadDataset(absPath)
	if err != nil {
		m.fail(err)
		return nil
	}
	if err := m.setDataset(ds, nil); err != nil {
		m.fail(err)
		return nil
	}
	m.err = nil
	m.activeAbsPath = absPath
	m.headerPath = composeDisplayPath(m.displayRoot, entry.Path)
	m.contentVP.GotoTop()
	m.notes.Push(fmt.Sprintf("Opened %s (%d rows)", m.headerPath, len(ds.Rows)), banner.Info)
	m.warnInactive()
	log.Printf("tabview: opened %s", absPath)
	m.startWatching(absPath)
	return m.listen()
}

func newRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.TokyoNightStyle),
		glamour.WithWordWrap(width),
	)
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func (m *Model) startWatching(path string) {
	if path == "" {
		return
	}
	path = filepath.Clean(path)
	if err := m.watchDirectory(filepath.Dir(path)); err != nil {
		m.err = err
		return
	}
	m.watchedFile = path
}

// watchDirectory moves the watcher to dir. Only one directory is watched.
func (m *Model) watchDirectory(dir string) error {
	if err := m.ensureWatcher(); err != nil {
		return err
	}
	if dir == m.watchDir {
		return nil
	}
	if m.watchDir != "" {
		_ = m.watcher.Remove(m.watchDir)
	}
	if err := m.watcher.Add(dir); err != nil {
		return err
	}
	m.watchDir = dir
	return nil
}

func (m *Model) ensureWatcher() error {
	if m.watcher != nil {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	m.watcher = watcher
	go watchLoop(watcher, m.events)
	return nil
}

func watchLoop(watcher *fsnotify.Watcher, events chan<- tea.Msg) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			events <- fileEventMsg{path: event.Name, op: event.Op}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			events <- fileWatchErrMsg{err: err}
		}
	}
}

// listen waits for the next watcher or banner message. Only one listener is
// outstanding at a time.
func (m *Model) listen() tea.Cmd {
	if m.listening {
		return nil
	}
	m.listening = true
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

func (m *Model) handleFileEvent(msg fileEventMsg) {
	path := filepath.Clean(msg.path)
	if msg.op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 && filepath.Dir(path) == m.watchDir {
		m.rescanTree()
	}
	if m.watchedFile != "" && path == m.watchedFile {
		m.reloadActiveFile()
	}
}

func (m *Model) reloadActiveFile() {
	if m.activeAbsPath == "" {
		return
	}
	ds, err := m.loadDataset(m.activeAbsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		m.fail(err)
		return
	}

	var prev *table.ViewState
	if m.view != nil {
		st := m.view.State()
		prev = &st
	}
	offset := m.contentVP.YOffset
	if err := m.setDataset(ds, prev); err != nil {
		m.fail(err)
		return
	}
	m.err = nil
	m.contentVP.SetYOffset(offset)
	log.Printf("tabview: reloaded %s", m.activeAbsPath)
	if prev != nil && prev.SelectionCount() > 0 {
		m.notes.Push("Reloaded "+m.headerPath+"; selection cleared", banner.Info)
	}
}
