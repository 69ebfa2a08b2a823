package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/protoson/pson"
	"github.com/protoson/pson/arena"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// treeNode is one entry of the flattened document tree shown by the
// inspector. Containers carry their children and an expansion toggle.
type treeNode struct {
	label    string
	val      *pson.Value
	children []*treeNode
	expanded bool
}

type visibleRow struct {
	node  *treeNode
	depth int
}

type inspectorModel struct {
	err      error
	filename string
	ringSize int
	root     *treeNode
	rows     []visibleRow
	cursor   int
	vp       viewport.Model
	ready    bool
}

type documentLoadedMsg struct {
	err  error
	root *treeNode
}

func newInspectorModel(filename string, ringSize int) *inspectorModel {
	return &inspectorModel{filename: filename, ringSize: ringSize}
}

func (m *inspectorModel) Init() tea.Cmd {
	return m.loadDocument
}

func (m *inspectorModel) loadDocument() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return documentLoadedMsg{err: err}
	}

	var alloc arena.Allocator
	if m.ringSize > 0 {
		alloc = arena.NewRing(m.ringSize)
	}

	v, err := pson.Parse(data, alloc)
	if err != nil {
		return documentLoadedMsg{err: err}
	}

	root := buildTree("document", v)
	root.expanded = true
	return documentLoadedMsg{root: root}
}

func buildTree(label string, v *pson.Value) *treeNode {
	n := &treeNode{label: label, val: v}
	switch v.Type() {
	case pson.TypeObject:
		for it := v.Object().Items(); it.Valid(); it.Next() {
			n.children = append(n.children, buildTree(it.Pair().Name(), it.Pair().Value()))
		}
	case pson.TypeArray:
		i := 0
		for it := v.Array().Values(); it.Valid(); it.Next() {
			n.children = append(n.children, buildTree("["+strconv.Itoa(i)+"]", it.Value()))
			i++
		}
	}
	return n
}

func (m *inspectorModel) flatten() {
	m.rows = m.rows[:0]
	if m.root != nil {
		m.appendRows(m.root, 0)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *inspectorModel) appendRows(n *treeNode, depth int) {
	m.rows = append(m.rows, visibleRow{node: n, depth: depth})
	if n.expanded {
		for _, c := range n.children {
			m.appendRows(c, depth+1)
		}
	}
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}

		case "g":
			m.cursor = 0

		case "G":
			m.cursor = len(m.rows) - 1

		case "enter", " ":
			if m.cursor < len(m.rows) {
				n := m.rows[m.cursor].node
				if len(n.children) > 0 {
					n.expanded = !n.expanded
					m.flatten()
				}
			}

		default:
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.vp = viewport.New(msg.Width, msg.Height-4)
		m.ready = true

	case documentLoadedMsg:
		m.err = msg.err
		m.root = msg.root
		m.flatten()
	}

	if m.ready {
		m.vp.SetContent(m.renderRows())
		m.scrollToCursor()
	}
	return m, nil
}

func (m *inspectorModel) scrollToCursor() {
	if m.cursor < m.vp.YOffset {
		m.vp.YOffset = m.cursor
	}
	if m.cursor >= m.vp.YOffset+m.vp.Height {
		m.vp.YOffset = m.cursor - m.vp.Height + 1
	}
}

func (m *inspectorModel) renderRows() string {
	var b strings.Builder
	for i, row := range m.rows {
		line := strings.Repeat("  ", row.depth) + m.formatRow(row.node)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *inspectorModel) formatRow(n *treeNode) string {
	marker := "  "
	if len(n.children) > 0 {
		if n.expanded {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	}
	return marker + nameStyle.Render(n.label) + ": " + formatValue(n.val)
}

func formatValue(v *pson.Value) string {
	switch v.Type() {
	case pson.TypeNull:
		return kindStyle.Render("null")
	case pson.TypeTrue:
		return "true"
	case pson.TypeFalse:
		return "false"
	case pson.TypeZero:
		return "0"
	case pson.TypeOne:
		return "1"
	case pson.TypeVarint:
		return strconv.FormatUint(v.Uint(), 10)
	case pson.TypeSVarint:
		return strconv.FormatInt(v.Int(), 10)
	case pson.TypeFloat:
		return strconv.FormatFloat(float64(v.Float32()), 'g', -1, 32) +
			" " + kindStyle.Render("f32")
	case pson.TypeDouble:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64) +
			" " + kindStyle.Render("f64")
	case pson.TypeString:
		return strconv.Quote(v.String())
	case pson.TypeBytes:
		b := v.Bytes()
		s := hex.EncodeToString(b)
		if len(s) > 32 {
			s = s[:32] + "…"
		}
		return "0x" + s + " " + kindStyle.Render(fmt.Sprintf("(%d bytes)", len(b)))
	case pson.TypeObject:
		return kindStyle.Render(fmt.Sprintf("object (%d fields)", v.Object().Len()))
	case pson.TypeArray:
		return kindStyle.Render(fmt.Sprintf("array (%d items)", v.Array().Len()))
	default:
		return kindStyle.Render("unknown")
	}
}

func (m *inspectorModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.ready || m.root == nil {
		return "Loading document..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("PSON Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • enter expand/collapse • g/G top/bottom • q quit"))
	return b.String()
}

func runInteractive(filename string, ringSize int) error {
	p := tea.NewProgram(newInspectorModel(filename, ringSize), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
