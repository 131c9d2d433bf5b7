package tui

// columnLayout holds calculated widths for the View
type columnLayout struct {
	listWidth      int
	inspectorWidth int // 0 if not shown
}

// calculateColumnLayout splits the width between list and inspector
func (m Model) calculateColumnLayout(availableWidth int) columnLayout {
	if !m.ShowInspector || availableWidth < 2*MinColumnWidth {
		return columnLayout{listWidth: availableWidth}
	}
	list := max(availableWidth*ListColumnPercent/100, MinColumnWidth)
	return columnLayout{
		listWidth:      list,
		inspectorWidth: availableWidth - list,
	}
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := max(m.Height-ChromeHeight, 3)
	layout := m.calculateColumnLayout(m.Width)

	m.CategoryBar.SetWidth(m.Width)
	m.SearchBar.SetWidth(m.Width)
	m.MovieList.SetSize(layout.listWidth, contentHeight)
	if layout.inspectorWidth > 0 {
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)
	}
}
