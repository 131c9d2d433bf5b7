package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/tui/styles"
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Inspector displays details for the selected movie. It shows the list
// entry immediately and upgrades to full details once they arrive.
type Inspector struct {
	movie      *domain.Movie
	details    *domain.MovieDetails
	loading    bool
	err        error
	genreNames func(ids []int) []string
	posterURL  func(path string) string
	width      int
	height     int
	offset     int
	maxVisible int
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{}
}

// SetMovie sets the list entry to display and drops any stale details
func (i *Inspector) SetMovie(m *domain.Movie) {
	if m != nil && i.movie != nil && m.ID == i.movie.ID {
		return
	}
	i.movie = m
	i.details = nil
	i.loading = false
	i.err = nil
	i.offset = 0
}

// MovieID returns the id of the displayed movie, 0 if none
func (i Inspector) MovieID() int {
	if i.movie == nil {
		return 0
	}
	return i.movie.ID
}

// SetLoading marks a details fetch in progress
func (i *Inspector) SetLoading(loading bool) {
	i.loading = loading
	if loading {
		i.err = nil
	}
}

// SetDetails installs fetched details if they belong to the displayed movie
func (i *Inspector) SetDetails(d *domain.MovieDetails) {
	if d == nil || i.movie == nil || d.ID != i.movie.ID {
		return
	}
	i.details = d
	i.loading = false
	i.err = nil
}

// SetError records a details fetch failure for movieID
func (i *Inspector) SetError(movieID int, err error) {
	if i.movie == nil || movieID != i.movie.ID {
		return
	}
	i.loading = false
	i.err = err
}

// HasDetails reports whether full details are shown
func (i Inspector) HasDetails() bool {
	return i.details != nil
}

// SetGenreNames installs the lookup used for list entries without details
func (i *Inspector) SetGenreNames(fn func(ids []int) []string) {
	i.genreNames = fn
}

// SetPosterURL installs the poster URL builder
func (i *Inspector) SetPosterURL(fn func(path string) string) {
	i.posterURL = fn
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	i.maxVisible = height - BorderHeight - ScrollIndicatorLines - 2 // title and blank line
	if i.maxVisible < 1 {
		i.maxVisible = 1
	}
}

// ScrollDown scrolls the body one line
func (i *Inspector) ScrollDown() {
	i.offset++
}

// ScrollUp scrolls the body one line
func (i *Inspector) ScrollUp() {
	if i.offset > 0 {
		i.offset--
	}
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder

	contentWidth := i.width - 3
	if contentWidth < 10 {
		contentWidth = 10
	}
	content := i.render(contentWidth)

	titleLine := styles.AccentStyle.Render(styles.Truncate("Info", contentWidth))

	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := max(i.maxVisible-len(headerLines)-len(footerLines), 1)

	offset := min(i.offset, max(len(bodyLines)-availableForBody, 0))
	end := min(offset+availableForBody, len(bodyLines))
	visibleBody := bodyLines[offset:end]

	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < len(bodyLines) {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if len(headerLines) > 0 {
		parts = append(parts, headerLines...)
	}
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	if len(footerLines) > 0 {
		parts = append(parts, footerLines...)
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(i.width-frameW, 0)).
		Height(max(i.height-frameH, 0)).
		Render(strings.Join(parts, "\n"))
}

func (i Inspector) render(width int) inspectorContent {
	if i.movie == nil {
		return inspectorContent{body: styles.DimStyle.Render("No movie selected")}
	}

	movie := *i.movie
	if i.details != nil {
		movie = i.details.Movie
	}

	var header strings.Builder
	header.WriteString(styles.TitleStyle.Render(styles.Truncate(movie.Title, width)))
	if i.details != nil && i.details.Tagline != "" {
		header.WriteString("\n")
		header.WriteString(styles.SubtitleStyle.Render(styles.Truncate(i.details.Tagline, width)))
	}

	var meta []string
	if !movie.ReleaseDate.IsZero() {
		meta = append(meta, movie.ReleaseDate.Format("Jan 2, 2006"))
	}
	if i.details != nil {
		if rt := i.details.FormattedRuntime(); rt != "" {
			meta = append(meta, rt)
		}
	}
	if movie.VoteAverage > 0 {
		meta = append(meta, styles.RatingStyle.Render("★ "+movie.FormattedRating()))
	}
	if len(meta) > 0 {
		header.WriteString("\n")
		header.WriteString(strings.Join(meta, styles.DimStyle.Render(" · ")))
	}

	var body strings.Builder
	if genres := i.genres(movie); len(genres) > 0 {
		body.WriteString(styles.DimStyle.Render(wordWrap(strings.Join(genres, ", "), width)))
		body.WriteString("\n\n")
	}

	switch {
	case i.details != nil:
		if i.details.Overview != "" {
			body.WriteString(wordWrap(i.details.Overview, width))
		} else {
			body.WriteString(styles.DimStyle.Render("No overview available"))
		}
		if i.details.Status != "" {
			body.WriteString("\n\n")
			body.WriteString(styles.DimStyle.Render("Status: " + i.details.Status))
		}
	case i.loading:
		body.WriteString(styles.DimStyle.Render("Loading details..."))
	case i.err != nil:
		body.WriteString(styles.ErrorStyle.Render(wordWrap("Error: "+i.err.Error(), width)))
	default:
		body.WriteString(styles.DimStyle.Render("enter: load details"))
	}

	var footer string
	if i.posterURL != nil && movie.PosterPath != "" {
		footer = styles.DimStyle.Render(styles.Truncate(i.posterURL(movie.PosterPath), width))
	}

	return inspectorContent{header: header.String(), body: body.String(), footer: footer}
}

func (i Inspector) genres(movie domain.Movie) []string {
	if i.details != nil && len(i.details.Genres) > 0 {
		names := make([]string, len(i.details.Genres))
		for j, g := range i.details.Genres {
			names[j] = g.Name
		}
		return names
	}
	if i.genreNames != nil {
		return i.genreNames(movie.GenreIDs)
	}
	return nil
}

// splitLines splits a string into lines, returning empty slice for empty string
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps text to the specified width in terminal cells
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for _, word := range strings.Fields(text) {
		wordLen := runewidth.StringWidth(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}
		if lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
