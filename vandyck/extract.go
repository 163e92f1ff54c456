package vandyck

import (
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cartelera/movie"
)

const (
	entrySelector   = "article"
	trailerSelector = "div.action-group"
	infoSelector    = "div.col-md-8"
	titleSelector   = "h2"
	genreSelector   = "a.mr-1"
	hoursPane       = "div.tab-pane.show.active"
	hoursSelector   = "a.mr-1.mb-1"
)

// Labels are the row markers of the details table. A row matches when its label
// cell (th) contains the marker, case-sensitively, checked in field order. Rows
// without a th are matched on their whole text.
type Labels struct {
	ReleaseDate string
	Duration    string
	Director    string
	Cast        string
}

// DefaultLabels are the markers used by the Van Dyck listings page.
var DefaultLabels = Labels{
	ReleaseDate: "FECHA ESTRENO",
	Duration:    "DURACIÓN",
	Director:    "DIRECTOR",
	Cast:        "REPARTO",
}

// Extractor turns a listings page into movies. It only reads the document.
type Extractor struct {
	Labels Labels
}

func NewExtractor() *Extractor {
	return &Extractor{Labels: DefaultLabels}
}

// Parse reads an HTML document from r and extracts it.
func (x *Extractor) Parse(r io.Reader) ([]movie.Movie, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return x.Extract(doc)
}

// Extract returns one movie per listing entry in document order. Entries without
// a trailer block or with an empty title are skipped. Any other missing or
// malformed field fails the whole extraction with an *ExtractionError.
func (x *Extractor) Extract(doc *goquery.Document) ([]movie.Movie, error) {
	movies := []movie.Movie{}
	var err error
	doc.Find(entrySelector).EachWithBreak(func(i int, entry *goquery.Selection) bool {
		m, ok, entryErr := x.extractEntry(i, entry)
		if entryErr != nil {
			err = entryErr
			return false
		}
		if ok {
			movies = append(movies, m)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func (x *Extractor) extractEntry(i int, entry *goquery.Selection) (movie.Movie, bool, error) {
	trailerBlock, ok := first(entry, trailerSelector)
	if !ok {
		return movie.Movie{}, false, nil
	}
	trailer := strings.TrimSpace(trailerBlock.Find("a").First().AttrOr("href", ""))

	info, ok := first(entry, infoSelector)
	if !ok {
		return movie.Movie{}, false, notFound(i, "", "info")
	}

	m := movie.Movie{
		Trailer:        trailer,
		Genre:          []string{},
		AvailableHours: []string{},
	}
	if h, ok := first(info, titleSelector); ok {
		m.Title = text(h)
	}
	if err := m.Validate(); err != nil {
		return movie.Movie{}, false, nil
	}
	title := m.Title

	p, ok := first(info, "p")
	if !ok {
		return movie.Movie{}, false, notFound(i, title, "synopsis")
	}
	m.Synopsis = text(p)

	table, ok := first(info, "table")
	if !ok {
		return movie.Movie{}, false, notFound(i, title, "table")
	}
	if err := x.readDetails(i, title, table, &m); err != nil {
		return movie.Movie{}, false, err
	}

	table.Find(genreSelector).Each(func(_ int, s *goquery.Selection) {
		if g := text(s); g != "" {
			m.Genre = append(m.Genre, g)
		}
	})

	pane, ok := first(info, hoursPane)
	if !ok {
		return movie.Movie{}, false, notFound(i, title, "available_hours")
	}
	pane.Find(hoursSelector).Each(func(_ int, s *goquery.Selection) {
		if h := text(s); h != "" {
			m.AvailableHours = append(m.AvailableHours, h)
		}
	})

	return m, true, nil
}

// readDetails scans the table rows for the labeled fields. Every label must be
// matched exactly for this entry; nothing carries over between entries.
func (x *Extractor) readDetails(i int, title string, table *goquery.Selection, m *movie.Movie) error {
	var release, duration, director, cast *string
	var rowErr error

	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		label := rowLabel(row)
		var field string
		var target **string
		switch {
		case containsLabel(label, x.Labels.ReleaseDate):
			field, target = "release_date", &release
		case containsLabel(label, x.Labels.Duration):
			field, target = "length", &duration
		case containsLabel(label, x.Labels.Director):
			field, target = "director", &director
		case containsLabel(label, x.Labels.Cast):
			field, target = "cast", &cast
		default:
			return true
		}

		td, ok := valueCell(row)
		if !ok {
			rowErr = notFound(i, title, field)
			return false
		}
		v := text(td)
		*target = &v
		return true
	})
	if rowErr != nil {
		return rowErr
	}

	for _, f := range []struct {
		name  string
		value *string
	}{
		{"release_date", release},
		{"length", duration},
		{"director", director},
		{"cast", cast},
	} {
		if f.value == nil {
			return notFound(i, title, f.name)
		}
	}

	length, err := parseMinutes(*duration)
	if err != nil {
		return &ExtractionError{Entry: i, Title: title, Field: "length", Value: *duration, Err: ErrFieldFormat}
	}

	m.ReleaseDate = *release
	m.Length = length
	m.Director = *director
	m.Cast = *cast
	return nil
}

// parseMinutes reads the leading whitespace-separated token, e.g. "155 min." -> 155.
func parseMinutes(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(fields[0])
}

// rowLabel is the text of the row's th cell, or the whole row when it has none.
func rowLabel(row *goquery.Selection) string {
	if th, ok := first(row, "th"); ok {
		return text(th)
	}
	return text(row)
}

// valueCell is the first td after a th label, or the last td of a row without
// one.
func valueCell(row *goquery.Selection) (*goquery.Selection, bool) {
	if _, ok := first(row, "th"); ok {
		return first(row, "td")
	}
	td := row.Find("td").Last()
	return td, td.Length() > 0
}

func containsLabel(text, label string) bool {
	return label != "" && strings.Contains(text, label)
}

// first returns the first descendant of s matching selector, reporting whether
// one exists.
func first(s *goquery.Selection, selector string) (*goquery.Selection, bool) {
	found := s.Find(selector).First()
	return found, found.Length() > 0
}

// text is the node text with surrounding whitespace trimmed. Inner whitespace
// is kept as found in the markup.
func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

func notFound(i int, title, field string) error {
	return &ExtractionError{Entry: i, Title: title, Field: field, Err: ErrFieldNotFound}
}
