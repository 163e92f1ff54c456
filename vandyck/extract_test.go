// nolint: funlen
package vandyck_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartelera/movie"
	"cartelera/vandyck"
)

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// entry renders one listing article. rows are the details table rows.
func entry(title, rows, hours string) string {
	return `<article>
  <div class="action-group my-2 text-center"><a href="https://youtu.be/trailer">Tráiler</a></div>
  <div class="col-md-8">
    <h2>` + title + `</h2>
    <p>Synopsis of ` + title + `.</p>
    <table>` + rows + `</table>
    <div class="tab-pane fade tab-pane fade show active">` + hours + `</div>
  </div>
</article>`
}

const duneRows = `
<tr><th>FECHA ESTRENO</th><td>01/03/2024</td></tr>
<tr><th>DURACIÓN</th><td>155 min</td></tr>
<tr><th>DIRECTOR</th><td>Denis Villeneuve</td></tr>
<tr><th>REPARTO</th><td>Timothée Chalamet, Zendaya</td></tr>
<tr><th>GÉNERO</th><td><a class="mr-1">Sci-Fi</a><a class="mr-1">Drama</a></td></tr>`

const duneHours = `<a class="mr-1 mb-1">18:00</a><a class="mr-1 mb-1">21:30</a>`

func TestExtract_Fixture(t *testing.T) {
	doc := loadFixture(t, "cartelera.html")

	movies, err := vandyck.NewExtractor().Extract(doc)

	require.NoError(t, err)
	expected := []movie.Movie{
		{
			Title:          "Dune: Parte Dos",
			Synopsis:       "Paul Atreides se une a Chani y a los Fremen en su venganza.",
			ReleaseDate:    "01/03/2024",
			Length:         166,
			Trailer:        "https://www.youtube.com/watch?v=Way9Dexny3w",
			Director:       "Denis Villeneuve",
			Cast:           "Timothée Chalamet, Zendaya, Rebecca Ferguson",
			Genre:          []string{"Ciencia ficción", "Aventura"},
			AvailableHours: []string{"17:00", "20:15"},
		},
		{
			Title:          "Wonka",
			Synopsis:       "La historia de cómo Willy Wonka llegó a ser el chocolatero más famoso.",
			ReleaseDate:    "08/12/2023",
			Length:         116,
			Trailer:        "",
			Director:       "Paul King",
			Cast:           "Timothée Chalamet, Olivia Colman",
			Genre:          []string{"Familiar"},
			AvailableHours: []string{"16:00"},
		},
	}
	if diff := cmp.Diff(expected, movies); diff != "" {
		t.Fatalf("unexpected movies (-want +got):\n%s", diff)
	}
}

func TestExtract_SingleEntry(t *testing.T) {
	doc := parseHTML(t, "<html><body>"+entry("Dune", duneRows, duneHours)+"</body></html>")

	movies, err := vandyck.NewExtractor().Extract(doc)

	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Dune", movies[0].Title)
	assert.Equal(t, 155, movies[0].Length)
	assert.Equal(t, []string{"Sci-Fi", "Drama"}, movies[0].Genre)
	assert.Equal(t, []string{"18:00", "21:30"}, movies[0].AvailableHours)
	assert.Equal(t, "https://youtu.be/trailer", movies[0].Trailer)
}

func TestExtract_NoEntries(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{name: "empty page", html: "<html><body></body></html>"},
		{name: "articles without trailer", html: `<article><div class="col-md-8"><h2>Promo</h2></div></article><article><p>Ad</p></article>`},
		{name: "empty titles", html: entry("  ", duneRows, duneHours)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies, err := vandyck.NewExtractor().Extract(parseHTML(t, tt.html))

			require.NoError(t, err)
			assert.NotNil(t, movies)
			assert.Empty(t, movies)
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	doc := loadFixture(t, "cartelera.html")
	x := vandyck.NewExtractor()

	first, err := x.Extract(doc)
	require.NoError(t, err)
	second, err := x.Extract(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtract_FieldsDoNotLeakBetweenEntries(t *testing.T) {
	withoutCast := `
<tr><th>FECHA ESTRENO</th><td>08/12/2023</td></tr>
<tr><th>DURACIÓN</th><td>116 min</td></tr>
<tr><th>DIRECTOR</th><td>Paul King</td></tr>`
	html := entry("Dune", duneRows, duneHours) + entry("Wonka", withoutCast, "")

	movies, err := vandyck.NewExtractor().Extract(parseHTML(t, html))

	assert.Nil(t, movies)
	var extractionErr *vandyck.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.ErrorIs(t, err, vandyck.ErrFieldNotFound)
	assert.Equal(t, 1, extractionErr.Entry)
	assert.Equal(t, "Wonka", extractionErr.Title)
	assert.Equal(t, "cast", extractionErr.Field)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		field   string
		wantErr error
	}{
		{
			name:    "missing duration row",
			html:    entry("Dune", strings.Replace(duneRows, "DURACIÓN", "FORMATO", 1), duneHours),
			field:   "length",
			wantErr: vandyck.ErrFieldNotFound,
		},
		{
			name:    "unparseable duration",
			html:    entry("Dune", strings.Replace(duneRows, "155 min", "dos horas", 1), duneHours),
			field:   "length",
			wantErr: vandyck.ErrFieldFormat,
		},
		{
			name:    "labeled row without value cell",
			html:    entry("Dune", strings.Replace(duneRows, "<td>Denis Villeneuve</td>", "", 1), duneHours),
			field:   "director",
			wantErr: vandyck.ErrFieldNotFound,
		},
		{
			name: "missing synopsis",
			html: `<article><div class="action-group"><a href="/t"></a></div>
				<div class="col-md-8"><h2>Dune</h2><table>` + duneRows + `</table></div></article>`,
			field:   "synopsis",
			wantErr: vandyck.ErrFieldNotFound,
		},
		{
			name: "missing table",
			html: `<article><div class="action-group"><a href="/t"></a></div>
				<div class="col-md-8"><h2>Dune</h2><p>Text</p></div></article>`,
			field:   "table",
			wantErr: vandyck.ErrFieldNotFound,
		},
		{
			name:    "missing active showtimes",
			html:    strings.Replace(entry("Dune", duneRows, duneHours), "show active", "", 1),
			field:   "available_hours",
			wantErr: vandyck.ErrFieldNotFound,
		},
		{
			name:    "missing info panel",
			html:    `<article><div class="action-group"><a href="/t"></a></div><h2>Dune</h2></article>`,
			field:   "info",
			wantErr: vandyck.ErrFieldNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies, err := vandyck.NewExtractor().Extract(parseHTML(t, tt.html))

			assert.Nil(t, movies)
			var extractionErr *vandyck.ExtractionError
			require.ErrorAs(t, err, &extractionErr)
			assert.Equal(t, tt.field, extractionErr.Field)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtract_CustomLabels(t *testing.T) {
	rows := `
<tr><th>Release date</th><td>2024-03-01</td></tr>
<tr><th>Duration</th><td>155 min</td></tr>
<tr><th>Director</th><td>Denis Villeneuve</td></tr>
<tr><th>Cast</th><td>Zendaya</td></tr>`
	x := &vandyck.Extractor{Labels: vandyck.Labels{
		ReleaseDate: "Release date",
		Duration:    "Duration",
		Director:    "Director",
		Cast:        "Cast",
	}}

	movies, err := x.Extract(parseHTML(t, entry("Dune", rows, "")))

	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "2024-03-01", movies[0].ReleaseDate)
	assert.Equal(t, 155, movies[0].Length)
	assert.Equal(t, "Zendaya", movies[0].Cast)
	assert.Empty(t, movies[0].Genre)
	assert.Empty(t, movies[0].AvailableHours)
}

func TestParse(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "cartelera.html"))
	require.NoError(t, err)
	defer f.Close()

	movies, err := vandyck.NewExtractor().Parse(f)

	require.NoError(t, err)
	assert.Len(t, movies, 2)
}

func TestExtract_LabelsMatchLabelCell(t *testing.T) {
	rows := `
<tr><th>FECHA ESTRENO</th><td>21/07/2023</td></tr>
<tr><th>DURACIÓN</th><td>114 min.</td></tr>
<tr><th>DIRECTOR</th><td>Greta Gerwig</td></tr>
<tr><th>REPARTO</th><td>Ana Torrent, Juan Director Ruiz, Reparto DIRECTOR Coral</td></tr>`

	movies, err := vandyck.NewExtractor().Extract(parseHTML(t, entry("Barbie", rows, duneHours)))

	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Greta Gerwig", movies[0].Director)
	assert.Equal(t, "Ana Torrent, Juan Director Ruiz, Reparto DIRECTOR Coral", movies[0].Cast)
}

func TestExtract_LabelsWithoutHeaderCell(t *testing.T) {
	rows := `
<tr><td>FECHA ESTRENO: 21/07/2023</td></tr>
<tr><td>DURACIÓN</td><td>114 min.</td></tr>
<tr><td>DIRECTOR</td><td>Greta Gerwig</td></tr>
<tr><td>REPARTO</td><td>Margot Robbie</td></tr>`

	movies, err := vandyck.NewExtractor().Extract(parseHTML(t, entry("Barbie", rows, "")))

	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "FECHA ESTRENO: 21/07/2023", movies[0].ReleaseDate)
	assert.Equal(t, 114, movies[0].Length)
	assert.Equal(t, "Margot Robbie", movies[0].Cast)
}

func TestExtract_LabelsAreCaseSensitive(t *testing.T) {
	rows := strings.Replace(duneRows, "<th>REPARTO</th>", "<th>Reparto</th>", 1)

	movies, err := vandyck.NewExtractor().Extract(parseHTML(t, entry("Dune", rows, duneHours)))

	assert.Nil(t, movies)
	var extractionErr *vandyck.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "cast", extractionErr.Field)
	assert.ErrorIs(t, err, vandyck.ErrFieldNotFound)
}

func TestExtract_KeepsInnerWhitespace(t *testing.T) {
	html := `<article>
  <div class="action-group"><a href=" https://youtu.be/x ">Tráiler</a></div>
  <div class="col-md-8">
    <h2>
      Dune
    </h2>
    <p>
      Line one.
      Line two.
    </p>
    <table>` + duneRows + `</table>
    <div class="tab-pane show active">` + duneHours + `</div>
  </div>
</article>`

	movies, err := vandyck.NewExtractor().Extract(parseHTML(t, html))

	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Dune", movies[0].Title)
	assert.Equal(t, "Line one.\n      Line two.", movies[0].Synopsis)
	assert.Equal(t, "https://youtu.be/x", movies[0].Trailer)
}
