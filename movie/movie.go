package movie

import (
	"strings"

	"cartelera/errs"
)

var ErrEmptyTitle = errs.Errorf(errs.EINVALID, "movie: empty title")

// Movie is one showing recovered from the listings page.
type Movie struct {
	Title          string   `json:"title"`
	Synopsis       string   `json:"synopsis"`
	ReleaseDate    string   `json:"release_date"`
	Length         int      `json:"length"`
	Trailer        string   `json:"trailer"`
	Director       string   `json:"director"`
	Cast           string   `json:"cast"`
	Genre          []string `json:"genre"`
	AvailableHours []string `json:"available_hours"`
}

func (m Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Summary renders the condensed form, e.g. "Dune -> ['17:00', '20:15']".
func (m Movie) Summary() string {
	quoted := make([]string, 0, len(m.AvailableHours))
	for _, h := range m.AvailableHours {
		quoted = append(quoted, quote(h))
	}
	return m.Title + " -> [" + strings.Join(quoted, ", ") + "]"
}

func quote(s string) string {
	q := "'"
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		q = `"`
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	if q == "'" {
		s = strings.ReplaceAll(s, "'", `\'`)
	}
	return q + s + q
}
