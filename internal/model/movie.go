package model

import "strings"

// Movie is immutable reference data describing a film that can be
// scheduled.  It is loaded once at startup by the catalog and never
// mutated afterwards.
//
// Fields:
//
//	ID              – catalog identifier (e.g. "mv001").
//	Title           – display title.
//	Rating          – MPAA style rating (PG, PG-13, R ...).
//	DurationMinutes – running time in minutes.
//	Genre           – free text genre list, e.g. "Action, Sci-Fi".
//	Description     – short synopsis.
//	PosterURL       – optional poster image location.
type Movie struct {
	ID              string `json:"movie_id"`
	Title           string `json:"title"`
	Rating          string `json:"rating"`
	DurationMinutes int    `json:"duration"`
	Genre           string `json:"genre"`
	Description     string `json:"description"`
	PosterURL       string `json:"poster_url,omitempty"`
}

// HasGenre reports whether genre appears in the movie's genre list,
// ignoring case.  An empty genre never matches.
func (m Movie) HasGenre(genre string) bool {
	genre = strings.ToLower(strings.TrimSpace(genre))
	if genre == "" {
		return false
	}
	return strings.Contains(strings.ToLower(m.Genre), genre)
}

// MatchesMood reports whether mood appears in the description or genre.
func (m Movie) MatchesMood(mood string) bool {
	mood = strings.ToLower(strings.TrimSpace(mood))
	if mood == "" {
		return false
	}
	return strings.Contains(strings.ToLower(m.Description), mood) ||
		strings.Contains(strings.ToLower(m.Genre), mood)
}
