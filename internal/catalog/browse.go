package catalog

import "github.com/iliyamo/showtime-booking/internal/model"

// Result caps used by the browse queries.
const (
	NowShowingLimit      = 10
	RecommendationsLimit = 5
)

// NowShowing returns the movies that have at least one showtime in a
// theater located at location.  When no theater matches the location the
// full movie list is returned so that callers always get something to
// browse.  The result is capped at NowShowingLimit.
func (s *Store) NowShowing(location string) []model.Movie {
	showing := make(map[string]bool)
	for _, st := range s.showtimes {
		if s.theaters[st.TheaterID].Located(location) {
			showing[st.MovieID] = true
		}
	}
	out := make([]model.Movie, 0, NowShowingLimit)
	for _, id := range s.movieOrder {
		if len(showing) > 0 && !showing[id] {
			continue
		}
		out = append(out, s.movies[id])
		if len(out) == NowShowingLimit {
			break
		}
	}
	return out
}

// Recommend matches movies by genre first and by mood second.  With
// neither criterion it returns the first movies of the catalog as top
// picks.  The result is capped at RecommendationsLimit.
func (s *Store) Recommend(genre, mood string) []model.Movie {
	out := make([]model.Movie, 0, RecommendationsLimit)
	for _, id := range s.movieOrder {
		m := s.movies[id]
		switch {
		case genre == "" && mood == "":
		case m.HasGenre(genre):
		case m.MatchesMood(mood):
		default:
			continue
		}
		out = append(out, m)
		if len(out) == RecommendationsLimit {
			break
		}
	}
	return out
}
