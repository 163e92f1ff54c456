package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cartelera/errs"
)

var errMovieServiceMissing = errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")

// handleListings godoc
// @Summary Today's listings
// @Description Movies showing today with their details and showtimes
// @Tags movies
// @Produce json
// @Success 200 {array} movie.Movie
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router / [get]
func (s *Server) handleListings(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieServiceMissing
	}

	movies, err := s.MovieService.Listings(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, movies)
}

// handleSimpleListings godoc
// @Summary Today's listings, condensed
// @Description One "<title> -> [<showtimes>]" string per movie
// @Tags movies
// @Produce json
// @Success 200 {array} string
// @Router /simple/ [get]
func (s *Server) handleSimpleListings(c echo.Context) error {
	if s.MovieService == nil {
		return errMovieServiceMissing
	}

	summaries, err := s.MovieService.Summaries(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summaries)
}
