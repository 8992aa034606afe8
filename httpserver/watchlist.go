package httpserver

import (
	"net/http"

	"moviecatalog/errs"
	"moviecatalog/watchlist"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterWatchlistRoutes(g *echo.Group) {
	w := g.Group("/watchlist", s.guard())
	w.GET("", s.handleListWatchlist)
	w.POST("", s.handleAddWatchlistItem)
	w.DELETE("/:id", s.handleRemoveWatchlistItem)
}

func (s *Server) watchlistService() (watchlist.Service, error) {
	if s.WatchlistService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "watchlist service not configured")
	}
	return s.WatchlistService, nil
}

// handleListWatchlist godoc
// @Summary List my watchlist
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Router /api/watchlist [get]
func (s *Server) handleListWatchlist(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return s.handleError(c, err)
	}

	id, _ := identity(c)
	items, err := svc.ListItems(c.Request().Context(), id.UserID)
	if err != nil {
		return s.handleError(c, err)
	}
	return writeList(c, http.StatusOK, items)
}

// handleAddWatchlistItem godoc
// @Summary Add a movie to my watchlist
// @Tags watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body AddWatchlistItemRequest true "Movie to add"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /api/watchlist [post]
func (s *Server) handleAddWatchlistItem(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return s.handleError(c, err)
	}

	var req AddWatchlistItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.handleError(c, err)
	}

	id, _ := identity(c)
	item, err := svc.AddItem(c.Request().Context(), id.UserID, req.MovieID)
	if err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusCreated, item)
}

// handleRemoveWatchlistItem godoc
// @Summary Remove an item from my watchlist
// @Tags watchlist
// @Security BearerAuth
// @Param id path string true "Watchlist item id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/watchlist/{id} [delete]
func (s *Server) handleRemoveWatchlistItem(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return s.handleError(c, err)
	}

	id, _ := identity(c)
	itemID := c.Param("id")
	if err := svc.RemoveItem(c.Request().Context(), itemID, id.UserID); err != nil {
		return s.handleError(c, err)
	}
	return writeSuccess(c, http.StatusOK, map[string]string{"id": itemID})
}
