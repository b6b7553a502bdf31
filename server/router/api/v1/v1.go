// Package v1 exposes the HTTP API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yyvop9/modify-final-project/server/service/search"
	"github.com/yyvop9/modify-final-project/store"
)

// APIV1Service registers the v1 endpoints.
type APIV1Service struct {
	search *search.Service
	store  *store.Store
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(searchService *search.Service, s *store.Store) *APIV1Service {
	return &APIV1Service{search: searchService, store: s}
}

// Register mounts the v1 routes on the echo group.
func (s *APIV1Service) Register(root *echo.Group) {
	g := root.Group("/api/v1")
	g.POST("/search", s.handleSearch)
	g.POST("/search/by-image", s.handleSearchByImage)
	g.GET("/products/:id", s.handleGetProduct)
}

func (s *APIV1Service) handleSearch(c echo.Context) error {
	var req search.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	resp, err := s.search.RouteAndSearch(c.Request().Context(), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) handleSearchByImage(c echo.Context) error {
	var req struct {
		ImageBase64 string `json:"image_base64"`
		Limit       int    `json:"limit,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	resp, err := s.search.SearchByImage(c.Request().Context(), req.ImageBase64, req.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) handleGetProduct(c echo.Context) error {
	var id int32
	if err := echo.PathParamsBinder(c).Int32("id", &id).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	product, err := s.store.GetProduct(c.Request().Context(), &store.FindProduct{ID: &id})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load product").SetInternal(err)
	}
	if product == nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, product)
}
