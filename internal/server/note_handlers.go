package server

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/notepad/internal/server/service"
)

type (
	// note contains all note handlers.
	note struct {
		notes *service.Notes
	}

	createParams struct {
		Title     string `form:"title"     json:"title"`
		Details   string `form:"details"   json:"details"`
		Overwrite string `form:"overwrite" json:"overwrite"`
	}

	renameParams struct {
		Previous string `form:"previous" json:"previous"`
		New      string `form:"new"      json:"new"`
	}
)

// List renders the keys of all the notes.
func (h *note) List(c echo.Context) error {
	keys, err := h.notes.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, ViewIndex, echo.Map{
		"Files": keys,
	})
}

// Create stores a note from the submitted title and details.
func (h *note) Create(c echo.Context) error {
	var params createParams
	if err := c.Bind(&params); err != nil {
		return err
	}

	_, err := h.notes.Create(c.Request().Context(), params.Title, params.Details, checked(params.Overwrite))
	if err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}

// Delete removes the note named by the path.
func (h *note) Delete(c echo.Context) error {
	if err := h.notes.Delete(c.Request().Context(), filename(c)); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}

// Edit renders the rename form of the note named by the path.
// The note is not looked up.
func (h *note) Edit(c echo.Context) error {
	return c.Render(http.StatusOK, ViewEdit, echo.Map{
		"FileName": filename(c),
	})
}

// Rename moves a note to the key derived from the submitted name.
func (h *note) Rename(c echo.Context) error {
	var params renameParams
	if err := c.Bind(&params); err != nil {
		return err
	}

	_, err := h.notes.Rename(c.Request().Context(), params.Previous, params.New)
	if err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}

// Show renders the details of the note named by the path.
func (h *note) Show(c echo.Context) error {
	key := filename(c)

	details, err := h.notes.Get(c.Request().Context(), key)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, ViewShow, echo.Map{
		"FileName": key,
		"FileData": details,
	})
}

// filename returns the unescaped :filename path parameter.
func filename(c echo.Context) string {
	v := c.Param("filename")
	if c.Request().URL.RawPath == "" {
		return v // Already unescaped by the router.
	}

	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func checked(v string) bool {
	switch v {
	case "on", "true", "1":
		return true
	}
	return false
}
