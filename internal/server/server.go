package server

import (
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/notepad/internal/database"
	"github.com/mdouchement/notepad/internal/server/middlewares"
	"github.com/mdouchement/notepad/internal/server/service"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A Controller is an Iversion Of Control pattern used to init the server package.
// It is built once at startup and shared by all the requests.
type Controller struct {
	Version  string
	Database database.Client
	Logger   *logrus.Logger
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl Controller) (*echo.Echo, error) {
	log := ctrl.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	renderer, err := newRenderer()
	if err != nil {
		return nil, errors.Wrap(err, "could not load views")
	}

	engine := echo.New()
	engine.HideBanner = true
	engine.HidePort = true
	engine.Logger.SetOutput(io.Discard)
	engine.Renderer = renderer

	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.Gzip())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
		Output: log.WriterLevel(logrus.InfoLevel),
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler(log)

	////////////
	// Router //
	////////////

	router := engine.Group("")

	// generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})
	engine.StaticFS("/static", assets())

	//
	// note handlers
	//
	note := &note{
		notes: service.NewNotes(ctrl.Database),
	}
	router.GET("/", note.List)
	router.POST("/create", note.Create)
	router.GET("/delete/:filename", note.Delete)
	router.GET("/edit/:filename", note.Edit)
	router.POST("/edit", note.Rename)
	router.GET("/file/:filename", note.Show)

	return engine, nil
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(w io.Writer, e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	fmt.Fprintln(w, "Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Fprintf(w, "%6s %s\n", route.Method, route.Path)
	}
}
