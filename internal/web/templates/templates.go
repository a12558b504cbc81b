// Package templates holds the components of the status page
package templates

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed *.html
var files embed.FS

var statusTemplate = template.Must(template.ParseFS(files, "status.html"))

// TimerRow is one entry of the rendered timer list
type TimerRow struct {
	ID      int
	Display string
}

// StatusData is the data behind the status page
type StatusData struct {
	Greeting string
	LoggedIn bool
	Power    int
	Clock    string
	Timers   []TimerRow
}

// StatusPage returns the status page as a templ component
func StatusPage(data StatusData) templ.Component {
	return templ.FromGoHTML(statusTemplate, data)
}
