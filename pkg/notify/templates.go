package notify

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// render executes one of the embedded email bodies. Rendering is pure: it
// never touches the network or storage, so a failure here can only be a
// programming error. Delivery still proceeds with a plain fallback body so a
// bad template cannot silence a notification.
func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("notify: render %s: %w", name, err)
	}
	return sb.String(), nil
}

func fallbackBody(subject string) string {
	return "<p>" + template.HTMLEscapeString(subject) + "</p>"
}
