package http

import (
	"html/template"
	"strings"

	"github.com/AzizDev404/Qr/internal/domain/entity"
)

// Minimal server-rendered views for scans coming from a camera app. Kept
// deliberately plain; the management frontend is a separate client.
var viewTemplate = template.Must(template.New("scan").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .Description}}<p>{{.Description}}</p>{{end}}
{{if eq .View "text"}}<pre>{{.Text}}</pre>{{end}}
{{if eq .View "contact"}}<ul>
{{if .Contact.Name}}<li>{{.Contact.Name}}</li>{{end}}
{{if .Contact.Organization}}<li>{{.Contact.Organization}}</li>{{end}}
{{if .Contact.Phone}}<li><a href="tel:{{.Contact.Phone}}">{{.Contact.Phone}}</a></li>{{end}}
{{if .Contact.Email}}<li><a href="mailto:{{.Contact.Email}}">{{.Contact.Email}}</a></li>{{end}}
</ul>{{end}}
{{if eq .View "placeholder"}}<p>This code has no content yet.</p>{{end}}
</body>
</html>
`))

func renderHTML(d *entity.Directive) string {
	title := d.Title
	if title == "" {
		title = "QR Code"
	}

	data := struct {
		View        string
		Title       string
		Text        string
		Description string
		Contact     *entity.ContactPayload
	}{
		View:        d.View,
		Title:       title,
		Text:        d.Text,
		Description: d.Description,
		Contact:     d.Contact,
	}
	if data.Contact == nil {
		data.Contact = &entity.ContactPayload{}
	}

	var b strings.Builder
	if err := viewTemplate.Execute(&b, data); err != nil {
		return "<!DOCTYPE html><html><body><p>QR Code</p></body></html>"
	}
	return b.String()
}
