package entity

// DirectiveKind names the response strategy the scan dispatcher selected.
type DirectiveKind string

const (
	DirectiveRender           DirectiveKind = "render"
	DirectiveRedirect         DirectiveKind = "redirect"
	DirectiveStream           DirectiveKind = "stream"
	DirectiveExport           DirectiveKind = "export"
	DirectivePasswordRequired DirectiveKind = "password_required"
	DirectiveNotFound         DirectiveKind = "not_found"
)

// Render view names.
const (
	ViewPlaceholder = "placeholder"
	ViewText        = "text"
	ViewContact     = "contact"
)

// Stream disposition hints.
const (
	DispositionInline     = "inline"
	DispositionAttachment = "attachment"
)

// Directive is the dispatcher's terminal decision for one resolution request.
// Kind selects which field group is meaningful.
type Directive struct {
	Kind DirectiveKind

	// Render fields.
	View        string
	Title       string
	Text        string
	Description string
	Contact     *ContactPayload

	// Redirect fields.
	Location string

	// Stream fields.
	BlobRef     string
	MimeType    string
	Size        int64
	FileName    string
	Disposition string

	// Export fields.
	Payload     []byte
	ContentType string
	ExportName  string
}
