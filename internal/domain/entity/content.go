package entity

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ContentKind identifies one of the five content variants a QR record can
// carry. Exactly one variant is active on a record at any time; a record
// without user content carries the explicit empty variant, never a null.
type ContentKind string

const (
	ContentEmpty   ContentKind = "empty"
	ContentText    ContentKind = "text"
	ContentLink    ContentKind = "link"
	ContentFile    ContentKind = "file"
	ContentContact ContentKind = "contact"
)

// KnownKind reports whether kind is one of the five supported variants.
func KnownKind(kind ContentKind) bool {
	switch kind {
	case ContentEmpty, ContentText, ContentLink, ContentFile, ContentContact:
		return true
	}
	return false
}

// MaxTextLength bounds the text variant, counted in characters after
// trimming.
const MaxTextLength = 5000

// TextPayload is the payload of the text variant.
type TextPayload struct {
	Text string `bson:"text" json:"text"`
}

// LinkPayload is the payload of the link variant.
type LinkPayload struct {
	URL string `bson:"url" json:"url"`
}

// FilePayload is the payload of the file variant. FileRef points at a blob
// written by the accompanying upload.
type FilePayload struct {
	FileRef      string `bson:"file_ref" json:"file_ref"`
	OriginalName string `bson:"original_name" json:"original_name"`
	Size         int64  `bson:"size" json:"size"`
	MimeType     string `bson:"mime_type" json:"mime_type"`
}

// ContactPayload is the payload of the contact variant.
type ContactPayload struct {
	Name         string `bson:"name,omitempty" json:"name,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email        string `bson:"email,omitempty" json:"email,omitempty"`
	Organization string `bson:"organization,omitempty" json:"organization,omitempty"`
}

// Content is the tagged variant attached to a QR record. Kind selects which
// payload pointer is populated; the other payloads stay nil.
type Content struct {
	Kind        ContentKind `bson:"kind" json:"kind"`
	Description string      `bson:"description,omitempty" json:"description,omitempty"`
	LastUpdated time.Time   `bson:"last_updated" json:"last_updated"`

	Text    *TextPayload    `bson:"text,omitempty" json:"text,omitempty"`
	Link    *LinkPayload    `bson:"link,omitempty" json:"link,omitempty"`
	File    *FilePayload    `bson:"file,omitempty" json:"file,omitempty"`
	Contact *ContactPayload `bson:"contact,omitempty" json:"contact,omitempty"`
}

// NewEmptyContent creates the default variant for new records.
func NewEmptyContent(now time.Time) Content {
	return Content{Kind: ContentEmpty, LastUpdated: now}
}

// NewTextContent creates a text variant.
func NewTextContent(text, description string, now time.Time) Content {
	return Content{
		Kind:        ContentText,
		Description: description,
		LastUpdated: now,
		Text:        &TextPayload{Text: text},
	}
}

// NewLinkContent creates a link variant.
func NewLinkContent(rawURL, description string, now time.Time) Content {
	return Content{
		Kind:        ContentLink,
		Description: description,
		LastUpdated: now,
		Link:        &LinkPayload{URL: rawURL},
	}
}

// NewFileContent creates a file variant pointing at an uploaded blob.
func NewFileContent(payload FilePayload, description string, now time.Time) Content {
	return Content{
		Kind:        ContentFile,
		Description: description,
		LastUpdated: now,
		File:        &payload,
	}
}

// NewContactContent creates a contact variant.
func NewContactContent(payload ContactPayload, description string, now time.Time) Content {
	return Content{
		Kind:        ContentContact,
		Description: description,
		LastUpdated: now,
		Contact:     &payload,
	}
}

// FieldError reports the first content field that failed validation.
// Validation is fail-fast: one violation, one error.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// ErrUnknownKind is returned by Validate for a kind outside the five variants.
type ErrUnknownKind struct {
	Kind ContentKind
}

func (e *ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown content kind %q", e.Kind)
}

// Loose international phone pattern: optional +, then digits with common
// separators, 7 to 20 characters total.
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ().\-]{5,18}[0-9]$`)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validate checks the variant payload against the rules of its kind. The
// switch is exhaustive over the five kinds; anything else is rejected.
func (c Content) Validate() error {
	switch c.Kind {
	case ContentEmpty:
		return nil

	case ContentText:
		if c.Text == nil {
			return &FieldError{Field: "text", Reason: "is required"}
		}
		trimmed := strings.TrimSpace(c.Text.Text)
		if trimmed == "" {
			return &FieldError{Field: "text", Reason: "must not be empty"}
		}
		if utf8.RuneCountInString(trimmed) > MaxTextLength {
			return &FieldError{Field: "text", Reason: fmt.Sprintf("must not exceed %d characters", MaxTextLength)}
		}
		return nil

	case ContentLink:
		if c.Link == nil || strings.TrimSpace(c.Link.URL) == "" {
			return &FieldError{Field: "url", Reason: "is required"}
		}
		u, err := url.Parse(strings.TrimSpace(c.Link.URL))
		if err != nil {
			return &FieldError{Field: "url", Reason: "is not a valid URL"}
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return &FieldError{Field: "url", Reason: "scheme must be http or https"}
		}
		if u.Host == "" {
			return &FieldError{Field: "url", Reason: "must be an absolute URL"}
		}
		return nil

	case ContentFile:
		if c.File == nil {
			return &FieldError{Field: "file", Reason: "is required"}
		}
		if c.File.FileRef == "" {
			return &FieldError{Field: "file_ref", Reason: "is required"}
		}
		if c.File.OriginalName == "" {
			return &FieldError{Field: "original_name", Reason: "is required"}
		}
		if c.File.Size < 0 {
			return &FieldError{Field: "size", Reason: "must not be negative"}
		}
		if c.File.MimeType == "" {
			return &FieldError{Field: "mime_type", Reason: "is required"}
		}
		return nil

	case ContentContact:
		if c.Contact == nil {
			return &FieldError{Field: "contact", Reason: "is required"}
		}
		name := strings.TrimSpace(c.Contact.Name)
		phone := strings.TrimSpace(c.Contact.Phone)
		email := strings.TrimSpace(c.Contact.Email)
		if name == "" && phone == "" && email == "" {
			return &FieldError{Field: "contact", Reason: "at least one of name, phone or email is required"}
		}
		if phone != "" && !phonePattern.MatchString(phone) {
			return &FieldError{Field: "phone", Reason: "is not a valid phone number"}
		}
		if email != "" && !emailPattern.MatchString(email) {
			return &FieldError{Field: "email", Reason: "is not a valid email address"}
		}
		return nil
	}

	return &ErrUnknownKind{Kind: c.Kind}
}

// VCard builds the structured contact export. Lines are emitted in a fixed
// order, absent fields are omitted, and the payload always ends with the
// END:VCARD trailer.
func (p ContactPayload) VCard() string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\n")
	b.WriteString("VERSION:3.0\r\n")
	if name := strings.TrimSpace(p.Name); name != "" {
		b.WriteString("FN:" + name + "\r\n")
	}
	if org := strings.TrimSpace(p.Organization); org != "" {
		b.WriteString("ORG:" + org + "\r\n")
	}
	if phone := strings.TrimSpace(p.Phone); phone != "" {
		b.WriteString("TEL:" + phone + "\r\n")
	}
	if email := strings.TrimSpace(p.Email); email != "" {
		b.WriteString("EMAIL:" + email + "\r\n")
	}
	b.WriteString("END:VCARD\r\n")
	return b.String()
}
