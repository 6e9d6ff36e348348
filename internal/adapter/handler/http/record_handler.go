package http

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/AzizDev404/Qr/internal/domain/entity"
	"github.com/AzizDev404/Qr/internal/domain/repository"
	"github.com/AzizDev404/Qr/internal/usecase"
	apperrors "github.com/AzizDev404/Qr/pkg/errors"
)

// RecordHandler serves the management API for QR records.
type RecordHandler struct {
	records  *usecase.RecordService
	contents *usecase.ContentService
	logger   *zap.Logger
	validate *validator.Validate
}

// NewRecordHandler creates a record management handler.
func NewRecordHandler(records *usecase.RecordService, contents *usecase.ContentService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{
		records:  records,
		contents: contents,
		logger:   logger,
		validate: validator.New(),
	}
}

// CreateRequest is the payload of POST /api/qrcodes.
type CreateRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	AllowTracking bool   `json:"allow_tracking"`
	Password      string `json:"password" validate:"omitempty,min=4,max=128"`
	CustomDomain  string `json:"custom_domain" validate:"omitempty,fqdn"`
}

// CreateQRCode handles POST /api/qrcodes.
func (h *RecordHandler) CreateQRCode(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	record, err := h.records.Create(c.Request().Context(), usecase.CreateParams{
		Title:         req.Title,
		AllowTracking: req.AllowTracking,
		Password:      req.Password,
		CustomDomain:  req.CustomDomain,
	})
	if err != nil {
		return h.fail(c, err, "failed to create qr record")
	}

	return c.JSON(http.StatusCreated, record)
}

// UpdateContentRequest is the payload of PUT /api/qrcodes/:id/content.
// File-kind updates arrive as multipart form data with a "file" part;
// everything else binds from JSON or form fields.
type UpdateContentRequest struct {
	Kind         string `json:"kind" form:"kind" validate:"required"`
	Description  string `json:"description" form:"description" validate:"omitempty,max=500"`
	Text         string `json:"text" form:"text"`
	URL          string `json:"url" form:"url"`
	Name         string `json:"name" form:"name"`
	Phone        string `json:"phone" form:"phone"`
	Email        string `json:"email" form:"email"`
	Organization string `json:"organization" form:"organization"`
}

// UpdateContent handles PUT /api/qrcodes/:id/content.
func (h *RecordHandler) UpdateContent(c echo.Context) error {
	var req UpdateContentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	proposed := buildContent(&req)

	var upload *usecase.Upload
	if proposed.Kind == entity.ContentFile {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "file content requires a file upload"})
		}
		src, err := fileHeader.Open()
		if err != nil {
			return h.fail(c, err, "failed to open uploaded file")
		}
		defer src.Close()

		upload = &usecase.Upload{
			Reader:   src,
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
			MimeType: fileHeader.Header.Get("Content-Type"),
		}
	}

	record, err := h.contents.UpdateContent(c.Request().Context(), c.Param("id"), proposed, upload)
	if err != nil {
		return h.fail(c, err, "failed to update qr content")
	}

	return c.JSON(http.StatusOK, record)
}

// UpdateSettingsRequest is the payload of PUT /api/qrcodes/:id/settings.
// Omitted fields keep their current value.
type UpdateSettingsRequest struct {
	AllowTracking *bool   `json:"allow_tracking"`
	Password      *string `json:"password" validate:"omitempty,max=128"`
	CustomDomain  *string `json:"custom_domain" validate:"omitempty,fqdn"`
}

// UpdateSettings handles PUT /api/qrcodes/:id/settings.
func (h *RecordHandler) UpdateSettings(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	record, err := h.records.UpdateSettings(c.Request().Context(), c.Param("id"), usecase.SettingsUpdate{
		AllowTracking: req.AllowTracking,
		Password:      req.Password,
		CustomDomain:  req.CustomDomain,
	})
	if err != nil {
		return h.fail(c, err, "failed to update qr settings")
	}

	return c.JSON(http.StatusOK, record)
}

// ListQRCodes handles GET /api/qrcodes.
func (h *RecordHandler) ListQRCodes(c echo.Context) error {
	filter := repository.RecordFilter{
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
	}
	if kind := c.QueryParam("kind"); kind != "" {
		k := entity.ContentKind(kind)
		if !entity.KnownKind(k) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown content kind"})
		}
		filter.Kind = &k
	}
	filter.Page = queryInt(c, "page", 1)
	filter.Limit = queryInt(c, "limit", 20)
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	list, err := h.records.List(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err, "failed to list qr records")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"items": list.Items,
		"pagination": echo.Map{
			"total":    list.Total,
			"page":     list.Page,
			"limit":    list.Limit,
			"has_more": list.HasMore,
		},
	})
}

// GetQRCode handles GET /api/qrcodes/:id.
func (h *RecordHandler) GetQRCode(c echo.Context) error {
	withHistory := c.QueryParam("history") == "true"

	record, err := h.records.Get(c.Request().Context(), c.Param("id"), withHistory)
	if err != nil {
		return h.fail(c, err, "failed to get qr record")
	}

	return c.JSON(http.StatusOK, record)
}

// DeleteQRCode handles DELETE /api/qrcodes/:id. Soft delete by default,
// permanent with ?hard=true.
func (h *RecordHandler) DeleteQRCode(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	var err error
	if c.QueryParam("hard") == "true" {
		err = h.records.HardDelete(ctx, id)
	} else {
		err = h.records.SoftDelete(ctx, id)
	}
	if err != nil {
		return h.fail(c, err, "failed to delete qr record")
	}

	return c.NoContent(http.StatusNoContent)
}

// RestoreQRCode handles POST /api/qrcodes/:id/restore.
func (h *RecordHandler) RestoreQRCode(c echo.Context) error {
	if err := h.records.Restore(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err, "failed to restore qr record")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetStats handles GET /api/qrcodes/stats.
func (h *RecordHandler) GetStats(c echo.Context) error {
	stats, err := h.records.Stats(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "failed to compute stats")
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *RecordHandler) fail(c echo.Context, err error, msg string) error {
	apperrors.LogError(h.logger, err, msg,
		zap.String("path", c.Request().URL.Path),
		zap.String("qr_id", c.Param("id")))
	he := apperrors.ToHTTPError(err)
	return c.JSON(he.Code, echo.Map{"error": fmt.Sprintf("%v", he.Message)})
}

func buildContent(req *UpdateContentRequest) entity.Content {
	kind := entity.ContentKind(req.Kind)
	content := entity.Content{Kind: kind, Description: req.Description}

	switch kind {
	case entity.ContentText:
		content.Text = &entity.TextPayload{Text: req.Text}
	case entity.ContentLink:
		content.Link = &entity.LinkPayload{URL: req.URL}
	case entity.ContentContact:
		content.Contact = &entity.ContactPayload{
			Name:         req.Name,
			Phone:        req.Phone,
			Email:        req.Email,
			Organization: req.Organization,
		}
	}
	// File payloads are attached by the update engine from the upload;
	// unknown kinds pass through and are rejected there.
	return content
}

func queryInt(c echo.Context, name string, fallback int64) int64 {
	var value int64
	if _, err := fmt.Sscanf(c.QueryParam(name), "%d", &value); err != nil || value <= 0 {
		return fallback
	}
	return value
}
