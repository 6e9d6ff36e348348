package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/AzizDev404/Qr/internal/domain/entity"
	"github.com/AzizDev404/Qr/internal/usecase"
	apperrors "github.com/AzizDev404/Qr/pkg/errors"
)

// ScanHandler serves the public resolution endpoints.
type ScanHandler struct {
	scans   *usecase.ScanService
	records *usecase.RecordService
	logger  *zap.Logger
}

// NewScanHandler creates a scan handler.
func NewScanHandler(scans *usecase.ScanService, records *usecase.RecordService, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		scans:   scans,
		records: records,
		logger:  logger,
	}
}

// Scan handles GET /scan/:id, the counted public resolution.
func (h *ScanHandler) Scan(c echo.Context) error {
	return h.resolve(c, true)
}

// Preview handles GET /preview/:id. Previews never touch counters, history
// or analytics.
func (h *ScanHandler) Preview(c echo.Context) error {
	return h.resolve(c, false)
}

// Redirect handles GET /r/:id, the short redirect path. Only link-kind
// records take the fast path; everything else behaves like a counted scan.
func (h *ScanHandler) Redirect(c echo.Context) error {
	return h.resolve(c, true)
}

// Image handles GET /image/:id, streaming the bound scannable image.
func (h *ScanHandler) Image(c echo.Context) error {
	reader, _, err := h.records.OpenImage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err, "failed to open qr image")
	}
	defer reader.Close()

	return c.Stream(http.StatusOK, "image/png", reader)
}

func (h *ScanHandler) resolve(c echo.Context, counted bool) error {
	access := usecase.Access{
		Password:  c.QueryParam("password"),
		Counted:   counted,
		Format:    c.QueryParam("format"),
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Referer:   c.Request().Referer(),
	}

	directive, err := h.scans.Resolve(c.Request().Context(), c.Param("id"), access)
	if err != nil {
		return h.fail(c, err, "failed to resolve qr scan")
	}

	return h.respond(c, directive)
}

// respond translates a directive into the HTTP response. A json format
// request turns render directives into the structured info payload instead
// of HTML.
func (h *ScanHandler) respond(c echo.Context, d *entity.Directive) error {
	switch d.Kind {
	case entity.DirectiveNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "qr code not found"})

	case entity.DirectivePasswordRequired:
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "password required",
			"title": d.Title,
		})

	case entity.DirectiveRedirect:
		return c.Redirect(http.StatusFound, d.Location)

	case entity.DirectiveStream:
		reader, _, err := h.scans.OpenBlob(c.Request().Context(), d.BlobRef)
		if err != nil {
			return h.fail(c, err, "failed to stream file blob")
		}
		defer reader.Close()

		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`%s; filename=%q`, d.Disposition, d.FileName))
		if d.Size > 0 {
			c.Response().Header().Set(echo.HeaderContentLength, fmt.Sprintf("%d", d.Size))
		}
		return c.Stream(http.StatusOK, d.MimeType, reader)

	case entity.DirectiveExport:
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename=%q`, d.ExportName))
		return c.Blob(http.StatusOK, d.ContentType, d.Payload)

	case entity.DirectiveRender:
		if c.QueryParam("format") == "json" {
			return c.JSON(http.StatusOK, renderInfo(d))
		}
		return c.HTML(http.StatusOK, renderHTML(d))
	}

	h.logger.Error("unhandled directive kind", zap.String("kind", string(d.Kind)))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// renderInfo builds the JSON info payload; its shape varies by view.
func renderInfo(d *entity.Directive) echo.Map {
	switch d.View {
	case entity.ViewText:
		return echo.Map{
			"view":        entity.ViewText,
			"title":       d.Title,
			"text":        d.Text,
			"description": d.Description,
		}
	case entity.ViewContact:
		return echo.Map{
			"view":        entity.ViewContact,
			"title":       d.Title,
			"contact":     d.Contact,
			"description": d.Description,
		}
	default:
		return echo.Map{
			"view":  entity.ViewPlaceholder,
			"title": d.Title,
		}
	}
}

func (h *ScanHandler) fail(c echo.Context, err error, msg string) error {
	apperrors.LogError(h.logger, err, msg,
		zap.String("path", c.Request().URL.Path),
		zap.String("qr_id", c.Param("id")))
	he := apperrors.ToHTTPError(err)
	return c.JSON(he.Code, echo.Map{"error": fmt.Sprintf("%v", he.Message)})
}
