package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invorya-gst/internal/application/billing"
	"github.com/jhoicas/invorya-gst/internal/application/dto"
)

// InvoiceHandler maneja cálculo, emisión, consulta y documentos de facturas.
type InvoiceHandler struct {
	invoices  *billing.InvoiceUseCase
	documents *billing.DocumentUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices *billing.InvoiceUseCase, documents *billing.DocumentUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, documents: documents}
}

// Preview godoc
// @Summary      Calcular totales
// @Description  Recalcula importes, impuestos y total sin guardar nada. Números ilegibles cuentan como cero.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreviewInvoiceRequest  true  "Líneas, tasas y anticipo"
// @Success      200   {object}  dto.TotalsResponse
// @Router       /api/invoices/preview [post]
func (h *InvoiceHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	return c.JSON(h.invoices.Preview(in))
}

// PreviewPDF godoc
// @Summary      PDF de una factura sin guardar
// @Description  Genera el documento tal como está en el formulario; admite cero líneas.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.DraftDocumentRequest  true  "Formulario de factura"
// @Success      200
// @Failure      422   {object}  dto.ErrorResponse  "firma no disponible"
// @Router       /api/invoices/preview/pdf [post]
func (h *InvoiceHandler) PreviewPDF(c *fiber.Ctx) error {
	var in dto.DraftDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, filename, err := h.documents.RenderDraft(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, "application/pdf", filename, out, true)
}

// Create godoc
// @Summary      Emitir factura
// @Description  Resuelve partes y productos, calcula, numera INV-YYYYMMDD-NNNN y guarda en una transacción.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.invoices.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	out, err := h.invoices.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de factura"
// @Success      200     {object}  dto.InvoiceResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/invoices/{number} [get]
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	out, err := h.invoices.Get(c.UserContext(), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Corregir fecha o anticipo
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        number  path  string  true  "Número de factura"
// @Param        body    body  dto.UpdateInvoiceRequest  true  "Fecha y/o anticipo"
// @Success      200     {object}  dto.InvoiceResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/invoices/{number} [patch]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.invoices.Update(c.UserContext(), c.Params("number"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar factura
// @Tags         invoices
// @Security     Bearer
// @Param        number  path  string  true  "Número de factura"
// @Success      204
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/invoices/{number} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.invoices.Delete(c.UserContext(), c.Params("number")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF godoc
// @Summary      Descargar PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        number  path  string  true  "Número de factura"
// @Success      200
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      422     {object}  dto.ErrorResponse  "firma no disponible"
// @Router       /api/invoices/{number}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	out, filename, err := h.documents.Render(c.UserContext(), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, "application/pdf", filename, out, c.QueryBool("inline", false))
}

// Tally godoc
// @Summary      Exportar a Tally
// @Description  Voucher de venta en XML para Import Data de Tally Prime.
// @Tags         invoices
// @Security     Bearer
// @Produce      application/xml
// @Param        number  path  string  true  "Número de factura"
// @Success      200
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/invoices/{number}/tally [get]
func (h *InvoiceHandler) Tally(c *fiber.Ctx) error {
	out, filename, err := h.documents.ExportTally(c.UserContext(), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, "application/xml", filename, out, false)
}

func sendFile(c *fiber.Ctx, contentType, filename string, body []byte, inline bool) error {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("%s; filename=%q", disposition, filename))
	return c.Send(body)
}
