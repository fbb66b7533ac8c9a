package http

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/socks-api/internal/application/dto"
	"github.com/jhoicas/socks-api/internal/application/inventory"
	"github.com/jhoicas/socks-api/internal/domain/entity"
	"github.com/jhoicas/socks-api/pkg/logger"
	"github.com/jhoicas/socks-api/pkg/textenc"
	"github.com/valyala/fasthttp"
)

// SockHandler maneja las peticiones HTTP del inventario de calcetines.
type SockHandler struct {
	uc             *inventory.SockUseCase
	log            *logger.Logger
	defaultCharset string
}

// NewSockHandler construye el handler. defaultCharset aplica a /batch cuando el form no trae charset.
func NewSockHandler(uc *inventory.SockUseCase, log *logger.Logger, defaultCharset string) *SockHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SockHandler{uc: uc, log: log, defaultCharset: defaultCharset}
}

// Income godoc
// @Summary      Registrar ingreso de calcetines
// @Description  Suma la cantidad al lote (color, cottonPart) o crea el lote si no existe.
// @Tags         socks
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SockRequest  true  "color, cottonPart (0-100), quantity (>= 0)"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/socks/income [post]
func (h *SockHandler) Income(c *fiber.Ctx) error {
	in, err := parseSockRequest(c)
	if err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	msg, err := h.uc.Income(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.logMovement(c, inventory.OpIncome, in)
	return c.JSON(dto.MessageResponse{Message: msg})
}

// Outcome godoc
// @Summary      Registrar salida de calcetines
// @Description  Descuenta la cantidad del lote; falla si no existe o si no alcanza.
// @Tags         socks
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SockRequest  true  "color, cottonPart (0-100), quantity (>= 0)"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/socks/outcome [post]
func (h *SockHandler) Outcome(c *fiber.Ctx) error {
	in, err := parseSockRequest(c)
	if err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	msg, err := h.uc.Outcome(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.logMovement(c, inventory.OpOutcome, in)
	return c.JSON(dto.MessageResponse{Message: msg})
}

// Count godoc
// @Summary      Cantidad total de calcetines por filtro
// @Description  Suma las cantidades de los lotes que cumplen color y la comparación sobre cottonPart.
// @Description  Con cottonPart y una comparación ausente o desconocida el resultado es 0.
// @Tags         socks
// @Produce      json
// @Param        color       query  string  false  "Color exacto"
// @Param        comparison  query  string  false  "moreThan | lessThan | equal"
// @Param        cottonPart  query  int     false  "Porcentaje de algodón"
// @Success      200  {integer}  int
// @Failure      400  {object}   dto.ErrorResponse
// @Router       /api/socks [get]
func (h *SockHandler) Count(c *fiber.Ctx) error {
	var filter entity.SockFilter
	if color := c.Query("color"); color != "" {
		filter.Color = &color
	}
	filter.Comparison = entity.Comparison(c.Query("comparison"))
	if filter.Comparison != "" && !filter.Comparison.Valid() {
		h.log.Debug().Str("comparison", string(filter.Comparison)).Msg("comparación desconocida")
	}
	if raw := c.Query("cottonPart"); raw != "" {
		cottonPart, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "INVALID_QUERY", "cottonPart debe ser un entero")
		}
		filter.CottonPart = &cottonPart
	}
	total, err := h.uc.CountByFilter(c.UserContext(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(total)
}

// UploadBatch godoc
// @Summary      Cargar lotes desde CSV
// @Description  Primera línea = cabecera; cada línea siguiente "color,cottonPart,quantity".
// @Tags         socks
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true   "Archivo CSV"
// @Param        charset  formData  string  false  "utf-8 (default), windows-1251, iso-8859-1, ..."
// @Success      200  {object}  dto.BatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/socks/batch [post]
func (h *SockHandler) UploadBatch(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return badRequest(c, "MISSING_FILE", "el campo file es requerido")
		}
		return badRequest(c, "INVALID_BODY", "formulario multipart inválido")
	}
	charset := c.FormValue("charset", h.defaultCharset)

	f, err := fh.Open()
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer f.Close()

	r, err := textenc.NewReader(f, charset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.uc.UploadBatch(c.UserContext(), r)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().
		Str("file", fh.Filename).
		Int("lines", res.Lines).
		Str("operator", GetOperator(c)).
		Msg("carga CSV procesada")
	return c.JSON(dto.BatchResponse{Message: res.Message, Lines: res.Lines})
}

// Update godoc
// @Summary      Actualizar lote
// @Description  Reemplaza color, cottonPart y quantity del lote con el id dado.
// @Tags         socks
// @Accept       json
// @Produce      json
// @Param        id    path  int              true  "ID del lote"
// @Param        body  body  dto.SockRequest  true  "Nuevos valores"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/socks/{id} [put]
func (h *SockHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	in, err := parseSockRequest(c)
	if err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	msg, err := h.uc.UpdateSock(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.logMovement(c, inventory.OpUpdate, in)
	return c.JSON(dto.MessageResponse{Message: msg})
}

// GetByID godoc
// @Summary      Obtener lote por ID
// @Tags         socks
// @Produce      json
// @Param        id   path  int  true  "ID del lote"
// @Success      200  {object}  dto.SockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/socks/{id} [get]
func (h *SockHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	sock, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToSockResponse(sock))
}

// Filter godoc
// @Summary      Listar lotes por rango de algodón
// @Tags         socks
// @Produce      json
// @Param        minCottonPart  query  int     true   "Mínimo (inclusive)"
// @Param        maxCottonPart  query  int     true   "Máximo (inclusive)"
// @Param        sortBy         query  string  false  "color | cottonPart"  default(color)
// @Success      200  {array}   dto.SockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/socks/filter [get]
func (h *SockHandler) Filter(c *fiber.Ctx) error {
	minCottonPart, err := strconv.Atoi(c.Query("minCottonPart"))
	if err != nil {
		return badRequest(c, "INVALID_QUERY", "minCottonPart es requerido y debe ser un entero")
	}
	maxCottonPart, err := strconv.Atoi(c.Query("maxCottonPart"))
	if err != nil {
		return badRequest(c, "INVALID_QUERY", "maxCottonPart es requerido y debe ser un entero")
	}
	list, err := h.uc.FilterByRange(c.UserContext(), minCottonPart, maxCottonPart, c.Query("sortBy", inventory.SortByColor))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToSockResponses(list))
}

func (h *SockHandler) logMovement(c *fiber.Ctx, op string, in *dto.SockRequest) {
	h.log.Debug().
		Str("operation", op).
		Str("color", in.Color).
		Int("cotton_part", in.CottonPart).
		Int("quantity", in.Quantity).
		Str("operator", GetOperator(c)).
		Msg("movimiento de stock")
}

// parseSockRequest devuelve nil si el cuerpo está vacío o es "null"; el validador lo rechaza.
func parseSockRequest(c *fiber.Ctx) (*dto.SockRequest, error) {
	if len(bytes.TrimSpace(c.Body())) == 0 {
		return nil, nil
	}
	var in *dto.SockRequest
	if err := c.BodyParser(&in); err != nil {
		return nil, err
	}
	return in, nil
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
