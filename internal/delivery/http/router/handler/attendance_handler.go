package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strconv"

	"guardpost/internal/delivery/http/response"
	"guardpost/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AttendanceHandlerParams holds dependencies for AttendanceHandler,
// injected by Fx.
type AttendanceHandlerParams struct {
	fx.In

	AttendanceUC usecase.AttendanceUsecase
	Logger       *slog.Logger
}

// AttendanceHandler holds dependencies for QR and attendance handlers.
type AttendanceHandler struct {
	attendanceUC usecase.AttendanceUsecase
	logger       *slog.Logger
}

// NewAttendanceHandler is the constructor for AttendanceHandler
func NewAttendanceHandler(params AttendanceHandlerParams) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceUC: params.AttendanceUC,
		logger:       params.Logger,
	}
}

// CreateQRRequest represents the request body for registering a QR code
type CreateQRRequest struct {
	Site string `json:"site" validate:"required"`
	Post string `json:"post" validate:"required"`
}

// ScanRequest represents the request body for recording a scan
type ScanRequest struct {
	Content   string  `json:"content" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// qrCodeResponse mirrors usecase.QRCodeOutput with the PNG rendered as
// base64 for JSON transport.
type qrCodeResponse struct {
	*usecase.QRCodeOutput
	ImageBase64 string `json:"image_png,omitempty"`
}

func toQRCodeResponse(out *usecase.QRCodeOutput) *qrCodeResponse {
	resp := &qrCodeResponse{QRCodeOutput: out}
	if len(out.ImagePNG) > 0 {
		resp.ImageBase64 = base64.StdEncoding.EncodeToString(out.ImagePNG)
	}

	return resp
}

// CreateQR handles registering a QR code for the caller's site and post.
func (h *AttendanceHandler) CreateQR(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req CreateQRRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid QR code input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input := &usecase.CreateQRInput{
		Site: req.Site,
		Post: req.Post,
	}

	qr, err := h.attendanceUC.CreateQR(c.Request().Context(), actor, input)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toQRCodeResponse(qr), "QR code registered successfully")
}

// ListQR handles listing the caller's registered QR codes. Images are
// only rendered when images=true is passed.
func (h *AttendanceHandler) ListQR(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	input := &usecase.ListQRInput{
		Site:          c.QueryParam("site"),
		IncludeImages: c.QueryParam("images") == "true",
	}

	codes, err := h.attendanceUC.ListQR(c.Request().Context(), actor, input)
	if err != nil {
		return handleAppError(c, err)
	}

	out := make([]*qrCodeResponse, 0, len(codes))
	for _, qr := range codes {
		out = append(out, toQRCodeResponse(qr))
	}

	return response.Success(c, http.StatusOK, out, "QR codes retrieved successfully")
}

// Scan handles recording an attendance scan at the caller's reported
// GPS position.
func (h *AttendanceHandler) Scan(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var req ScanRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid scan input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input := &usecase.ScanInput{
		Content:   req.Content,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	event, err := h.attendanceUC.Scan(c.Request().Context(), actor, input)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, event, "Scan recorded successfully")
}

// ListScans handles retrieving the caller's own attendance history.
func (h *AttendanceHandler) ListScans(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	input := &usecase.ListScansInput{
		Limit:  limit,
		Offset: offset,
	}

	records, err := h.attendanceUC.ListScans(c.Request().Context(), actor, input)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, records, "Scan history retrieved successfully")
}
