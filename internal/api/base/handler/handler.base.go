package basehdl

import (
	"bytes"
	"encoding/json"

	"rbac_admin/internal/common"
	"rbac_admin/internal/global"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// BaseHandler cung cấp các hàm parse/validate request và chuẩn hóa response cho domain handler
type BaseHandler struct {
	validate *validator.Validate
}

// NewBaseHandler tạo BaseHandler; validate = nil thì dùng global.Validate
func NewBaseHandler(validate *validator.Validate) *BaseHandler {
	return &BaseHandler{validate: validate}
}

func (h *BaseHandler) validator() *validator.Validate {
	if h.validate != nil {
		return h.validate
	}
	if global.Validate == nil {
		global.InitValidator()
	}
	return global.Validate
}

// ValidateStruct validate struct theo tag validate, lỗi trả về là 400
func (h *BaseHandler) ValidateStruct(input interface{}) error {
	if err := h.validator().Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	return nil
}

// ParseRequestBody parse và validate dữ liệu từ request body.
// Sử dụng json.Decoder với UseNumber() để xử lý chính xác các số.
func (h *BaseHandler) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
	}
	return h.ValidateStruct(input)
}

// ParseRequestQuery bind query string vào struct (tag query) rồi validate
func (h *BaseHandler) ParseRequestQuery(c fiber.Ctx, input interface{}) error {
	if err := c.Bind().Query(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
	}
	return h.ValidateStruct(input)
}

// ParseRequestParams bind URI params vào struct (tag uri) rồi validate
func (h *BaseHandler) ParseRequestParams(c fiber.Ctx, input interface{}) error {
	if err := c.Bind().URI(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
	}
	return h.ValidateStruct(input)
}
