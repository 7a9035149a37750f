package public

import (
	"errors"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/codec"
	handlershared "github.com/MekalaManojKumar1128/pappaladabba/internal/http/handlers/shared"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/http/response"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgBadRequest        = "invalid request parameters"
	msgQuantityInvalid   = "quantity must be at least 1"
	msgLineKeyInvalid    = "invalid cart line key"
	msgCartEmpty         = "cart is empty, add products before sharing"
	msgCartUpdateFailed  = "cart update failed"
	msgShareFailed       = "failed to share cart"
	msgSharedCartInvalid = "shared cart link is invalid or corrupted"
	msgOrderFailed       = "failed to place order, please try again"
	msgOrderNotFound     = "order not found"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartMutationErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidProductID, code: response.CodeBadRequest, msg: "product id is required"},
	{target: service.ErrInvalidUnit, code: response.CodeBadRequest, msg: "product unit is required"},
}

var shareErrorRules = []mappedHandlerError{
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, msg: msgCartEmpty},
	{target: service.ErrWhatsAppNotConfigured, code: response.CodeBadRequest, msg: "whatsapp contact number is not configured"},
}

var sharedCartImportErrorRules = []mappedHandlerError{
	{target: codec.ErrInvalidSnapshot, code: response.CodeBadRequest, msg: msgSharedCartInvalid},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, msg: "payment method must be one of cod, upi, card"},
	{target: service.ErrShippingAddressInvalid, code: response.CodeBadRequest, msg: "shipping address is incomplete"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: msgOrderNotFound},
}

func respondCartMutationError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, msgCartUpdateFailed)
}

func respondShareError(c *gin.Context, err error) {
	respondWithMappedError(c, err, shareErrorRules, response.CodeInternal, msgShareFailed)
}

func respondSharedCartImportError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(sharedCartImportErrorRules, cartMutationErrorRules), response.CodeInternal, msgCartUpdateFailed)
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, msgOrderFailed)
}
