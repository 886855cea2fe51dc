package public

import (
	"errors"

	"github.com/threadway-shop/internal/http/response"
	"github.com/threadway-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
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
	{target: service.ErrOwnerInvalid, code: response.CodeUnauthorized, key: "error.unauthorized"},
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest, key: "error.cart_item_invalid"},
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, key: "error.cart_quantity_invalid"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrVariantInvalid, code: response.CodeBadRequest, key: "error.product_variant_invalid"},
}

var checkoutCreateErrorRules = []mappedHandlerError{
	{target: service.ErrCheckoutInputInvalid, code: response.CodeBadRequest, key: "error.checkout_input_invalid"},
	{target: service.ErrPaymentMethodNotSupported, code: response.CodeBadRequest, key: "error.payment_method_not_supported"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
}

var paymentConfirmErrorRules = []mappedHandlerError{
	{target: service.ErrCheckoutNotFound, code: response.CodeNotFound, key: "error.checkout_not_found"},
	{target: service.ErrPaymentMethodNotSupported, code: response.CodeBadRequest, key: "error.payment_method_not_supported"},
	{target: service.ErrPaymentRejected, code: response.CodeBadRequest, key: "error.payment_rejected"},
	{target: service.ErrPaymentUnknown, code: response.CodeBadRequest, key: "error.payment_unknown"},
}

var checkoutFinalizeErrorRules = []mappedHandlerError{
	{target: service.ErrCheckoutNotFound, code: response.CodeNotFound, key: "error.checkout_not_found"},
	{target: service.ErrCheckoutNotPaid, code: response.CodeBadRequest, key: "error.checkout_not_paid"},
}

func respondCartMutationError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "error.cart_update_failed")
}

func respondCheckoutCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutCreateErrorRules, response.CodeInternal, "error.checkout_create_failed")
}

func respondPaymentConfirmError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentConfirmErrorRules, response.CodeInternal, "error.payment_confirm_failed")
}

func respondCheckoutFinalizeError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutFinalizeErrorRules, response.CodeInternal, "error.checkout_finalize_failed")
}
