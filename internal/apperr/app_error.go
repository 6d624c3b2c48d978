package apperr

import "github.com/tuanvumaihuynh/catalog-service/pkg/zerror"

const (
	ValidationErrorCode   = "VALIDATION_FAILED"
	InvalidFormFieldCode  = "INVALID_FORM_FIELD"
	InvalidParameterCode  = "INVALID_PARAMETER"
	InvalidAttachmentCode = "INVALID_ATTACHMENT"
	ProductNotFoundCode   = "PRODUCT_NOT_FOUND"
	ProductConflictCode   = "PRODUCT_CONFLICT"
	StoreFailureCode      = "STORE_FAILURE"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	ProductNotFoundErr = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	ProductConflictErr = zerror.NewBadRequest(ProductConflictCode, "product violates a store constraint")
	StoreErr           = zerror.NewInternalServerError(StoreFailureCode, "store operation failed")

	InvalidFormFieldErr  = zerror.NewValidationFailed(InvalidFormFieldCode, "invalid form field")
	InvalidParameterErr  = zerror.NewValidationFailed(InvalidParameterCode, "invalid parameter")
	InvalidAttachmentErr = zerror.NewValidationFailed(InvalidAttachmentCode, "invalid attachment")
)

// InvalidFormField reports a form field that could not be parsed.
func InvalidFormField(field, reason string) zerror.ZError {
	return InvalidFormFieldErr.WithMsg(field + " " + reason)
}

// InvalidParameter reports a path or query parameter that could not be bound.
func InvalidParameter(name, reason string) zerror.ZError {
	return InvalidParameterErr.WithMsg(name + " " + reason)
}

// InvalidAttachment reports an uploaded file that was rejected.
func InvalidAttachment(reason string) zerror.ZError {
	return InvalidAttachmentErr.WithMsg(reason)
}
