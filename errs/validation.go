package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain validation errors for recipe composition and relations.
var (
	ErrEmptyList        = errors.New("list may not be empty")
	ErrDuplicateInList  = errors.New("duplicate value in list")
	ErrOutOfRange       = errors.New("value out of range")
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")
	ErrMissingImage     = errors.New("recipe image is required")
	ErrInvalidImage     = errors.New("invalid image payload")
)

// NewEmptyListError covers "ingredients field may not be empty" and the
// same rule for tags.
func NewEmptyListError(field string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrEmptyList,
		Details:    fmt.Sprintf("%s field may not be empty", field),
		Field:      field,
	}
}

func NewDuplicateInListError(field string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrDuplicateInList,
		Details:    fmt.Sprintf("%s contains a duplicate entry", field),
		Field:      field,
	}
}

func NewOutOfRangeError(field string, min, max int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrOutOfRange,
		Details:    fmt.Sprintf("%s must be between %d and %d", field, min, max),
		Field:      field,
	}
}

func NewSelfSubscriptionError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrSelfSubscription,
		Field:      "author",
	}
}

func NewMissingImageError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingImage,
		Field:      "image",
	}
}

func NewInvalidImageError(reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidImage,
		Details:    reason,
		Field:      "image",
	}
}

func IsEmptyListError(err error) bool {
	return errors.Is(err, ErrEmptyList)
}

func IsDuplicateInListError(err error) bool {
	return errors.Is(err, ErrDuplicateInList)
}

func IsOutOfRangeError(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

func IsSelfSubscriptionError(err error) bool {
	return errors.Is(err, ErrSelfSubscription)
}
