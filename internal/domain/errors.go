package domain

import "errors"

var (
	// ErrNoStores indicates an optimization was requested without any candidate store.
	ErrNoStores = errors.New("no stores supplied")
	// ErrInvalidStore indicates a store with an empty or reserved name.
	ErrInvalidStore = errors.New("invalid store")
	// ErrDuplicateStore indicates two stores share a name.
	ErrDuplicateStore = errors.New("duplicate store name")
	// ErrUnknownIngredient indicates an ingredient outside the price matrix axes.
	ErrUnknownIngredient = errors.New("ingredient not in price matrix")
	// ErrUnknownStore indicates a store outside the price matrix axes.
	ErrUnknownStore = errors.New("store not in price matrix")
	// ErrInvalidPrice indicates a negative or NaN price.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrInvalidRequest indicates a malformed shopping request.
	ErrInvalidRequest = errors.New("invalid shopping request")
	// ErrOutsideServiceArea indicates a location outside the configured bounds.
	ErrOutsideServiceArea = errors.New("location outside service area")
	// ErrNoViableRoute indicates every evaluated candidate has infinite cost.
	ErrNoViableRoute = errors.New("no viable route")
)

// IsInputError reports whether err is a rejected-request error the caller can fix.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrNoStores,
		ErrInvalidStore,
		ErrDuplicateStore,
		ErrUnknownIngredient,
		ErrUnknownStore,
		ErrInvalidPrice,
		ErrInvalidRequest,
		ErrOutsideServiceArea,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
