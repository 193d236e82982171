package httpserver

import (
	"errors"

	apierrors "github.com/minimarket/go-gin-shop-server/internal/shared/errors"

	catalogapp "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/application"
	catalogports "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/ports"
	ordersapp "github.com/minimarket/go-gin-shop-server/internal/domains/orders/application"
	ordersports "github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"
	usersapp "github.com/minimarket/go-gin-shop-server/internal/domains/users/application"
	usersports "github.com/minimarket/go-gin-shop-server/internal/domains/users/ports"
)

// newResponder chains the per-domain error mappers behind one RFC 7807
// responder. Order matters: typed placement errors are checked before the
// generic sentinels they may wrap.
func newResponder() *apierrors.Responder {
	return apierrors.NewResponder(
		mapOrderErrors,
		mapCatalogErrors,
		mapUserErrors,
	)
}

func mapOrderErrors(err error) (apierrors.ProblemDetail, bool) {
	var notFound *ordersports.ProductNotFoundError
	if errors.As(err, &notFound) {
		return apierrors.NewNotFoundProblem("product", notFound.ProductID), true
	}
	var insufficient *ordersports.InsufficientStockError
	if errors.As(err, &insufficient) {
		return apierrors.ErrConflict.
			WithDetail(insufficient.Error()).
			WithExtension("productId", insufficient.ProductID).
			WithExtension("productName", insufficient.ProductName), true
	}
	if errors.Is(err, ordersports.ErrNotFound) {
		return apierrors.ErrNotFound.WithDetail("order not found"), true
	}
	if errors.Is(err, ordersapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCatalogErrors(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogports.ErrNotFound) {
		return apierrors.ErrNotFound.WithDetail("product not found"), true
	}
	if errors.Is(err, catalogapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapUserErrors(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, usersports.ErrEmailTaken) {
		return apierrors.ErrConflict.WithDetail("email is already registered"), true
	}
	if errors.Is(err, usersports.ErrNotFound) {
		return apierrors.ErrNotFound.WithDetail("user not found"), true
	}
	if errors.Is(err, usersapp.ErrAuthentication) {
		return apierrors.ErrUnauthorized.WithDetail("invalid email or password"), true
	}
	if errors.Is(err, usersapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
