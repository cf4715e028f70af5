package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
	"github.com/gcbaptista/go-address-matcher/model"
)

// MatchAddressHandler resolves a single transaction against the registry.
// Request Body: model.TransactionAddress
//
// External-lookup outages are reported inside the MatchResult (status
// "failed"), not as an HTTP error: the request itself succeeded.
func (api *API) MatchAddressHandler(c *gin.Context) {
	var tx model.TransactionAddress
	if err := c.ShouldBindJSON(&tx); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateTransaction(&tx); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	result, err := api.engine.MatchOne(c.Request.Context(), &tx)
	if err != nil {
		if errors.Is(err, internalErrors.ErrRegistryEmpty) {
			SendRegistryEmptyError(c)
			return
		}
		SendMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
