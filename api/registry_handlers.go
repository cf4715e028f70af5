package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-address-matcher/model"
)

// ReplaceRegistryHandler replaces the canonical registry snapshot.
// Request Body: []model.CanonicalAddress
// The blocking index is rebuilt from the new snapshot before the old one is
// swapped out; in-flight runs keep matching against the snapshot they
// started with.
func (api *API) ReplaceRegistryHandler(c *gin.Context) {
	var addresses []model.CanonicalAddress
	if err := c.ShouldBindJSON(&addresses); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateCanonicalAddresses(addresses); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	if err := api.engine.ReplaceRegistry(addresses); err != nil {
		SendInternalError(c, "registry replacement", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("Registry replaced (%d canonical addresses)", len(addresses)),
		"addresses": len(addresses),
	})
}

// RegistryStatsHandler returns registry size and per-scheme blocking key
// counts.
func (api *API) RegistryStatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.RegistryStats())
}

// GetCanonicalAddressHandler returns a single registry entry by canonical ID.
func (api *API) GetCanonicalAddressHandler(c *gin.Context) {
	id := c.Param("id")
	address, ok := api.engine.GetCanonicalAddress(id)
	if !ok {
		SendAddressNotFoundError(c, id)
		return
	}
	c.JSON(http.StatusOK, address)
}
