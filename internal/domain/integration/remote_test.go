package integration

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fibermade/backend/internal/domain/catalog"
)

func TestColorwayStatusFromRemote(t *testing.T) {
	assert.Equal(t, catalog.ColorwayStatusActive, ColorwayStatusFromRemote(RemoteStatusActive))
	assert.Equal(t, catalog.ColorwayStatusIdea, ColorwayStatusFromRemote(RemoteStatusDraft))
	assert.Equal(t, catalog.ColorwayStatusRetired, ColorwayStatusFromRemote(RemoteStatusArchived))
	// Unknown remote statuses fall back to active
	assert.Equal(t, catalog.ColorwayStatusActive, ColorwayStatusFromRemote("UNKNOWN"))
}

func TestStatusMappingRoundTrip(t *testing.T) {
	statuses := []catalog.ColorwayStatus{
		catalog.ColorwayStatusActive,
		catalog.ColorwayStatusIdea,
		catalog.ColorwayStatusRetired,
	}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			remote := RemoteStatusFromColorway(status)
			assert.Equal(t, status, ColorwayStatusFromRemote(remote))
		})
	}
}

func TestRemoteVariantDescriptor(t *testing.T) {
	t.Run("uses variant title when set", func(t *testing.T) {
		v := RemoteVariant{Title: "Merino DK"}
		assert.Equal(t, "Merino DK", v.Descriptor("Harvest Moon"))
	})

	t.Run("falls back to product title for placeholder", func(t *testing.T) {
		v := RemoteVariant{Title: DefaultVariantTitle}
		assert.Equal(t, "Merino DK", v.Descriptor("Merino DK"))
	})

	t.Run("falls back to product title when empty", func(t *testing.T) {
		v := RemoteVariant{Title: ""}
		assert.Equal(t, "Merino DK", v.Descriptor("Merino DK"))
	})
}

func TestIsRateLimited(t *testing.T) {
	t.Run("direct 429", func(t *testing.T) {
		err := &RequestError{StatusCode: 429, Err: errors.New("throttled")}
		assert.True(t, IsRateLimited(err))
	})

	t.Run("wrapped 429", func(t *testing.T) {
		err := fmt.Errorf("fetch page: %w", &RequestError{StatusCode: 429, Err: errors.New("throttled")})
		assert.True(t, IsRateLimited(err))
	})

	t.Run("other status", func(t *testing.T) {
		err := &RequestError{StatusCode: 500, Err: errors.New("boom")}
		assert.False(t, IsRateLimited(err))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.False(t, IsRateLimited(errors.New("boom")))
	})
}

func TestNewExternalIdentifierValidation(t *testing.T) {
	integrationID := uuid.New()
	internalID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		id, err := NewExternalIdentifier(integrationID, InternalTypeColorway, internalID, ExternalTypeProduct, "gid://shopify/Product/1", nil)
		assert.NoError(t, err)
		assert.NotNil(t, id)
		assert.Equal(t, InternalTypeColorway, id.InternalType)
	})

	t.Run("missing external ID", func(t *testing.T) {
		_, err := NewExternalIdentifier(integrationID, InternalTypeColorway, internalID, ExternalTypeProduct, "", nil)
		assert.Error(t, err)
	})

	t.Run("invalid internal type", func(t *testing.T) {
		_, err := NewExternalIdentifier(integrationID, "order", internalID, ExternalTypeProduct, "gid://shopify/Product/1", nil)
		assert.Error(t, err)
	})
}
