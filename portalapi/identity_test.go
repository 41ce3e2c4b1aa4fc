package portalapi_test

import (
	"testing"

	"github.com/jrsteele09/tenant-portal/internal/errors"
	"github.com/jrsteele09/tenant-portal/portalapi"
	"github.com/stretchr/testify/require"
)

func TestDecodeIdentity(t *testing.T) {
	t.Run("nested user", func(t *testing.T) {
		id, err := portalapi.DecodeIdentity([]byte(`{"success":true,"token":"t1","user":{"id":"tnt_001","name":"Acme"}}`))
		require.NoError(t, err)
		require.Equal(t, portalapi.Identity{ID: "tnt_001", Name: "Acme", Token: "t1"}, id)
	})

	t.Run("flat record", func(t *testing.T) {
		id, err := portalapi.DecodeIdentity([]byte(`{"id":"tnt_001","name":"Acme Corp","status":"active","apiKey":"ak"}`))
		require.NoError(t, err)
		require.Equal(t, portalapi.Identity{ID: "tnt_001", Name: "Acme Corp"}, id)
	})

	t.Run("nested without id falls back to flat", func(t *testing.T) {
		id, err := portalapi.DecodeIdentity([]byte(`{"user":{"name":"x"},"id":"tnt_009","name":"Flat"}`))
		require.NoError(t, err)
		require.Equal(t, "tnt_009", id.ID)
	})

	t.Run("neither shape", func(t *testing.T) {
		_, err := portalapi.DecodeIdentity([]byte(`{"success":true}`))
		require.True(t, errors.Is(err, errors.ErrNetwork))
	})

	t.Run("not json", func(t *testing.T) {
		_, err := portalapi.DecodeIdentity([]byte(`<html>`))
		require.True(t, errors.Is(err, errors.ErrNetwork))
	})
}
