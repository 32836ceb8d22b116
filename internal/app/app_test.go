package app

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	catalogAPI "github.com/shandysiswandi/myfarm/internal/catalog/outbound/api"
	"github.com/shandysiswandi/myfarm/internal/pkg/apiclient"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/verification/entity"
	verificationAPI "github.com/shandysiswandi/myfarm/internal/verification/outbound/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sandboxConfig = `
app:
  name: myfarm-test
sandbox:
  hmac:
    secret: test-hmac
  jwt:
    secret: test-jwt-secret-0123456789abcdef0123456789abcdef0123456789abcdef
  idempotency:
    driver: memory
`

func TestSandbox_ServesStorefrontClients(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sandboxConfig), 0o600))

	app := New(ModeSandbox, Options{ConfigPath: path})

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	errChan := app.Serve(l)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		app.Stop(ctx)
		<-errChan
	})

	client, err := apiclient.New(apiclient.Config{
		BaseURL:    "http://" + l.Addr().String(),
		Timeout:    2 * time.Second,
		Instrument: instrument.NewNoop(),
	})
	require.NoError(t, err)

	ctx := context.Background()
	verification := verificationAPI.NewAPI(client, instrument.NewNoop())

	challenge, err := verification.SendOTP(ctx, entity.SendOTP{PhoneSuffix: "81234567", CountryCode: "+62"})
	require.NoError(t, err)
	assert.NotEmpty(t, challenge.SessionReference)
	assert.Equal(t, 60, challenge.ExpiresIn)

	result, err := verification.VerifyOTP(ctx, "12345", "unknown-reference")
	require.NoError(t, err)
	assert.EqualValues(t, 419, result.StatusCode)

	_, err = verification.SendOTP(ctx, entity.SendOTP{PhoneSuffix: "1", CountryCode: "+62"})
	assert.Equal(t, goerror.CodeInvalidInput, goerror.CodeOf(err))

	catalog := catalogAPI.NewAPI(client, instrument.NewNoop())

	pkgs, err := catalog.ListPackages(ctx)
	require.NoError(t, err)
	assert.Len(t, pkgs, 5)

	_, err = catalog.GetCart(ctx)
	assert.Equal(t, goerror.CodeUnauthorized, goerror.CodeOf(err))
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "storefront", ModeStorefront.String())
	assert.Equal(t, "sandbox", ModeSandbox.String())
}
