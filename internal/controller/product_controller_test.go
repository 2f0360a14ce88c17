package controller

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"solemate-be/pkg/assets"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages map[string]*assets.Image

func (f fakeImages) Fetch(_ context.Context, ref string) (*assets.Image, bool) {
	img, ok := f[ref]
	return img, ok
}

func newProductApp() *fiber.App {
	app := fiber.New()
	NewProductController(fakeImages{
		"air max.jpg": {Data: []byte("jpeg-bytes"), ContentType: "image/jpeg"},
	}).RegisterRoutes(app.Group("/api"))
	return app
}

func TestImageServed(t *testing.T) {
	resp, err := newProductApp().Test(httptest.NewRequest(http.MethodGet, "/api/product/v1/image/air%20max.jpg", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "jpeg-bytes", string(body))
}

func TestImageMissingRedirectsToPlaceholder(t *testing.T) {
	resp, err := newProductApp().Test(httptest.NewRequest(http.MethodGet, "/api/product/v1/image/unknown.jpg", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, assets.PlaceholderURL, resp.Header.Get("Location"))
}
