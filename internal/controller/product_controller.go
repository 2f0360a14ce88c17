package controller

import (
	"context"
	"net/url"

	"solemate-be/pkg/assets"

	"github.com/gofiber/fiber/v2"
)

// ImageFetcher resolves a product image reference
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) (*assets.Image, bool)
}

type IProductController interface {
	RegisterRoutes(r fiber.Router)
	Image(ctx *fiber.Ctx) error
}

type productController struct {
	images ImageFetcher
}

func NewProductController(images ImageFetcher) IProductController {
	return &productController{
		images: images,
	}
}

func (c *productController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/product/v1")
	h.Get("image/:ref", c.Image)
}

// Image serves the image bytes, or redirects to the placeholder when unavailable
func (c *productController) Image(ctx *fiber.Ctx) error {
	ref, err := url.PathUnescape(ctx.Params("ref"))
	if err != nil {
		return ctx.Redirect(assets.PlaceholderURL, fiber.StatusFound)
	}

	img, ok := c.images.Fetch(ctx.UserContext(), ref)
	if !ok {
		return ctx.Redirect(assets.PlaceholderURL, fiber.StatusFound)
	}

	ctx.Set(fiber.HeaderContentType, img.ContentType)
	ctx.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return ctx.Send(img.Data)
}
