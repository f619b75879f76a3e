package api

import (
	"context"
	"fmt"
	"net/http"

	"maji/local-app/internal/model"
)

// Catalog fetches every brand with its models and features
func (c *Client) Catalog(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	if err := c.do(ctx, http.MethodGet, "/Catalogo/completo", nil, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

// ImagesForModel fetches the images of one model
func (c *Client) ImagesForModel(ctx context.Context, modelID int) ([]model.Image, error) {
	var images []model.Image
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/Catalogo/imagenes/%d", modelID), nil, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// AllImages fetches the images of every model
func (c *Client) AllImages(ctx context.Context) ([]model.Image, error) {
	var images []model.Image
	if err := c.do(ctx, http.MethodGet, "/Catalogo/imagenes", nil, &images); err != nil {
		return nil, err
	}
	return images, nil
}
