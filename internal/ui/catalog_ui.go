package ui

import (
	"fmt"

	"maji/local-app/internal/catalog"
	"maji/local-app/internal/model"
)

var catalogColors = map[string]Color{
	"{{brand}}":    ColorBold,
	"{{id}}":       ColorGray,
	"{{name}}":     ColorWhite,
	"{{price}}":    ColorLightYellow,
	"{{in}}":       ColorLightGreen,
	"{{out}}":      ColorLightRed,
	"{{feature}}":  ColorLightBlue,
	"{{value}}":    ColorDefault,
	"{{image}}":    ColorLightPurple,
	"{{selected}}": ColorGreen,
}

// Catalog displays every brand with its models. The expanded model also
// shows its description, features and images.
func (u *UI) Catalog(loader *catalog.Loader) {
	brands := loader.Brands()
	if len(brands) == 0 {
		u.Println("No hay modelos en el catálogo.")
		return
	}

	expanded, open := loader.Expanded()
	for _, b := range brands {
		u.printTemplate("{{brand}}"+b.Name, catalogColors)
		for _, m := range b.Models {
			marker := "  "
			if open && m.ID == expanded {
				marker = "{{selected}}▸ "
			}
			stock := "{{out}}"
			if m.Available {
				stock = "{{in}}"
			}
			u.printTemplate(fmt.Sprintf("%s{{id}}[%d] {{name}}%s  {{price}}%s  %s%s",
				marker, m.ID, m.Name, catalog.FormatPrice(m.Price), stock, catalog.Availability(m.Available)), catalogColors)

			images, fetched := loader.Images(m.ID)
			if fetched && !(open && m.ID == expanded) {
				u.printTemplate(fmt.Sprintf("      {{id}}%d imágenes", len(images)), catalogColors)
			}
			if open && m.ID == expanded {
				u.modelDetail(m, loader.Detail())
			}
		}
	}
}

func (u *UI) modelDetail(m model.PhoneModel, images []model.Image) {
	if m.Description != "" {
		u.Printf("      %s\n", m.Description)
	}
	for _, f := range m.Features {
		u.printTemplate(fmt.Sprintf("      {{feature}}%s: {{value}}%s", f.Name, f.Value), catalogColors)
	}
	if len(images) == 0 {
		u.Info("      Sin imágenes")
		return
	}
	for _, img := range images {
		u.printTemplate("      {{image}}"+img.Path, catalogColors)
	}
}

// ImageList displays every image with the model it belongs to.
func (u *UI) ImageList(images []model.Image) {
	if len(images) == 0 {
		u.Println("No hay imágenes en el catálogo.")
		return
	}
	for _, img := range images {
		owner := fmt.Sprintf("modelo %d", img.ModelID)
		if img.ModelName != "" {
			owner = img.ModelName
		}
		u.printTemplate(fmt.Sprintf("{{id}}[%d] {{name}}%s  {{image}}%s", img.ID, owner, img.Path), catalogColors)
	}
	u.Printf("%d imágenes\n", len(images))
}
