// File: internal/infra/catalog/catalog.go
package catalog

import (
	"tryon-studio/internal/domain/model"
)

// Static stores the built-in product catalog in display order. Image paths
// are relative to the configured assets directory.
type Static struct {
	order []model.CatalogItem
	items map[string]model.CatalogItem
}

func New() *Static {
	s := &Static{
		order: seed,
		items: make(map[string]model.CatalogItem, len(seed)),
	}
	for _, item := range seed {
		s.items[item.ID] = item
	}
	return s
}

func (s *Static) Find(itemID string) (model.CatalogItem, bool) {
	item, ok := s.items[itemID]
	return item, ok
}

func (s *Static) All() []model.CatalogItem {
	out := make([]model.CatalogItem, len(s.order))
	copy(out, s.order)
	return out
}

func jewelry(id, name string, cat model.ItemCategory, path string) model.CatalogItem {
	return model.CatalogItem{ID: id, Name: name, Category: cat, Image: model.ImageRef{URL: path}}
}

var seed = []model.CatalogItem{
	jewelry("1", "Royal Gold Necklace", model.CategoryNecklace, "/images/necklace1.png"),
	jewelry("2", "Diamond Necklace", model.CategoryNecklace, "/images/necklace8.png"),
	jewelry("3", "Diamond Earring", model.CategoryEarring, "/images/earring.png"),
	jewelry("4", "Blossom Crest Gold", model.CategoryNecklace, "/images/necklace6.png"),
	jewelry("5", "Cheeky Glow Sapphire Necklace", model.CategoryNecklace, "/images/mia1.png"),
	jewelry("6", "Timeless Aura Gold & Diamond Necklace", model.CategoryNecklace, "/images/mia2.png"),
	jewelry("7", "Cupid Edit Whimsical Wings Necklace", model.CategoryNecklace, "/images/mia3.jpeg"),
	jewelry("8", "Royal Charm Diamond Jhumka", model.CategoryEarring, "/images/miae1.jpeg"),
	jewelry("9", "Cupid Edit Whimsical Wings", model.CategoryEarring, "/images/miae2.jpeg"),
	jewelry("10", "Spherical Diamond Necklace", model.CategoryNecklace, "/images/necklace9.png"),
	jewelry("11", "Sapphire and Fan Gold Necklace", model.CategoryNecklace, "/images/necklace10.png"),
	jewelry("12", "Filigree Charm Set", model.CategorySet, "/images/necklaceset1.png"),
	jewelry("13", "Gold Choker Set", model.CategorySet, "/images/necklaceset3.png"),
	jewelry("14", "Majestic Ornate Set", model.CategorySet, "/images/necklaceset4.png"),
	jewelry("15", "Diamond Earring Drop", model.CategoryEarring, "/images/necklace11.png"),

	jewelry("301", "Purple Square Sunglasses for Women", model.CategoryEyewear, "/images/womenglass1.png"),
	jewelry("302", "Brown Navigator Sunglasses for Men", model.CategoryEyewear, "/images/glassmen1.png"),
	jewelry("303", "Blue Glasses for Men", model.CategoryEyewear, "/images/eyeblue.webp"),
	jewelry("304", "Green Frame for Men", model.CategoryEyewear, "/images/eyegreen.webp"),

	jewelry("101", "Yellow Floral Kurta", model.CategoryClothing, "/images/kurtha1.jpg"),
	jewelry("102", "Red Silk Saree", model.CategoryClothing, "/images/sareemodel1.png"),
	jewelry("103", "Off White Pure Cotton Mulmul", model.CategoryClothing, "/images/sareemodel2.png"),
}
