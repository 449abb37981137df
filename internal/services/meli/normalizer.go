package meli

import (
	"github.com/shopspring/decimal"

	"github.com/davidkarp94/Pagina-ML/internal/models"
)

// Normalizer converts raw marketplace items to the catalog record shape.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize maps a raw item into a catalog record. It returns nil for items
// the storefront must never list: zero stock or any status other than active.
func (n *Normalizer) Normalize(raw *RawItem) *models.Item {
	if raw.AvailableQuantity <= 0 {
		return nil
	}
	if raw.Status != string(models.StatusActive) {
		return nil
	}

	// An item without pictures is still sellable; the storefront falls back
	// to a placeholder image for an empty slice.
	pictures := make([]string, 0, len(raw.Pictures))
	for _, pic := range raw.Pictures {
		src := pic.SecureURL
		if src == "" {
			src = pic.URL
		}
		if src != "" {
			pictures = append(pictures, src)
		}
	}

	return &models.Item{
		ID:                raw.ID,
		Title:             raw.Title,
		Price:             decimal.NewFromFloat(raw.Price),
		AvailableQuantity: raw.AvailableQuantity,
		Condition:         raw.Condition,
		Thumbnail:         raw.Thumbnail,
		Status:            raw.Status,
		Pictures:          pictures,
	}
}

// NormalizeAll maps a batch of raw items, dropping the ones Normalize skips.
func (n *Normalizer) NormalizeAll(raws []RawItem) []models.Item {
	items := make([]models.Item, 0, len(raws))
	for i := range raws {
		if item := n.Normalize(&raws[i]); item != nil {
			items = append(items, *item)
		}
	}
	return items
}
