package memstore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrilink/internal/models"
)

func mustID(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return id
}

// Demo product ids, stable so that demo clients can deep-link to them.
var (
	DemoCornSeedsID  = mustID("64f1a0000000000000000001")
	DemoFertilizerID = mustID("64f1a0000000000000000002")
	DemoPesticideID  = mustID("64f1a0000000000000000003")
)

// DemoCatalog is the catalog served in in-memory mode.
func DemoCatalog() ([]models.Product, []models.Category) {
	base := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

	products := []models.Product{
		{
			ID:            DemoCornSeedsID,
			Name:          "Premium Corn Seeds (5kg)",
			Description:   "High-yield hybrid maize seeds suited to the coastal and lake zones.",
			Price:         57500,
			OriginalPrice: 69000,
			Supplier:      "AgroTech Solutions",
			CategoryID:    "seeds",
			Variants: []models.Variant{
				{ID: "v1", Name: "size", Value: "5kg", PriceAdjustment: 0},
				{ID: "v2", Name: "size", Value: "10kg", PriceAdjustment: 50000},
			},
			StockQuantity: 150,
			IsActive:      true,
			CreatedAt:     base.Add(2 * time.Hour),
		},
		{
			ID:            DemoFertilizerID,
			Name:          "Organic NPK Fertilizer (25kg)",
			Description:   "Balanced organic NPK blend for vegetables and cereals.",
			Price:         80500,
			OriginalPrice: 92000,
			Supplier:      "EcoFarm Supplies",
			CategoryID:    "fertilizers",
			StockQuantity: 80,
			IsActive:      true,
			CreatedAt:     base.Add(time.Hour),
		},
		{
			ID:            DemoPesticideID,
			Name:          "Multi-purpose Pesticide (1L)",
			Description:   "Broad-spectrum crop protection concentrate.",
			Price:         41400,
			Supplier:      "AgroDefend",
			CategoryID:    "pesticides",
			StockQuantity: 200,
			IsActive:      true,
			CreatedAt:     base,
		},
	}

	categories := []models.Category{
		{ID: mustID("64f1b0000000000000000001"), Slug: "seeds", Name: "Seeds", Icon: "sprout", IsActive: true, CreatedAt: base},
		{ID: mustID("64f1b0000000000000000002"), Slug: "fertilizers", Name: "Fertilizers", Icon: "flask", IsActive: true, CreatedAt: base},
		{ID: mustID("64f1b0000000000000000003"), Slug: "pesticides", Name: "Pesticides", Icon: "shield", IsActive: true, CreatedAt: base},
		{ID: mustID("64f1b0000000000000000004"), Slug: "farm-equipment", Name: "Farm Equipment", Icon: "tractor", IsActive: true, CreatedAt: base},
		{ID: mustID("64f1b0000000000000000005"), Slug: "irrigation", Name: "Irrigation", Icon: "droplet", IsActive: true, CreatedAt: base},
		{ID: mustID("64f1b0000000000000000006"), Slug: "animal-feed", Name: "Animal Feed", Icon: "wheat", IsActive: true, CreatedAt: base},
	}
	return products, categories
}
