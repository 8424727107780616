package config

import (
	"context"
	"log"

	"messpay/internal/adapters/persistence/repositories"
	"messpay/internal/core/domain"
)

// Seeder handles catalog seeding
type Seeder struct {
	catalog repositories.CatalogRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(catalog repositories.CatalogRepository) *Seeder {
	return &Seeder{catalog: catalog}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running catalog seeders...")

	if err := s.seedMesses(ctx); err != nil {
		log.Printf("⚠️ Mess seeder skipped: %v", err)
		return err
	}
	if err := s.seedMenuItems(ctx); err != nil {
		log.Printf("⚠️ Menu item seeder skipped: %v", err)
		return err
	}

	log.Println("✅ Catalog seeding completed")
	return nil
}

// seedMesses writes the mess list when none is stored yet
func (s *Seeder) seedMesses(ctx context.Context) error {
	existing, err := s.catalog.ListMesses(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	if err := s.catalog.SaveMesses(ctx, DefaultMesses()); err != nil {
		return err
	}
	log.Printf("✅ Seeded %d messes", len(DefaultMesses()))
	return nil
}

// seedMenuItems writes the menu item list when none is stored yet
func (s *Seeder) seedMenuItems(ctx context.Context) error {
	existing, err := s.catalog.ListMenuItems(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	if err := s.catalog.SaveMenuItems(ctx, DefaultMenuItems()); err != nil {
		return err
	}
	log.Printf("✅ Seeded %d menu items", len(DefaultMenuItems()))
	return nil
}

// DefaultMesses returns the campus messes shipped with the app
func DefaultMesses() []domain.Mess {
	return []domain.Mess{
		{
			ID:           "mess-1",
			Name:         "Sunshine Mess",
			Description:  "Fresh homemade food with variety of options. Known for North Indian cuisine.",
			Rating:       4.5,
			TotalRatings: 234,
			DietTags:     []domain.DietTag{"Veg", "Jain"},
			Location:     "Near Main Gate, Campus Road",
			OpeningHours: "7:00 AM - 10:00 PM",
			OwnerID:      "owner-1",
			PricePerMeal: 3,
		},
		{
			ID:           "mess-2",
			Name:         "Spice Garden",
			Description:  "Authentic South Indian meals with fresh ingredients daily.",
			Rating:       4.7,
			TotalRatings: 189,
			DietTags:     []domain.DietTag{"Veg", "Non-Veg"},
			Location:     "Block A, First Floor",
			OpeningHours: "6:30 AM - 9:30 PM",
			OwnerID:      "owner-2",
			PricePerMeal: 4,
		},
		{
			ID:           "mess-3",
			Name:         "Green Leaf",
			Description:  "Purely vegetarian mess focusing on healthy and nutritious meals.",
			Rating:       4.3,
			TotalRatings: 156,
			DietTags:     []domain.DietTag{"Veg", "Vegan", "Jain"},
			Location:     "Hostel Block C",
			OpeningHours: "7:00 AM - 9:00 PM",
			OwnerID:      "owner-3",
			PricePerMeal: 3,
		},
		{
			ID:           "mess-4",
			Name:         "Royal Taste",
			Description:  "Premium quality non-veg and veg options with continental dishes.",
			Rating:       4.6,
			TotalRatings: 201,
			DietTags:     []domain.DietTag{"Veg", "Non-Veg", "Halal"},
			Location:     "Near Library, Ground Floor",
			OpeningHours: "8:00 AM - 10:30 PM",
			OwnerID:      "owner-4",
			PricePerMeal: 5,
		},
		{
			ID:           "mess-5",
			Name:         "Healthy Bites",
			Description:  "Focus on nutrition with balanced meals and fresh ingredients.",
			Rating:       4.4,
			TotalRatings: 178,
			DietTags:     []domain.DietTag{"Veg", "Vegan"},
			Location:     "Sports Complex Area",
			OpeningHours: "7:30 AM - 9:00 PM",
			OwnerID:      "owner-5",
			PricePerMeal: 4,
		},
	}
}

// DefaultMenuItems returns the menus of the default messes
func DefaultMenuItems() []domain.MenuItem {
	item := func(id, name, desc string, price int64, tag domain.DietTag, category, messID string) domain.MenuItem {
		return domain.MenuItem{
			ID:          id,
			Name:        name,
			Description: desc,
			Price:       price,
			DietTag:     tag,
			Category:    category,
			Available:   true,
			MessID:      messID,
		}
	}

	return []domain.MenuItem{
		// Sunshine Mess
		item("item-1", "Paneer Butter Masala", "Rich and creamy paneer curry with rice and roti", 4, "Veg", "lunch", "mess-1"),
		item("item-2", "Dal Tadka Combo", "Yellow dal with jeera rice, roti and salad", 3, "Veg", "lunch", "mess-1"),
		item("item-3", "Aloo Paratha Breakfast", "Fresh aloo paratha with curd and pickle", 2, "Jain", "breakfast", "mess-1"),
		item("item-4", "Chole Bhature", "Spicy chickpea curry with fluffy bhature", 3, "Veg", "breakfast", "mess-1"),

		// Spice Garden
		item("item-5", "Masala Dosa", "Crispy dosa with potato filling, sambar and chutney", 3, "Veg", "breakfast", "mess-2"),
		item("item-6", "Idli Sambar", "Soft idlis served with sambar and coconut chutney", 2, "Veg", "breakfast", "mess-2"),
		item("item-7", "Chicken Biryani", "Aromatic biryani with tender chicken pieces and raita", 6, "Non-Veg", "lunch", "mess-2"),
		item("item-8", "Fish Curry Meal", "Fresh fish curry with rice and rasam", 5, "Non-Veg", "dinner", "mess-2"),

		// Green Leaf
		item("item-9", "Quinoa Salad Bowl", "Healthy quinoa with fresh vegetables and tahini dressing", 4, "Vegan", "lunch", "mess-3"),
		item("item-10", "Brown Rice Thali", "Wholesome thali with brown rice, dal, and seasonal vegetables", 4, "Veg", "lunch", "mess-3"),
		item("item-11", "Oats Porridge", "Healthy oats with fruits and nuts", 2, "Vegan", "breakfast", "mess-3"),

		// Royal Taste
		item("item-12", "Mutton Rogan Josh", "Premium mutton curry with naan and rice", 7, "Halal", "dinner", "mess-4"),
		item("item-13", "Veg Hakka Noodles", "Indo-Chinese style noodles with vegetables", 4, "Veg", "dinner", "mess-4"),
		item("item-14", "Grilled Chicken", "Tandoori chicken with mint chutney and salad", 6, "Halal", "lunch", "mess-4"),

		// Healthy Bites
		item("item-15", "Sprouts Salad", "Mixed sprouts with fresh vegetables and lemon dressing", 3, "Vegan", "snacks", "mess-5"),
		item("item-16", "Whole Wheat Pasta", "Healthy pasta with vegetables and light sauce", 4, "Veg", "lunch", "mess-5"),
	}
}
