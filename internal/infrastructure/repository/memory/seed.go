package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mrops-br/chaverito-api/internal/domain"
)

// seedID derives a stable ID from a slug so that carts stored on disk keep
// pointing at the same products across restarts
func seedID(kind, slug string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("chaverito:"+kind+":"+slug)).String()
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sale(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// Seed fills the repository with the storefront catalog
func (r *CatalogRepository) Seed(ctx context.Context) error {
	categories := []*domain.Category{
		{Slug: "stitch", Name: "Stitch", Description: "O experimento 626 mais fofo da galáxia", ColorTheme: "#4FA3E0", SortOrder: 1},
		{Slug: "toothless", Name: "Toothless", Description: "Fúrias da Noite para acompanhar suas chaves", ColorTheme: "#2D2D3A", SortOrder: 2},
		{Slug: "bt21", Name: "BT21", Description: "Koya, Tata, Chimmy e toda a turma", ColorTheme: "#B89BE0", SortOrder: 3},
		{Slug: "pokemon", Name: "Pokémon", Description: "Temos que pegar todos", ColorTheme: "#F2C94C", SortOrder: 4},
		{Slug: "skzoo", Name: "SKZOO", Description: "Os mascotes do Stray Kids", ColorTheme: "#E07A5F", SortOrder: 5},
		{Slug: "labubu", Name: "Labubu", Description: "Monstrinhos travessos colecionáveis", ColorTheme: "#81B29A", SortOrder: 6},
	}
	for _, c := range categories {
		c.ID = seedID("category", c.Slug)
		c.IsActive = true
		r.PutCategory(ctx, c)
	}

	products := []*domain.Product{
		{
			CategoryID: "stitch", Slug: "stitch-classic", Name: "Chaveiro Stitch Fofo",
			ShortDescription: "O Stitch clássico em acrílico resistente",
			Description:      "Chaveiro do Stitch em acrílico com argola de metal reforçada.",
			Price:            price("29.90"), StockQuantity: 25, Dimensions: "5 x 4 cm", WeightGrams: 12,
			ImageRef: "/assets/stitch-keychain.jpg", SortOrder: 1,
		},
		{
			CategoryID: "stitch", Slug: "stitch-angel", Name: "Chaveiro Angel",
			ShortDescription: "A namorada do Stitch",
			Price:            price("29.90"), SalePrice: sale("24.90"), StockQuantity: 6, Dimensions: "5 x 4 cm", WeightGrams: 12,
			SortOrder: 2,
		},
		{
			CategoryID: "toothless", Slug: "toothless-night-fury", Name: "Chaveiro Toothless Dragão",
			ShortDescription: "O Fúria da Noite mais querido",
			Description:      "Chaveiro do Banguela em PVC emborrachado.",
			Price:            price("34.90"), StockQuantity: 18, Dimensions: "6 x 4 cm", WeightGrams: 15,
			ImageRef: "/assets/toothless-keychain.jpg", SortOrder: 1,
		},
		{
			CategoryID: "bt21", Slug: "koya-bear-bt21", Name: "Chaveiro Koya BT21",
			ShortDescription: "O coala sonolento do BT21",
			Price:            price("32.90"), SalePrice: sale("27.90"), StockQuantity: 9, Dimensions: "5 x 5 cm", WeightGrams: 14,
			ImageRef: "/assets/bt21-keychain.jpg", SortOrder: 1,
		},
		{
			CategoryID: "pokemon", Slug: "pikachu-classic", Name: "Chaveiro Pikachu",
			ShortDescription: "Pikachu eu escolho você",
			Price:            price("27.90"), StockQuantity: 40, Dimensions: "5 x 4 cm", WeightGrams: 11,
			ImageRef: "/assets/pokemon-keychain.jpg", SortOrder: 1,
		},
		{
			CategoryID: "skzoo", Slug: "wolf-chan-skzoo", Name: "Chaveiro Wolf Chan",
			ShortDescription: "O lobinho do SKZOO",
			Price:            price("36.90"), StockQuantity: 0, Dimensions: "6 x 5 cm", WeightGrams: 16,
			SortOrder: 1,
		},
		{
			CategoryID: "labubu", Slug: "labubu-classic", Name: "Chaveiro Labubu",
			ShortDescription: "O monstrinho mais desejado",
			Price:            price("49.90"), SalePrice: sale("44.90"), StockQuantity: 3, Dimensions: "7 x 4 cm", WeightGrams: 20,
			SortOrder: 1,
		},
	}
	for _, p := range products {
		p.ID = seedID("product", p.Slug)
		p.CategoryID = seedID("category", p.CategoryID)
		p.IsActive = true
		if err := r.PutProduct(ctx, p); err != nil {
			return err
		}
	}

	return nil
}
