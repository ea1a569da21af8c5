package service

import (
	"bytes"
	"context"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShoppingListItem is one consolidated line of the shopping list.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingListService flattens a user's cart recipes to ingredient lines and
// renders them as a downloadable PDF. Nothing is persisted; the document is
// produced per request.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate collects every ingredient of every recipe in the user's cart and
// sums amounts of entries sharing an ingredient name. Output order is the
// first-encountered order across the cart.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	type row struct {
		Name            string
		MeasurementUnit string
		Amount          int
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Table("shopping_cart_items").
		Select("ingredients.name, ingredients.measurement_unit, ingredient_quantities.amount").
		Joins("JOIN ingredient_quantities ON ingredient_quantities.recipe_id = shopping_cart_items.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = ingredient_quantities.ingredient_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Order("shopping_cart_items.created_at, ingredients.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(rows))
	items := make([]ShoppingListItem, 0, len(rows))
	for _, r := range rows {
		if i, ok := index[r.Name]; ok {
			items[i].Amount += r.Amount
			continue
		}
		index[r.Name] = len(items)
		items = append(items, ShoppingListItem{
			Name:            r.Name,
			MeasurementUnit: r.MeasurementUnit,
			Amount:          r.Amount,
		})
	}
	return items, nil
}

// RenderPDF draws the consolidated list, one line per ingredient, paginating
// automatically.
func (s *ShoppingListService) RenderPDF(items []ShoppingListItem) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Shopping list")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(110, 8, "Ingredient", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Unit", "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	for _, item := range items {
		pdf.CellFormat(110, 8, item.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, strconv.Itoa(item.Amount), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, item.MeasurementUnit, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
