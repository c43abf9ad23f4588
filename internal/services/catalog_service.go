package services

import (
	"context"
	"errors"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// MinResolveSimilarity is the lowest Levenshtein similarity accepted by Resolve
const MinResolveSimilarity = 0.8

// CatalogService manages the ingredient reference catalog
type CatalogService interface {
	// Seed inserts refs when the catalog is empty and returns how many were written
	Seed(ctx context.Context, refs []models.IngredientRef) (int, error)
	List(ctx context.Context, category string) ([]models.IngredientRef, error)
	// Resolve finds the catalog entry for a free-text name, exact first then closest spelling
	Resolve(ctx context.Context, name string) (*models.IngredientRef, error)
	Add(ctx context.Context, ref models.IngredientRef) (*models.IngredientRef, error)
}

type catalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) CatalogService {
	return &catalogService{db: db}
}

// CanonicalName lower-cases, NFC-normalizes and collapses whitespace in an ingredient name
func CanonicalName(name string) string {
	return norm.NFC.String(strings.ToLower(strings.Join(strings.Fields(name), " ")))
}

func (s *catalogService) Seed(ctx context.Context, refs []models.IngredientRef) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.IngredientRef{}).Count(&count).Error; err != nil {
		return 0, storageError("count ingredients", err)
	}
	if count > 0 {
		log.WithField("ingredients", count).Debug("Ingredient catalog already seeded")
		return 0, nil
	}

	seeded := make([]models.IngredientRef, 0, len(refs))
	for _, ref := range refs {
		ref.Name = CanonicalName(ref.Name)
		if ref.IngredientID == "" {
			ref.IngredientID = uuid.NewString()
		}
		seeded = append(seeded, ref)
	}
	if len(seeded) == 0 {
		return 0, nil
	}
	if err := s.db.WithContext(ctx).Create(&seeded).Error; err != nil {
		return 0, storageError("seed ingredients", err)
	}
	log.WithField("ingredients", len(seeded)).Info("Ingredient catalog seeded")
	return len(seeded), nil
}

func (s *catalogService) List(ctx context.Context, category string) ([]models.IngredientRef, error) {
	var refs []models.IngredientRef
	query := s.db.WithContext(ctx).Order("name")
	if category != "" {
		query = query.Where("category = ?", strings.ToLower(category))
	}
	if err := query.Find(&refs).Error; err != nil {
		return nil, storageError("list ingredients", err)
	}
	return refs, nil
}

func (s *catalogService) Resolve(ctx context.Context, name string) (*models.IngredientRef, error) {
	canonical := CanonicalName(name)
	if canonical == "" {
		return nil, invalidInput("ingredient name is required")
	}

	var exact models.IngredientRef
	err := s.db.WithContext(ctx).Where("name = ?", canonical).First(&exact).Error
	if err == nil {
		return &exact, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageError("resolve ingredient", err)
	}

	var refs []models.IngredientRef
	if err := s.db.WithContext(ctx).Find(&refs).Error; err != nil {
		return nil, storageError("resolve ingredient", err)
	}

	var best *models.IngredientRef
	bestScore := 0.0
	for i := range refs {
		if score := similarity(canonical, refs[i].Name); score > bestScore {
			best, bestScore = &refs[i], score
		}
	}
	if best == nil || bestScore < MinResolveSimilarity {
		return nil, ErrNotFound
	}
	log.WithFields(logrus.Fields{
		"name":       canonical,
		"resolved":   best.Name,
		"similarity": bestScore,
	}).Debug("Ingredient resolved by spelling")
	return best, nil
}

func (s *catalogService) Add(ctx context.Context, ref models.IngredientRef) (*models.IngredientRef, error) {
	ref.Name = CanonicalName(ref.Name)
	if ref.Name == "" {
		return nil, invalidInput("ingredient name is required")
	}
	ref.Category = strings.ToLower(strings.TrimSpace(ref.Category))
	ref.IngredientID = uuid.NewString()

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.IngredientRef{}).Where("name = ?", ref.Name).Count(&count).Error; err != nil {
		return nil, storageError("find ingredient", err)
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}
	if err := s.db.WithContext(ctx).Create(&ref).Error; err != nil {
		return nil, storageError("create ingredient", err)
	}
	log.WithField("name", ref.Name).Info("Ingredient added to catalog")
	return &ref, nil
}

// similarity is 1 - distance/max(len) in runes, 1.0 for identical strings
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// DefaultCatalog is written on first start
var DefaultCatalog = []models.IngredientRef{
	{Name: "flour", Category: "baking", CommonUnits: []string{"g", "cup"}},
	{Name: "sugar", Category: "baking", CommonUnits: []string{"g", "cup", "tbsp"}},
	{Name: "baking powder", Category: "baking", CommonUnits: []string{"tsp", "g"}},
	{Name: "butter", Category: "dairy", CommonUnits: []string{"g", "tbsp"}},
	{Name: "milk", Category: "dairy", CommonUnits: []string{"ml", "cup"}},
	{Name: "eggs", Category: "dairy", CommonUnits: []string{"piece"}},
	{Name: "parmesan cheese", Category: "dairy", CommonUnits: []string{"g", "cup"}},
	{Name: "mozzarella", Category: "dairy", CommonUnits: []string{"g"}},
	{Name: "spaghetti", Category: "grains", CommonUnits: []string{"g"}},
	{Name: "rice", Category: "grains", CommonUnits: []string{"g", "cup"}},
	{Name: "bread", Category: "grains", CommonUnits: []string{"slice", "piece"}},
	{Name: "bacon", Category: "meat", CommonUnits: []string{"g", "slice"}},
	{Name: "chicken breast", Category: "meat", CommonUnits: []string{"g", "piece"}},
	{Name: "ground beef", Category: "meat", CommonUnits: []string{"g", "lb"}},
	{Name: "salmon", Category: "seafood", CommonUnits: []string{"g"}},
	{Name: "tofu", Category: "protein", CommonUnits: []string{"g"}},
	{Name: "tomato", Category: "produce", CommonUnits: []string{"piece", "g"}},
	{Name: "onion", Category: "produce", CommonUnits: []string{"piece"}},
	{Name: "garlic", Category: "produce", CommonUnits: []string{"clove"}},
	{Name: "basil", Category: "produce", CommonUnits: []string{"g", "piece"}},
	{Name: "lemon", Category: "produce", CommonUnits: []string{"piece"}},
	{Name: "potato", Category: "produce", CommonUnits: []string{"piece", "g"}},
	{Name: "spinach", Category: "produce", CommonUnits: []string{"g", "cup"}},
	{Name: "olive oil", Category: "pantry", CommonUnits: []string{"ml", "tbsp"}},
	{Name: "black pepper", Category: "spices", CommonUnits: []string{"tsp", "g"}},
	{Name: "salt", Category: "spices", CommonUnits: []string{"tsp", "g"}},
	{Name: "cumin", Category: "spices", CommonUnits: []string{"tsp"}},
	{Name: "soy sauce", Category: "condiments", CommonUnits: []string{"ml", "tbsp"}},
}
