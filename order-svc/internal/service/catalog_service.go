package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"

	"github.com/lemon630/order-meal/order-svc/internal/domain"
	"github.com/lemon630/order-meal/order-svc/internal/storage"
)

const MinPrice = 1.0

var (
	ErrInvalidDish  = errors.New("invalid dish")
	ErrDishNotFound = errors.New("dish not found")
)

// DefaultMenu is written to an empty menu table on first start.
var DefaultMenu = []domain.NewDish{
	{Name: "熔岩芝士牛肉堡", Price: 88, Category: "主菜", Image: "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=800"},
	{Name: "加州阳光鲜橙汁", Price: 32, Category: "饮品", Image: "https://images.unsplash.com/photo-1613478223719-2ab802602423?w=800"},
	{Name: "西西里罗勒意面", Price: 68, Category: "主食", Image: "https://images.unsplash.com/photo-1621996346529-cd287300f69a?w=800"},
	{Name: "脆皮炸鸡分享桶", Price: 55, Category: "小吃", Image: "https://images.unsplash.com/photo-1626082927389-6cd097cdc6ec?w=800"},
}

type CatalogService struct {
	repo       MenuRepository
	images     *ImageEmbedder
	categories []string
}

// NewCatalogService builds the catalog. An empty categories list accepts any
// non-empty label.
func NewCatalogService(repo MenuRepository, images *ImageEmbedder, categories []string) *CatalogService {
	return &CatalogService{repo: repo, images: images, categories: categories}
}

func (s *CatalogService) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.ListMenuItems(ctx)
}

func (s *CatalogService) GetDish(ctx context.Context, id int) (*domain.MenuItem, error) {
	item, err := s.repo.GetMenuItem(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrDishNotFound
	}
	return item, err
}

func (s *CatalogService) AddDish(ctx context.Context, dish domain.NewDish) (*domain.MenuItem, error) {
	dish.Name = strings.TrimSpace(dish.Name)
	dish.Category = strings.TrimSpace(dish.Category)
	dish.Image = strings.TrimSpace(dish.Image)
	dish.Description = strings.TrimSpace(dish.Description)

	if err := s.validate(dish); err != nil {
		return nil, err
	}

	item, err := s.repo.CreateMenuItem(ctx, &dish)
	if err != nil {
		return nil, fmt.Errorf("create dish: %w", err)
	}
	log.Printf("[order-svc] added dish id=%d name=%q category=%q", item.ID, item.Name, item.Category)
	return item, nil
}

func (s *CatalogService) validate(dish domain.NewDish) error {
	if dish.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDish)
	}
	if dish.Price < MinPrice {
		return fmt.Errorf("%w: price must be at least %.0f", ErrInvalidDish, MinPrice)
	}
	if dish.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidDish)
	}
	if len(s.categories) > 0 && !contains(s.categories, dish.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidDish, dish.Category)
	}
	if dish.Image == "" {
		return fmt.Errorf("%w: image is required", ErrInvalidDish)
	}
	if !validImage(dish.Image) {
		return fmt.Errorf("%w: image must be an http(s) URL or an embedded image", ErrInvalidDish)
	}
	return nil
}

// DeleteDish removes the dish if it exists. Past orders keep their own copy of
// the line data and are not touched.
func (s *CatalogService) DeleteDish(ctx context.Context, id int) error {
	rows, err := s.repo.DeleteMenuItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete dish %d: %w", id, err)
	}
	if rows == 0 {
		log.Printf("[order-svc] delete dish id=%d: not present, nothing to do", id)
		return nil
	}
	log.Printf("[order-svc] deleted dish id=%d", id)
	return nil
}

func (s *CatalogService) EmbedImage(r io.Reader, width int) (*EmbeddedImage, error) {
	return s.images.Embed(r, width)
}

func (s *CatalogService) AllowedCategories() []string {
	return s.categories
}

// Seed fills an empty menu with DefaultMenu.
func (s *CatalogService) Seed(ctx context.Context) error {
	n, err := s.repo.SeedMenu(ctx, DefaultMenu)
	if err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}
	if n > 0 {
		log.Printf("[order-svc] seeded %d default dishes", n)
	}
	return nil
}

// FilterMenu keeps items whose category equals category ("all" or empty keeps
// everything) and whose name contains search, ignoring case.
func FilterMenu(items []domain.MenuItem, category, search string) []domain.MenuItem {
	search = strings.ToLower(strings.TrimSpace(search))
	filtered := []domain.MenuItem{}
	for _, item := range items {
		if category != "" && category != domain.CategoryAll && item.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// Categories returns the distinct category labels in first-seen order.
func Categories(items []domain.MenuItem) []string {
	seen := map[string]bool{}
	cats := []string{}
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			cats = append(cats, item.Category)
		}
	}
	return cats
}

func validImage(image string) bool {
	if strings.HasPrefix(image, "data:image/") {
		return strings.Contains(image, ";base64,")
	}
	u, err := url.Parse(image)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
