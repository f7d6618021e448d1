package services

import (
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) List(category, q string, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 24
	}
	if offset < 0 {
		offset = 0
	}
	return s.Prods.List(category, strings.ToLower(q), limit, offset)
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

func (s *CatalogService) GetBySlug(slug string) (domain.Product, error) {
	return s.Prods.GetBySlug(slug)
}

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Cost        float64
	Category    string
	Brand       string
	SKU         string
	Quantity    int
	ImagesJSON  string
	Active      bool
}

// Create inserts a product; the slug is derived from the name here, as an
// explicit step rather than a persistence hook.
func (s *CatalogService) Create(in ProductInput) (domain.Product, error) {
	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Slug:        Slugify(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Cost:        in.Cost,
		Category:    in.Category,
		Brand:       in.Brand,
		SKU:         in.SKU,
		Quantity:    in.Quantity,
		ImagesJSON:  in.ImagesJSON,
		Active:      in.Active,
	}
	if p.ImagesJSON == "" {
		p.ImagesJSON = "[]"
	}
	if err := s.Prods.Insert(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

// Update rewrites mutable product fields, regenerating the slug when the name
// changes. Quantity and sold are not touched here; stock moves through the
// inventory ledger.
func (s *CatalogService) Update(id string, in ProductInput) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	p.Name = in.Name
	p.Slug = Slugify(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Cost = in.Cost
	p.Category = in.Category
	p.Brand = in.Brand
	if in.ImagesJSON != "" {
		p.ImagesJSON = in.ImagesJSON
	}
	p.Active = in.Active
	if err := s.Prods.Update(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(id)
}

func (s *CatalogService) Delete(id string) error {
	return s.Prods.Delete(id)
}

// Slugify lowercases a name and collapses runs of non-alphanumerics to single
// hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // trim leading hyphens
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
