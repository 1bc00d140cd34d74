package app

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/ports"
)

// CreateCategory stores a category. The slug is derived from title when
// blank and suffixed until unique.
func (l *Ledger) CreateCategory(ctx context.Context, title, slug string) (domain.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Category{}, domain.NewValidation("category title is required")
	}
	if slug == "" {
		slug = title
	}
	base := domain.Slugify(slug)
	if base == "" {
		return domain.Category{}, domain.NewValidationf("cannot derive a slug from %q", slug)
	}

	c := domain.Category{ID: uuid.NewString(), Title: title}
	err := l.retryUnique(ctx, "create_category", func(tx ports.Repository, attempt int) error {
		c.Slug = domain.SlugCandidate(base, attempt)
		return tx.CreateCategory(ctx, &c)
	})
	if err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (l *Ledger) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return l.store.ListCategories(ctx)
}

// CreateProduct stores a product of vendorID with a unique slug and SKU.
// Products are published unless the input says otherwise.
func (l *Ledger) CreateProduct(ctx context.Context, vendorID string, in domain.ProductInput) (p domain.Product, err error) {
	ctx, span := startSpan(ctx, "Ledger.CreateProduct", attribute.String("vendor.id", vendorID))
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return domain.Product{}, err
	}
	base := domain.Slugify(in.Name)
	if base == "" {
		base = "product"
	}
	if in.Status == "" {
		in.Status = domain.ProductPublished
	}

	p = domain.Product{
		ID:           uuid.NewString(),
		VendorID:     vendorID,
		CategoryID:   in.CategoryID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        domain.RoundMoney(in.Price),
		RegularPrice: domain.RoundMoney(in.RegularPrice),
		Stock:        in.Stock,
		Shipping:     domain.RoundMoney(in.Shipping),
		Status:       in.Status,
		Featured:     in.Featured,
		CreatedAt:    l.now(),
	}
	err = l.retryUnique(ctx, "create_product", func(tx ports.Repository, attempt int) error {
		if _, err := tx.GetVendor(ctx, vendorID); err != nil {
			return err
		}
		if p.CategoryID != "" {
			if _, err := tx.GetCategory(ctx, p.CategoryID); err != nil {
				return err
			}
		}
		p.Slug = domain.SlugCandidate(base, attempt)
		p.SKU = domain.SKUPrefix + domain.NumericCode(domain.SKUDigits)
		return tx.CreateProduct(ctx, &p)
	})
	if err != nil {
		return domain.Product{}, err
	}
	l.log.InfoContext(ctx, "product created", "product_id", p.ID, "slug", p.Slug, "sku", p.SKU)
	return p, nil
}

func (l *Ledger) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return l.store.GetProduct(ctx, id)
}

func (l *Ledger) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	return l.store.GetProductBySlug(ctx, slug)
}

func (l *Ledger) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	return l.store.ListProducts(ctx, f)
}

// UpdateProductPricing changes price, regular price and stock. Cart lines
// show the old price until they are updated; checkout charges the new one.
func (l *Ledger) UpdateProductPricing(ctx context.Context, id string, price, regularPrice decimal.Decimal, stock int) (domain.Product, error) {
	in := domain.ProductInput{Name: "-", Price: price, RegularPrice: regularPrice, Stock: stock}
	if err := in.Validate(); err != nil {
		return domain.Product{}, err
	}

	var p domain.Product
	err := l.store.WithTx(ctx, func(tx ports.Repository) error {
		if err := tx.UpdateProductPricing(ctx, id, domain.RoundMoney(price), domain.RoundMoney(regularPrice), stock); err != nil {
			return err
		}
		var err error
		p, err = tx.GetProduct(ctx, id)
		return err
	})
	return p, err
}

// AddVariant stores a variant of productID with its option items.
func (l *Ledger) AddVariant(ctx context.Context, productID, name string, items []domain.VariantItem) (domain.Variant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Variant{}, domain.NewValidation("variant name is required")
	}

	v := domain.Variant{ID: uuid.NewString(), ProductID: productID, Name: name}
	for _, it := range items {
		if strings.TrimSpace(it.Title) == "" {
			return domain.Variant{}, domain.NewValidation("variant item title is required")
		}
		it.ID = uuid.NewString()
		it.VariantID = v.ID
		v.Items = append(v.Items, it)
	}

	err := l.store.WithTx(ctx, func(tx ports.Repository) error {
		if _, err := tx.GetProduct(ctx, productID); err != nil {
			return err
		}
		return tx.CreateVariant(ctx, &v)
	})
	if err != nil {
		return domain.Variant{}, err
	}
	return v, nil
}

func (l *Ledger) ListVariants(ctx context.Context, productID string) ([]domain.Variant, error) {
	return l.store.ListVariants(ctx, productID)
}

// AddGalleryImage records an image reference for productID. The image itself
// is stored elsewhere.
func (l *Ledger) AddGalleryImage(ctx context.Context, productID, image string) (domain.GalleryImage, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return domain.GalleryImage{}, domain.NewValidation("image reference is required")
	}

	g := domain.GalleryImage{ID: uuid.NewString(), ProductID: productID, Image: image}
	err := l.retryUnique(ctx, "add_gallery_image", func(tx ports.Repository, _ int) error {
		if _, err := tx.GetProduct(ctx, productID); err != nil {
			return err
		}
		g.Code = domain.NumericCode(domain.GalleryCodeDigits)
		return tx.AddGalleryImage(ctx, &g)
	})
	if err != nil {
		return domain.GalleryImage{}, err
	}
	return g, nil
}

func (l *Ledger) ListGallery(ctx context.Context, productID string) ([]domain.GalleryImage, error) {
	return l.store.ListGallery(ctx, productID)
}
