package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

func (r *repo) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := r.exec(ctx, `INSERT INTO categories (id, title, slug) VALUES (?, ?, ?)`, c.ID, c.Title, c.Slug)
	if err != nil {
		return fmt.Errorf("sqlstore: create category %q: %w", c.Slug, err)
	}
	return nil
}

func (r *repo) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	err := r.queryRow(ctx, `SELECT id, title, slug FROM categories WHERE id = ?`, id).Scan(&c.ID, &c.Title, &c.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, domain.NewNotFound("category", id)
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("sqlstore: get category %q: %w", id, err)
	}
	return c, nil
}

func (r *repo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.query(ctx, `SELECT id, title, slug FROM categories ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const productColumns = `id, vendor_id, COALESCE(category_id, ''), name, description, price, regular_price,
	stock, shipping, status, featured, sku, slug, created_at`

func scanProduct(s scanner) (domain.Product, error) {
	var p domain.Product
	err := s.Scan(&p.ID, &p.VendorID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.RegularPrice,
		&p.Stock, &p.Shipping, &p.Status, &p.Featured, &p.SKU, &p.Slug, timeCol{&p.CreatedAt})
	return p, err
}

func (r *repo) CreateProduct(ctx context.Context, p *domain.Product) error {
	const q = `
		INSERT INTO products
			(id, vendor_id, category_id, name, description, price, regular_price,
			 stock, shipping, status, featured, sku, slug, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.exec(ctx, q, p.ID, p.VendorID, nullable(p.CategoryID), p.Name, p.Description,
		p.Price, p.RegularPrice, p.Stock, p.Shipping, string(p.Status), p.Featured, p.SKU, p.Slug,
		r.d.ts(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlstore: create product %q: %w", p.Slug, err)
	}
	return nil
}

func (r *repo) getProduct(ctx context.Context, where string, arg any) (domain.Product, error) {
	row := r.queryRow(ctx, `SELECT `+productColumns+` FROM products WHERE `+where, arg)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.NewNotFound("product", fmt.Sprint(arg))
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("sqlstore: get product %v: %w", arg, err)
	}
	return p, nil
}

func (r *repo) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return r.getProduct(ctx, `id = ?`, id)
}

func (r *repo) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	return r.getProduct(ctx, `slug = ?`, slug)
}

func (r *repo) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	var (
		conds []string
		args  []any
	)
	if f.CategoryID != "" {
		conds = append(conds, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.VendorID != "" {
		conds = append(conds, "vendor_id = ?")
		args = append(args, f.VendorID)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Featured != nil {
		conds = append(conds, "featured = ?")
		args = append(args, *f.Featured)
	}

	q := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY created_at DESC, id`

	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) UpdateProductPricing(ctx context.Context, id string, price, regularPrice decimal.Decimal, stock int) error {
	err := r.execOne(ctx, `UPDATE products SET price = ?, regular_price = ?, stock = ? WHERE id = ?`,
		price, regularPrice, stock, id)
	if errors.Is(err, errNoRows) {
		return domain.NewNotFound("product", id)
	}
	if err != nil {
		return fmt.Errorf("sqlstore: update product %q: %w", id, err)
	}
	return nil
}

func (r *repo) TakeStock(ctx context.Context, productID string, qty int) error {
	err := r.execOne(ctx, `UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`, qty, productID, qty)
	if errors.Is(err, errNoRows) {
		p, gerr := r.GetProduct(ctx, productID)
		if gerr != nil {
			return gerr
		}
		return domain.ErrOutOfStock.Withf("product %s: requested %d, available %d", productID, qty, p.Stock)
	}
	if err != nil {
		return fmt.Errorf("sqlstore: take stock of %q: %w", productID, err)
	}
	return nil
}

func (r *repo) CreateVariant(ctx context.Context, v *domain.Variant) error {
	if _, err := r.exec(ctx, `INSERT INTO variants (id, product_id, name) VALUES (?, ?, ?)`,
		v.ID, v.ProductID, v.Name); err != nil {
		return fmt.Errorf("sqlstore: create variant: %w", err)
	}
	for _, it := range v.Items {
		if _, err := r.exec(ctx, `INSERT INTO variant_items (id, variant_id, title, content) VALUES (?, ?, ?, ?)`,
			it.ID, v.ID, it.Title, it.Content); err != nil {
			return fmt.Errorf("sqlstore: create variant item: %w", err)
		}
	}
	return nil
}

func (r *repo) ListVariants(ctx context.Context, productID string) ([]domain.Variant, error) {
	const q = `
		SELECT v.id, v.product_id, v.name, COALESCE(i.id, ''), COALESCE(i.title, ''), COALESCE(i.content, '')
		FROM   variants v
		LEFT JOIN variant_items i ON i.variant_id = v.id
		WHERE  v.product_id = ?
		ORDER  BY v.name, v.id, i.title`
	rows, err := r.query(ctx, q, productID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list variants: %w", err)
	}
	defer rows.Close()

	var out []domain.Variant
	for rows.Next() {
		var v domain.Variant
		var it domain.VariantItem
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &it.ID, &it.Title, &it.Content); err != nil {
			return nil, err
		}
		if n := len(out); n == 0 || out[n-1].ID != v.ID {
			out = append(out, v)
		}
		if it.ID != "" {
			it.VariantID = v.ID
			last := &out[len(out)-1]
			last.Items = append(last.Items, it)
		}
	}
	return out, rows.Err()
}

func (r *repo) AddGalleryImage(ctx context.Context, g *domain.GalleryImage) error {
	_, err := r.exec(ctx, `INSERT INTO gallery_images (id, product_id, image, code) VALUES (?, ?, ?, ?)`,
		g.ID, g.ProductID, g.Image, g.Code)
	if err != nil {
		return fmt.Errorf("sqlstore: add gallery image: %w", err)
	}
	return nil
}

func (r *repo) ListGallery(ctx context.Context, productID string) ([]domain.GalleryImage, error) {
	rows, err := r.query(ctx, `SELECT id, product_id, image, code FROM gallery_images WHERE product_id = ? ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list gallery: %w", err)
	}
	defer rows.Close()

	var out []domain.GalleryImage
	for rows.Next() {
		var g domain.GalleryImage
		if err := rows.Scan(&g.ID, &g.ProductID, &g.Image, &g.Code); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
