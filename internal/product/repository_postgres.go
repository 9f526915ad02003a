package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/storefront-backend/internal/db"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	productSelect = `
		SELECT p.id, p.name, p.description, p.actual_price, p.discounted_price, p.material, p.size,
			p.country_origin, p.care_instructions, p.manufactured_by, p.sku, p.tags, p.category_id,
			p.created_at, p.updated_at, c.id, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
	`
	imagesByProductsQuery = `
		SELECT id, product_id, image_url
		FROM product_images
		WHERE product_id = ANY($1::uuid[])
		ORDER BY product_id, id
	`
	reviewsByProductsQuery = `
		SELECT id, user_id, product_id, rating, comment, created_at
		FROM reviews
		WHERE product_id = ANY($1::uuid[])
		ORDER BY created_at
	`
	insertProductQuery = `
		INSERT INTO products (id, name, description, actual_price, discounted_price, material, size,
			country_origin, care_instructions, manufactured_by, sku, tags, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
	`
	insertImageQuery  = `INSERT INTO product_images (id, product_id, image_url) VALUES ($1, $2, $3)`
	deleteImagesQuery = `DELETE FROM product_images WHERE product_id = $1`
	updateProductQuery = `
		UPDATE products
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			actual_price = COALESCE($4, actual_price),
			discounted_price = CASE WHEN $15::boolean THEN $5 ELSE discounted_price END,
			material = COALESCE($6, material),
			size = COALESCE($7, size),
			country_origin = COALESCE($8, country_origin),
			care_instructions = COALESCE($9, care_instructions),
			manufactured_by = COALESCE($10, manufactured_by),
			sku = COALESCE($11, sku),
			tags = COALESCE($12::text[], tags),
			category_id = COALESCE($13, category_id),
			updated_at = $14
		WHERE id = $1
	`
	deleteProductQuery = `DELETE FROM products WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	query, args := buildListQuery(f)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func buildListQuery(f Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		where = append(where, fmt.Sprintf("$%d = ANY(p.tags)", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}

	query := productSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query + " ORDER BY p.created_at", args
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, productSelect+" WHERE p.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	products := []Product{p}
	if err := r.attachRelations(ctx, products); err != nil {
		return Product{}, err
	}
	return products[0], nil
}

// Create inserts the product and its images in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Product{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	p.ID = uuid.NewString()
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, insertProductQuery,
		p.ID, p.Name, p.Description, p.ActualPrice, p.DiscountedPrice, p.Material, p.Size,
		p.CountryOrigin, p.CareInstructions, p.ManufacturedBy, p.SKU, pq.Array(p.Tags), p.CategoryID, now)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Product{}, ErrCategoryNotFound
		}
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	if err := insertImages(ctx, tx, p.ID, p.Images); err != nil {
		return Product{}, err
	}
	if err := tx.Commit(); err != nil {
		return Product{}, fmt.Errorf("commit: %w", err)
	}
	return r.GetByID(ctx, p.ID)
}

// Update applies patch and, when it carries image urls, replaces the images,
// all in one transaction.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch Patch) (Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Product{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var tags any
	if patch.Tags != nil {
		tags = pq.Array(patch.Tags)
	}
	res, err := tx.ExecContext(ctx, updateProductQuery, id,
		nullString(patch.Name), nullString(patch.Description), nullDecimal(patch.ActualPrice), patch.DiscountedPrice.Value,
		nullString(patch.Material), nullString(patch.Size), nullString(patch.CountryOrigin),
		nullString(patch.CareInstructions), nullString(patch.ManufacturedBy), nullString(patch.SKU),
		tags, nullString(patch.CategoryID), time.Now().UTC(), patch.DiscountedPrice.Set)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Product{}, ErrCategoryNotFound
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Product{}, ErrNotFound
	}

	if patch.ImageURL != nil {
		if _, err := tx.ExecContext(ctx, deleteImagesQuery, id); err != nil {
			return Product{}, fmt.Errorf("delete images: %w", err)
		}
		images := make([]Image, 0, len(patch.ImageURL))
		for _, url := range patch.ImageURL {
			images = append(images, Image{ImageURL: url})
		}
		if err := insertImages(ctx, tx, id, images); err != nil {
			return Product{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Product{}, fmt.Errorf("commit: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func insertImages(ctx context.Context, tx *sql.Tx, productID string, images []Image) error {
	for _, img := range images {
		if _, err := tx.ExecContext(ctx, insertImageQuery, uuid.NewString(), productID, img.ImageURL); err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
	}
	return nil
}

// attachRelations loads images and reviews for all products with one query
// each.
func (r *PostgresRepository) attachRelations(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	index := make(map[string]int, len(products))
	for i := range products {
		ids[i] = products[i].ID
		index[products[i].ID] = i
		products[i].Images = []Image{}
		products[i].Reviews = []Review{}
	}

	rows, err := r.db.QueryContext(ctx, imagesByProductsQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load images: %w", err)
	}
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL); err != nil {
			rows.Close()
			return err
		}
		if i, ok := index[img.ProductID]; ok {
			products[i].Images = append(products[i].Images, img)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.QueryContext(ctx, reviewsByProductsQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return err
		}
		if i, ok := index[rv.ProductID]; ok {
			products[i].Reviews = append(products[i].Reviews, rv)
		}
	}
	return rows.Err()
}

func scanProduct(s rowScanner) (Product, error) {
	var (
		p   Product
		cat CategoryRef
	)
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.ActualPrice, &p.DiscountedPrice, &p.Material, &p.Size,
		&p.CountryOrigin, &p.CareInstructions, &p.ManufacturedBy, &p.SKU, pq.Array(&p.Tags), &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt, &cat.ID, &cat.Name)
	if err != nil {
		return Product{}, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Category = &cat
	return p, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
