// Package ops implements the product operations on top of the products file.
package ops

import (
	"context"
	"math"
	"reflect"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/jacksmith/pm/internal/model"
	"github.com/jacksmith/pm/internal/storage"
)

// NewProduct contains the fields supplied when creating a product.
// Every field is required and must be non-zero.
type NewProduct struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required"`
	Thumbnail   string  `json:"thumbnail" validate:"required"`
	Code        string  `json:"code" validate:"required"`
	Stock       float64 `json:"stock" validate:"required"`
}

// ProductChanges represents fields that can be updated on a product.
// Nil fields are left untouched. Changes are not validated.
type ProductChanges struct {
	Title       *string
	Description *string
	Price       *float64
	Thumbnail   *string
	Code        *string
	Stock       *float64
}

// IsEmpty reports whether no field is set.
func (c ProductChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Price == nil &&
		c.Thumbnail == nil && c.Code == nil && c.Stock == nil
}

func (c ProductChanges) apply(p *model.Product) {
	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.Thumbnail != nil {
		p.Thumbnail = *c.Thumbnail
	}
	if c.Code != nil {
		p.Code = *c.Code
	}
	if c.Stock != nil {
		p.Stock = *c.Stock
	}
}

// Option configures a ProductStore.
type Option func(*ProductStore)

// WithLogger sets the logger used for operation diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(ps *ProductStore) {
		if l != nil {
			ps.logger = l
		}
	}
}

// WithTracer sets the tracer used to record one span per operation.
func WithTracer(t trace.Tracer) Option {
	return func(ps *ProductStore) {
		if t != nil {
			ps.tracer = t
		}
	}
}

// ProductStore provides create, read, update and delete on products.
// It has no cache and no locking: each call loads the whole file and
// mutating calls rewrite it. Concurrent callers can lose updates.
type ProductStore struct {
	store    Store
	validate *validator.Validate
	logger   *zap.Logger
	tracer   trace.Tracer
}

// New returns a ProductStore backed by s.
func New(s Store, opts ...Option) *ProductStore {
	ps := &ProductStore{
		store:    s,
		validate: newValidator(),
		logger:   zap.NewNop(),
		tracer:   noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(ps)
	}
	return ps
}

// Open returns a ProductStore for the products file at path.
func Open(path string, opts ...Option) *ProductStore {
	return New(storage.New(path), opts...)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Add creates a product and returns its id.
// The id is the last stored product's id plus one, or 1 for an empty store.
func (ps *ProductStore) Add(ctx context.Context, np NewProduct) (int, error) {
	_, span := ps.tracer.Start(ctx, "ProductStore.Add")
	defer span.End()

	span.SetAttributes(attribute.String("product.code", np.Code))

	products, err := ps.store.Load()
	if err != nil {
		return 0, ps.fail(span, errors.Wrap(err, "adding product"))
	}

	if err := ps.check(np); err != nil {
		ps.logger.Info("product rejected", zap.String("code", np.Code), zap.Error(err))
		return 0, ps.fail(span, errors.Wrap(err, "adding product"))
	}

	for _, existing := range products {
		if existing.Code == np.Code {
			err := &DuplicateCodeError{Code: np.Code}
			ps.logger.Info("product rejected", zap.String("code", np.Code), zap.Error(err))
			return 0, ps.fail(span, errors.Wrap(err, "adding product"))
		}
	}

	p := model.Product{
		ID:          model.LastID(products) + 1,
		Title:       np.Title,
		Description: np.Description,
		Price:       np.Price,
		Thumbnail:   np.Thumbnail,
		Code:        np.Code,
		Stock:       np.Stock,
	}
	products = append(products, p)

	if err := ps.store.Save(products); err != nil {
		return 0, ps.fail(span, errors.Wrap(err, "adding product"))
	}

	span.SetAttributes(attribute.Int("product.id", p.ID))
	span.SetStatus(codes.Ok, "")
	ps.logger.Debug("product added", zap.Int("product_id", p.ID), zap.String("code", p.Code))
	return p.ID, nil
}

// List returns all products in storage order.
func (ps *ProductStore) List(ctx context.Context) ([]model.Product, error) {
	_, span := ps.tracer.Start(ctx, "ProductStore.List")
	defer span.End()

	products, err := ps.store.Load()
	if err != nil {
		return nil, ps.fail(span, errors.Wrap(err, "listing products"))
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "")
	ps.logger.Debug("products listed", zap.Int("count", len(products)))
	return products, nil
}

// GetByID returns the first product with the given id.
// Returns *NotFoundError if there is none.
func (ps *ProductStore) GetByID(ctx context.Context, id int) (*model.Product, error) {
	_, span := ps.tracer.Start(ctx, "ProductStore.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	products, err := ps.store.Load()
	if err != nil {
		return nil, ps.fail(span, errors.Wrap(err, "getting product by id"))
	}

	i := model.IndexOf(products, id)
	if i == -1 {
		return nil, ps.fail(span, errors.Wrap(&NotFoundError{ID: id}, "getting product by id"))
	}

	span.SetStatus(codes.Ok, "")
	ps.logger.Debug("product found", zap.Int("product_id", id))
	return &products[i], nil
}

// Update merges changes onto the product with the given id and saves.
// Returns false, without saving, when no product has that id.
func (ps *ProductStore) Update(ctx context.Context, id int, changes ProductChanges) (bool, error) {
	_, span := ps.tracer.Start(ctx, "ProductStore.Update")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	products, err := ps.store.Load()
	if err != nil {
		return false, ps.fail(span, errors.Wrap(err, "updating product"))
	}

	i := model.IndexOf(products, id)
	if i == -1 {
		span.SetAttributes(attribute.Bool("product.found", false))
		span.SetStatus(codes.Ok, "")
		ps.logger.Debug("product to update not found", zap.Int("product_id", id))
		return false, nil
	}

	changes.apply(&products[i])

	if err := ps.store.Save(products); err != nil {
		return false, ps.fail(span, errors.Wrap(err, "updating product"))
	}

	span.SetAttributes(attribute.Bool("product.found", true))
	span.SetStatus(codes.Ok, "")
	ps.logger.Debug("product updated", zap.Int("product_id", id))
	return true, nil
}

// Delete removes every product with the given id and saves the rest.
// It returns true whether or not anything matched.
func (ps *ProductStore) Delete(ctx context.Context, id int) (bool, error) {
	_, span := ps.tracer.Start(ctx, "ProductStore.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	products, err := ps.store.Load()
	if err != nil {
		return false, ps.fail(span, errors.Wrap(err, "deleting product"))
	}

	kept := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	if err := ps.store.Save(kept); err != nil {
		return false, ps.fail(span, errors.Wrap(err, "deleting product"))
	}

	removed := len(products) - len(kept)
	span.SetAttributes(attribute.Int("product.removed", removed))
	span.SetStatus(codes.Ok, "")
	ps.logger.Debug("product deleted", zap.Int("product_id", id), zap.Int("removed", removed))
	return true, nil
}

// check applies the creation rules: every field present and non-zero.
func (ps *ProductStore) check(np NewProduct) error {
	var fields []string

	if err := ps.validate.Struct(np); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
	}

	// NaN and negative zero can slip past "required".
	if falsy(np.Price) && !contains(fields, "price") {
		fields = append(fields, "price")
	}
	if falsy(np.Stock) && !contains(fields, "stock") {
		fields = append(fields, "stock")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (ps *ProductStore) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func falsy(f float64) bool {
	return f == 0 || math.IsNaN(f)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
