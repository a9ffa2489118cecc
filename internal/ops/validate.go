package ops

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/jacksmith/pm/internal/model"
)

// IssueType represents the kind of integrity problem found in the products file.
type IssueType string

const (
	IssueDuplicateID     IssueType = "duplicate_id"
	IssueDuplicateCode   IssueType = "duplicate_code"
	IssueMissingRequired IssueType = "missing_required"
)

// Issue is one integrity problem. Update does not re-check the creation
// rules, and the file may be edited by hand, so these can appear over time.
type Issue struct {
	Type      IssueType
	ProductID int
	Message   string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s - %s", model.FormatID(i.ProductID), i.Type, i.Message)
}

// Validate checks the stored products for duplicate ids, duplicate codes
// and records that would not pass creation. It never modifies the file.
func (ps *ProductStore) Validate(ctx context.Context) ([]Issue, error) {
	_, span := ps.tracer.Start(ctx, "ProductStore.Validate")
	defer span.End()

	products, err := ps.store.Load()
	if err != nil {
		return nil, ps.fail(span, errors.Wrap(err, "validating products"))
	}

	var issues []Issue
	seenIDs := make(map[int]bool)
	seenCodes := make(map[string]int)

	for _, p := range products {
		if seenIDs[p.ID] {
			issues = append(issues, Issue{
				Type:      IssueDuplicateID,
				ProductID: p.ID,
				Message:   "duplicate product ID",
			})
		}
		seenIDs[p.ID] = true

		if p.Code != "" {
			if first, ok := seenCodes[p.Code]; ok {
				issues = append(issues, Issue{
					Type:      IssueDuplicateCode,
					ProductID: p.ID,
					Message:   fmt.Sprintf("code %q already used by %s", p.Code, model.FormatID(first)),
				})
			} else {
				seenCodes[p.Code] = p.ID
			}
		}

		if err := ps.check(newProductFrom(p)); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return nil, ps.fail(span, errors.Wrap(err, "validating products"))
			}
			for _, field := range verr.Fields {
				issues = append(issues, Issue{
					Type:      IssueMissingRequired,
					ProductID: p.ID,
					Message:   fmt.Sprintf("missing required field %s", field),
				})
			}
		}
	}

	span.SetAttributes(
		attribute.Int("product.count", len(products)),
		attribute.Int("issue.count", len(issues)),
	)
	span.SetStatus(codes.Ok, "")
	ps.logger.Debug("products validated", zap.Int("count", len(products)), zap.Int("issues", len(issues)))
	return issues, nil
}

func newProductFrom(p model.Product) NewProduct {
	return NewProduct{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Thumbnail:   p.Thumbnail,
		Code:        p.Code,
		Stock:       p.Stock,
	}
}
