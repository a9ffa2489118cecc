package ops

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jacksmith/pm/internal/model"
	"github.com/jacksmith/pm/internal/storage"
)

// setupTestStore creates a ProductStore on a fresh products file path.
// The file itself is not created.
func setupTestStore(t *testing.T) (*ProductStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.json")
	return Open(path), path
}

func rayban() NewProduct {
	return NewProduct{
		Title:       "Rayban",
		Description: "Gafas de sol de alta calidad",
		Price:       150,
		Thumbnail:   "rayban.jpg",
		Code:        "RB001",
		Stock:       50,
	}
}

func oakley() NewProduct {
	return NewProduct{
		Title:       "Oakley",
		Description: "Gafas deportivas resistentes",
		Price:       120,
		Thumbnail:   "oakley.jpg",
		Code:        "OK001",
		Stock:       30,
	}
}

func bulgari() NewProduct {
	return NewProduct{
		Title:       "Bulgari",
		Description: "Gafas de diseño elegante",
		Price:       200,
		Thumbnail:   "bulgari.jpg",
		Code:        "BL001",
		Stock:       20,
	}
}

// readFile returns the raw products file, or "" if it does not exist.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// TestAddAssignsIDs tests id assignment on an empty and non-empty store.
func TestAddAssignsIDs(t *testing.T) {
	ps, _ := setupTestStore(t)
	ctx := context.Background()

	for i, np := range []NewProduct{rayban(), oakley(), bulgari()} {
		id, err := ps.Add(ctx, np)
		if err != nil {
			t.Fatalf("Add(%s) failed: %v", np.Code, err)
		}
		if id != i+1 {
			t.Errorf("expected id %d for %s, got %d", i+1, np.Code, id)
		}
	}
}

// TestAddUsesLastID tests that new ids follow the last stored record,
// not the maximum id.
func TestAddUsesLastID(t *testing.T) {
	_, path := setupTestStore(t)
	seed := []model.Product{
		{ID: 9, Title: "A", Description: "a", Price: 1, Thumbnail: "a.jpg", Code: "A", Stock: 1},
		{ID: 4, Title: "B", Description: "b", Price: 1, Thumbnail: "b.jpg", Code: "B", Stock: 1},
	}
	if err := model.SaveProducts(path, seed); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	ps := Open(path)
	id, err := ps.Add(context.Background(), rayban())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id != 5 {
		t.Errorf("expected id 5 (last id 4 + 1), got %d", id)
	}
}

// TestAddPersists tests that the new record is appended to the file.
func TestAddPersists(t *testing.T) {
	ps, path := setupTestStore(t)
	ctx := context.Background()

	if _, err := ps.Add(ctx, rayban()); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := ps.Add(ctx, oakley()); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	products, err := model.LoadProducts(path)
	if err != nil {
		t.Fatalf("failed to load file: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products on disk, got %d", len(products))
	}
	want := model.Product{ID: 2, Title: "Oakley", Description: "Gafas deportivas resistentes", Price: 120, Thumbnail: "oakley.jpg", Code: "OK001", Stock: 30}
	if products[1] != want {
		t.Errorf("expected %+v, got %+v", want, products[1])
	}
}

// TestAddDuplicateCode tests that a repeated code is rejected without writing.
func TestAddDuplicateCode(t *testing.T) {
	ps, path := setupTestStore(t)
	ctx := context.Background()

	if _, err := ps.Add(ctx, rayban()); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	before := readFile(t, path)

	dup := oakley()
	dup.Code = "RB001"
	_, err := ps.Add(ctx, dup)
	if err == nil {
		t.Fatal("expected error for duplicate code")
	}

	var dupErr *DuplicateCodeError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateCodeError, got %T: %v", err, err)
	}
	if dupErr.Code != "RB001" {
		t.Errorf("expected code RB001, got %q", dupErr.Code)
	}
	if got := err.Error(); got != `adding product: product code "RB001" already exists` {
		t.Errorf("unexpected message %q", got)
	}
	if after := readFile(t, path); after != before {
		t.Error("file changed after rejected add")
	}
}

// TestAddValidation tests the presence and truthiness checks.
func TestAddValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewProduct)
		fields []string
	}{
		{"missing title", func(p *NewProduct) { p.Title = "" }, []string{"title"}},
		{"missing description", func(p *NewProduct) { p.Description = "" }, []string{"description"}},
		{"zero price", func(p *NewProduct) { p.Price = 0 }, []string{"price"}},
		{"missing thumbnail", func(p *NewProduct) { p.Thumbnail = "" }, []string{"thumbnail"}},
		{"missing code", func(p *NewProduct) { p.Code = "" }, []string{"code"}},
		{"zero stock", func(p *NewProduct) { p.Stock = 0 }, []string{"stock"}},
		{"NaN stock", func(p *NewProduct) { p.Stock = math.NaN() }, []string{"stock"}},
		{"negative zero stock", func(p *NewProduct) { p.Stock = math.Copysign(0, -1) }, []string{"stock"}},
		{"several fields", func(p *NewProduct) { p.Title = ""; p.Stock = 0 }, []string{"title", "stock"}},
		{"everything empty", func(p *NewProduct) { *p = NewProduct{} }, []string{"title", "description", "price", "thumbnail", "code", "stock"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, path := setupTestStore(t)

			np := rayban()
			tt.mutate(&np)

			_, err := ps.Add(context.Background(), np)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if !reflect.DeepEqual(verr.Fields, tt.fields) {
				t.Errorf("expected fields %v, got %v", tt.fields, verr.Fields)
			}
			if readFile(t, path) != "" {
				t.Error("rejected add must not create the file")
			}
		})
	}
}

// TestAddNegativeValuesAreTruthy tests that only zero counts as missing.
func TestAddNegativeValuesAreTruthy(t *testing.T) {
	ps, _ := setupTestStore(t)

	np := rayban()
	np.Price = -1
	np.Stock = -3
	if _, err := ps.Add(context.Background(), np); err != nil {
		t.Errorf("negative price and stock should be accepted: %v", err)
	}
}

// TestFractionalStock tests that a file holding a non-integer stock stays usable.
func TestFractionalStock(t *testing.T) {
	ps, path := setupTestStore(t)
	ctx := context.Background()

	content := `[{"id":1,"title":"Rayban","description":"d","price":150,"thumbnail":"r.jpg","code":"RB001","stock":2.5}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	products, err := ps.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(products) != 1 || products[0].Stock != 2.5 {
		t.Fatalf("expected one product with stock 2.5, got %+v", products)
	}

	np := oakley()
	np.Stock = 0.5
	id, err := ps.Add(ctx, np)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id != 2 {
		t.Errorf("expected id 2, got %d", id)
	}

	p, err := ps.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if p.Stock != 2.5 {
		t.Errorf("existing stock changed to %v", p.Stock)
	}
}

// TestList tests listing in storage order.
func TestList(t *testing.T) {
	ps, _ := setupTestStore(t)
	ctx := context.Background()

	products, err := ps.List(ctx)
	if err != nil {
		t.Fatalf("List on missing file failed: %v", err)
	}
	if products == nil || len(products) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", products)
	}

	for _, np := range []NewProduct{rayban(), oakley(), bulgari()} {
		if _, err := ps.Add(ctx, np); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	products, err = ps.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	codes := []string{}
	for _, p := range products {
		codes = append(codes, p.Code)
	}
	if !reflect.DeepEqual(codes, []string{"RB001", "OK001", "BL001"}) {
		t.Errorf("unexpected order %v", codes)
	}
}

// TestGetByID tests lookup by id.
func TestGetByID(t *testing.T) {
	ps, _ := setupTestStore(t)
	ctx := context.Background()

	if _, err := ps.Add(ctx, rayban()); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	p, err := ps.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if p.Title != "Rayban" || p.Code != "RB001" || p.ID != 1 {
		t.Errorf("unexpected product %+v", p)
	}

	_, err = ps.GetByID(ctx, 99)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != 99 {
		t.Errorf("expected ID 99 in error, got %d", nf.ID)
	}
	if err.Error() != "getting product by id: product 99 not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

// TestGetByIDFirstMatch tests that duplicated ids resolve to the first record.
func TestGetByIDFirstMatch(t *testing.T) {
	_, path := setupTestStore(t)
	seed := []model.Product{{ID: 1, Title: "first"}, {ID: 1, Title: "second"}}
	if err := model.SaveProducts(path, seed); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	p, err := Open(path).GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if p.Title != "first" {
		t.Errorf("expected first match, got %q", p.Title)
	}
}

// TestUpdate tests partial updates.
func TestUpdate(t *testing.T) {
	ps, path := setupTestStore(t)
	ctx := context.Background()

	for _, np := range []NewProduct{rayban(), oakley()} {
		if _, err := ps.Add(ctx, np); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	price := 170.0
	ok, err := ps.Update(ctx, 1, ProductChanges{Price: &price})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !ok {
		t.Fatal("expected Update to report true")
	}

	p, _ := ps.GetByID(ctx, 1)
	want := model.Product{ID: 1, Title: "Rayban", Description: "Gafas de sol de alta calidad", Price: 170, Thumbnail: "rayban.jpg", Code: "RB001", Stock: 50}
	if *p != want {
		t.Errorf("expected %+v, got %+v", want, *p)
	}

	other, _ := ps.GetByID(ctx, 2)
	if other.Price != 120 {
		t.Errorf("other product changed: %+v", other)
	}

	// Missing id is a soft failure.
	before := readFile(t, path)
	ok, err = ps.Update(ctx, 42, ProductChanges{Price: &price})
	if err != nil {
		t.Fatalf("Update on missing id returned error: %v", err)
	}
	if ok {
		t.Error("expected Update on missing id to report false")
	}
	if readFile(t, path) != before {
		t.Error("file changed after update of missing id")
	}
}

// TestUpdateSkipsValidation tests that updates may break creation rules.
func TestUpdateSkipsValidation(t *testing.T) {
	ps, _ := setupTestStore(t)
	ctx := context.Background()

	for _, np := range []NewProduct{rayban(), oakley()} {
		if _, err := ps.Add(ctx, np); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	code := "RB001"
	stock := 0.0
	empty := ""
	ok, err := ps.Update(ctx, 2, ProductChanges{Code: &code, Stock: &stock, Title: &empty})
	if err != nil || !ok {
		t.Fatalf("Update failed: ok=%v err=%v", ok, err)
	}

	p, _ := ps.GetByID(ctx, 2)
	if p.Code != "RB001" || p.Stock != 0 || p.Title != "" {
		t.Errorf("changes not applied: %+v", p)
	}
	if p.ID != 2 {
		t.Errorf("id must not change, got %d", p.ID)
	}
}

// TestDelete tests deletion of existing and missing ids.
func TestDelete(t *testing.T) {
	ps, path := setupTestStore(t)
	ctx := context.Background()

	for _, np := range []NewProduct{rayban(), oakley(), bulgari()} {
		if _, err := ps.Add(ctx, np); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	ok, err := ps.Delete(ctx, 2)
	if err != nil || !ok {
		t.Fatalf("Delete failed: ok=%v err=%v", ok, err)
	}

	products, _ := ps.List(ctx)
	if len(products) != 2 || products[0].ID != 1 || products[1].ID != 3 {
		t.Fatalf("expected ids [1 3], got %+v", products)
	}

	before := readFile(t, path)
	ok, err = ps.Delete(ctx, 2)
	if err != nil {
		t.Fatalf("Delete of missing id failed: %v", err)
	}
	if !ok {
		t.Error("Delete must report true even when nothing matched")
	}
	if readFile(t, path) != before {
		t.Error("content changed after delete of missing id")
	}
}

// TestDeleteRemovesAllMatches tests that every record with the id goes.
func TestDeleteRemovesAllMatches(t *testing.T) {
	_, path := setupTestStore(t)
	seed := []model.Product{{ID: 1, Code: "A"}, {ID: 2, Code: "B"}, {ID: 1, Code: "C"}}
	if err := model.SaveProducts(path, seed); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	if _, err := Open(path).Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	products, _ := model.LoadProducts(path)
	if len(products) != 1 || products[0].Code != "B" {
		t.Errorf("expected only B to remain, got %+v", products)
	}
}

// TestDeleteLastThenAddReusesID documents last-id assignment after a delete.
func TestDeleteLastThenAddReusesID(t *testing.T) {
	ps, _ := setupTestStore(t)
	ctx := context.Background()

	for _, np := range []NewProduct{rayban(), oakley()} {
		if _, err := ps.Add(ctx, np); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if _, err := ps.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	id, err := ps.Add(ctx, bulgari())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id != 2 {
		t.Errorf("expected id 2 to be reused, got %d", id)
	}
}

// TestEndToEnd runs the sunglasses scenario from an empty store.
func TestEndToEnd(t *testing.T) {
	ps, _ := setupTestStore(t)
	ctx := context.Background()

	for i, np := range []NewProduct{rayban(), oakley(), bulgari()} {
		id, err := ps.Add(ctx, np)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if id != i+1 {
			t.Fatalf("expected id %d, got %d", i+1, id)
		}
	}

	products, err := ps.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}

	p, err := ps.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if p.Title != "Rayban" {
		t.Errorf("expected Rayban, got %q", p.Title)
	}

	price := 170.0
	ok, err := ps.Update(ctx, 1, ProductChanges{Price: &price})
	if err != nil || !ok {
		t.Fatalf("Update failed: ok=%v err=%v", ok, err)
	}
	p, _ = ps.GetByID(ctx, 1)
	if p.Price != 170 {
		t.Errorf("expected price 170, got %v", p.Price)
	}

	ok, err = ps.Delete(ctx, 2)
	if err != nil || !ok {
		t.Fatalf("Delete failed: ok=%v err=%v", ok, err)
	}
	products, _ = ps.List(ctx)
	if len(products) != 2 || products[0].ID != 1 || products[1].ID != 3 {
		t.Errorf("expected ids [1 3], got %+v", products)
	}
}

// TestStorageErrorsPropagate tests that read failures surface from every operation.
func TestStorageErrorsPropagate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	ps := Open(path)
	ctx := context.Background()
	price := 1.0

	calls := map[string]func() error{
		"add":    func() error { _, err := ps.Add(ctx, rayban()); return err },
		"list":   func() error { _, err := ps.List(ctx); return err },
		"get":    func() error { _, err := ps.GetByID(ctx, 1); return err },
		"update": func() error { _, err := ps.Update(ctx, 1, ProductChanges{Price: &price}); return err },
		"delete": func() error { _, err := ps.Delete(ctx, 1); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			var readErr *storage.ReadError
			if !errors.As(err, &readErr) {
				t.Fatalf("expected ReadError, got %T: %v", err, err)
			}
		})
	}

	if readFile(t, path) != "{broken" {
		t.Error("failed operations must not touch the file")
	}
}

// TestReadErrorBeforeValidation tests that the load happens before validation.
func TestReadErrorBeforeValidation(t *testing.T) {
	fs := &fakeStore{loadErr: errors.New("disk gone")}
	_, err := New(fs).Add(context.Background(), NewProduct{})

	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Fatal("validation ran before load")
	}
	if err == nil || err.Error() != "adding product: disk gone" {
		t.Errorf("unexpected error %v", err)
	}
	if fs.saves != 0 {
		t.Errorf("expected no saves, got %d", fs.saves)
	}
}

// TestSaveErrorsPropagate tests write failures on mutating operations.
func TestSaveErrorsPropagate(t *testing.T) {
	writeErr := &storage.WriteError{Path: "products.json", Err: errors.New("disk full")}
	ctx := context.Background()
	price := 1.0

	fs := &fakeStore{
		products: []model.Product{{ID: 1, Code: "X"}},
		saveErr:  writeErr,
	}
	ps := New(fs)

	if _, err := ps.Add(ctx, rayban()); !errors.Is(err, writeErr) {
		t.Errorf("add: expected write error, got %v", err)
	}
	if _, err := ps.Update(ctx, 1, ProductChanges{Price: &price}); !errors.Is(err, writeErr) {
		t.Errorf("update: expected write error, got %v", err)
	}
	if ok, err := ps.Delete(ctx, 1); !errors.Is(err, writeErr) || ok {
		t.Errorf("delete: expected write error and false, got %v %v", ok, err)
	}
}

// TestChangesIsEmpty tests the empty-changes helper.
func TestChangesIsEmpty(t *testing.T) {
	if !(ProductChanges{}).IsEmpty() {
		t.Error("zero ProductChanges should be empty")
	}
	stock := 0.0
	if (ProductChanges{Stock: &stock}).IsEmpty() {
		t.Error("changes with a zero stock pointer are not empty")
	}
}

type fakeStore struct {
	products []model.Product
	loadErr  error
	saveErr  error
	saves    int
}

func (f *fakeStore) Load() ([]model.Product, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]model.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeStore) Save(products []model.Product) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.products = products
	return nil
}
