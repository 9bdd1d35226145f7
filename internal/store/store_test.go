package store_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/store"

	"github.com/xuri/excelize/v2"
)

func sample() []domain.Listing {
	return []domain.Listing{
		{Title: "Backend Engineer (Go)", Company: "Acme", Link: "https://jobs.test/view/1"},
		{Title: "Inginer Software – Bucureşti", Company: "Ţară & Co", Link: "https://jobs.test/view/2"},
		{Title: "SRE", Company: "Globex", Link: "https://jobs.test/view/3"},
	}
}

func writeRaw(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellStr("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func readHeader(t *testing.T, path string) []string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatal(err)
	}
	return rows[0]
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := store.Open(filepath.Join(t.TempDir(), "job_results.xlsx"))
	rows, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v, want none", rows)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := store.Open(filepath.Join(t.TempDir(), "job_results.xlsx"))
	want := sample()
	want = append(want, domain.Listing{
		Title:   strings.Repeat("Very Long Title ", 200),
		Company: "  leading and trailing  ",
		Link:    "https://jobs.test/view/4",
	})

	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch\n got: %#v\nwant: %#v", got, want)
	}
	if h := readHeader(t, s.Path()); !reflect.DeepEqual(h, store.Columns) {
		t.Errorf("header = %v", h)
	}
}

func TestLoad_RenamesLegacyHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job_results.xlsx")
	writeRaw(t, path, [][]string{
		{"Titlu", "Companie", "Link"},
		{"Dezvoltator Go", "Firma SRL", "https://jobs.test/view/10"},
	})
	s := store.Open(path)

	rows, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []domain.Listing{{Title: "Dezvoltator Go", Company: "Firma SRL", Link: "https://jobs.test/view/10"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %#v", rows)
	}

	res, err := s.Merge(context.Background(), sample()[:1])
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(res.New) != 1 {
		t.Fatalf("new = %d, want 1", len(res.New))
	}
	if h := readHeader(t, path); !reflect.DeepEqual(h, store.Columns) {
		t.Errorf("header after write = %v, want canonical", h)
	}
	rows, _ = s.Load()
	if len(rows) != 2 || rows[0].Title != "Dezvoltator Go" {
		t.Errorf("rows after merge = %#v", rows)
	}
}

func TestLoad_ColumnOrderAndShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job_results.xlsx")
	writeRaw(t, path, [][]string{
		{"Link", "Company", "Title"},
		{"https://jobs.test/view/20", "Initech"},
		{},
		{"https://jobs.test/view/21", "Umbrella", "QA"},
	})
	rows, err := store.Open(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.Listing{
		{Title: "", Company: "Initech", Link: "https://jobs.test/view/20"},
		{Title: "QA", Company: "Umbrella", Link: "https://jobs.test/view/21"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %#v", rows)
	}
}

func TestLoad_NoLinkColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job_results.xlsx")
	writeRaw(t, path, [][]string{{"Title", "Company"}, {"a", "b"}})
	if _, err := store.Open(path).Load(); !errors.Is(err, store.ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestMerge_SecondIdenticalRunWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job_results.xlsx")
	s := store.Open(path)
	ctx := context.Background()

	first, err := s.Merge(ctx, sample())
	if err != nil {
		t.Fatal(err)
	}
	if len(first.New) != 3 || len(first.Existing) != 0 {
		t.Fatalf("first merge new=%d existing=%d", len(first.New), len(first.Existing))
	}
	before, _ := os.ReadFile(path)
	st1, _ := os.Stat(path)

	second, err := s.Merge(ctx, sample())
	if err != nil {
		t.Fatal(err)
	}
	if len(second.New) != 0 {
		t.Errorf("second merge new = %d, want 0", len(second.New))
	}
	if !reflect.DeepEqual(second.Existing, sample()) {
		t.Errorf("existing = %#v", second.Existing)
	}

	after, _ := os.ReadFile(path)
	st2, _ := os.Stat(path)
	if !bytes.Equal(before, after) || !st1.ModTime().Equal(st2.ModTime()) {
		t.Error("file rewritten on a merge with nothing new")
	}
	rows, _ := s.Load()
	if len(rows) != 3 {
		t.Errorf("rows = %d, want 3 (no duplicates)", len(rows))
	}
}

func TestNewListings_DedupesWithinBatch(t *testing.T) {
	existing := sample()[:1]
	fetched := []domain.Listing{
		{Title: "dup of stored", Link: "https://jobs.test/view/1"},
		{Title: "first", Link: "https://jobs.test/view/9"},
		{Title: "second copy", Link: "https://jobs.test/view/9"},
		{Title: "case differs", Link: "https://jobs.test/VIEW/1"},
	}
	got := store.NewListings(existing, fetched)
	if len(got) != 2 || got[0].Title != "first" || got[1].Title != "case differs" {
		t.Errorf("got %#v", got)
	}
}

func TestSave_RefusesOversizedCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job_results.xlsx")
	s := store.Open(path)
	if err := s.Save(sample()); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	long := append(sample(), domain.Listing{
		Title:   strings.Repeat("ş", excelize.TotalCellChars+1),
		Company: "Acme",
		Link:    "https://jobs.test/view/4",
	})
	err = s.Save(long)
	if !errors.Is(err, store.ErrCellTooLong) {
		t.Fatalf("err = %v, want ErrCellTooLong", err)
	}
	if !strings.Contains(err.Error(), "row 4 Title") {
		t.Errorf("err = %q does not name the cell", err)
	}
	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("file changed by a refused save")
	}

	exact := append(sample(), domain.Listing{
		Title:   strings.Repeat("a", excelize.TotalCellChars),
		Company: "Acme",
		Link:    "https://jobs.test/view/5",
	})
	if err := s.Save(exact); err != nil {
		t.Fatalf("save at the limit: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 || got[3].Title != exact[3].Title {
		t.Errorf("value at the limit did not round-trip intact")
	}
}
