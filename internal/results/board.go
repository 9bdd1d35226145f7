// Package results holds what the results panel currently shows and binds
// each row's open action to the link it had when it was drawn.
package results

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"jobfinder-engine/internal/domain"

	"github.com/pkg/browser"
)

const Placeholder = "No jobs match the filters."

var (
	ErrStaleView = errors.New("results were redrawn since this view")
	ErrNoSuchRow = errors.New("no such row")
)

type Opener interface {
	Open(url string) error
}

// BrowserOpener opens links in the user's default web browser.
type BrowserOpener struct{}

func (BrowserOpener) Open(url string) error { return browser.OpenURL(url) }

type Row struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Link    string `json:"link"`
}

type View struct {
	Generation  uint64 `json:"generation"`
	Rows        []Row  `json:"rows"`
	Banner      string `json:"banner,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

type Board struct {
	mu     sync.RWMutex
	gen    uint64
	rows   []Row
	banner string
	opener Opener
}

func NewBoard(o Opener) *Board {
	if o == nil {
		o = BrowserOpener{}
	}
	return &Board{opener: o, rows: []Row{}}
}

// Replace discards every row on the board and draws listings in order.
func (b *Board) Replace(listings []domain.Listing, banner string) View {
	rows := make([]Row, len(listings))
	for i, l := range listings {
		rows[i] = Row{Index: i, Title: l.Title, Company: l.Company, Link: l.Link}
	}

	b.mu.Lock()
	b.gen++
	b.rows = rows
	b.banner = banner
	v := b.viewLocked()
	b.mu.Unlock()
	return v
}

func (b *Board) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.viewLocked()
}

func (b *Board) viewLocked() View {
	v := View{
		Generation: b.gen,
		Rows:       append([]Row(nil), b.rows...),
		Banner:     b.banner,
	}
	if len(v.Rows) == 0 {
		v.Rows = []Row{}
		v.Placeholder = Placeholder
	}
	return v
}

// Open opens the link of row index as drawn in generation gen.
func (b *Board) Open(gen uint64, index int) (Row, error) {
	b.mu.RLock()
	if gen != b.gen {
		cur := b.gen
		b.mu.RUnlock()
		return Row{}, fmt.Errorf("%w (have %d, current %d)", ErrStaleView, gen, cur)
	}
	if index < 0 || index >= len(b.rows) {
		b.mu.RUnlock()
		return Row{}, fmt.Errorf("%w: %d", ErrNoSuchRow, index)
	}
	row := b.rows[index]
	b.mu.RUnlock()

	if err := b.opener.Open(row.Link); err != nil {
		return row, fmt.Errorf("open %s: %w", row.Link, err)
	}
	log.Printf("[results] opened row=%d link=%s", index, row.Link)
	return row, nil
}
