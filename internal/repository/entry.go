package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/juuujuuu9/ink-bug-merch/internal/domain/model"
)

// EntryRepository — интерфейс доступа к таблице entries.
// Записи никогда не удаляются этим модулем.
type EntryRepository interface {
	// Insert создаёт запись заявки одним параметризованным INSERT
	// и заполняет e.ID и e.CreatedAt сгенерированными значениями.
	Insert(ctx context.Context, e *model.Entry) error
	// AttachArtworkURLs прикрепляет ссылки на макеты одним UPDATE
	// и переводит artwork_status в complete.
	AttachArtworkURLs(ctx context.Context, id string, urls []string) error
	// GetByID возвращает заявку по идентификатору.
	GetByID(ctx context.Context, id string) (*model.Entry, error)
}

// entryRepo — реализация EntryRepository.
type entryRepo struct {
	db DBTX
}

// NewEntryRepository создаёт репозиторий заявок.
func NewEntryRepository(db DBTX) EntryRepository {
	return &entryRepo{db: db}
}

func (r *entryRepo) Insert(ctx context.Context, e *model.Entry) error {
	query := `
		INSERT INTO entries (
			first_name, last_name, phone, email, shipping, project_name, rush,
			due_date, apparel_type, blanks, total_items, size_breakdown, brand_style,
			garment_color, ink_type, print_locations, location_1, ink_colors,
			ink_colors_additional, artwork_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		e.FirstName, e.LastName, e.Phone, e.Email, e.Shipping, e.ProjectName, e.Rush,
		e.DueDate, e.ApparelType, e.Blanks, e.TotalItems, e.SizeBreakdown, e.BrandStyle,
		e.GarmentColor, e.InkType, e.PrintLocations, e.Location1, e.InkColors,
		e.InkColorsAdditional, string(e.ArtworkStatus),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoID
		}
		return fmt.Errorf("вставка заявки: %w", err)
	}
	if e.ID == "" {
		return ErrNoID
	}

	return nil
}

func (r *entryRepo) AttachArtworkURLs(ctx context.Context, id string, urls []string) error {
	query := `
		UPDATE entries
		SET artwork_urls = $2, artwork_status = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, urls, string(model.ArtworkComplete))
	if err != nil {
		return fmt.Errorf("прикрепление ссылок на макеты: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *entryRepo) GetByID(ctx context.Context, id string) (*model.Entry, error) {
	query := `
		SELECT id, first_name, last_name, phone, email, shipping, project_name, rush,
			due_date, apparel_type, blanks, total_items, size_breakdown, brand_style,
			garment_color, ink_type, print_locations, location_1, ink_colors,
			ink_colors_additional, artwork_status, artwork_urls, created_at
		FROM entries
		WHERE id = $1`

	e := &model.Entry{}
	var status string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Phone, &e.Email, &e.Shipping, &e.ProjectName, &e.Rush,
		&e.DueDate, &e.ApparelType, &e.Blanks, &e.TotalItems, &e.SizeBreakdown, &e.BrandStyle,
		&e.GarmentColor, &e.InkType, &e.PrintLocations, &e.Location1, &e.InkColors,
		&e.InkColorsAdditional, &status, &e.ArtworkURLs, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("чтение заявки: %w", err)
	}
	e.ArtworkStatus = model.ArtworkStatus(status)

	return e, nil
}
