package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/movievaultapp/movievault-server/internal/domain"
	"github.com/movievaultapp/movievault-server/internal/store"
)

// movieColumns is the ordered list of columns selected in movie queries.
// Must match the scan order in scanMovie.
const movieColumns = `id, user_id, title, time_minutes, ticket_price, link,
	image, blur_hash, created_at, updated_at, deleted_at`

// scanMovie scans a sql.Row (or sql.Rows via its Scan method) into a domain.Movie.
// TagIDs are not part of the row; callers load them from movie_tags.
func scanMovie(scanner interface{ Scan(dest ...any) error }) (*domain.Movie, error) {
	var m domain.Movie

	var (
		link      sql.NullString
		image     sql.NullString
		blurHash  sql.NullString
		createdAt string
		updatedAt string
		deletedAt sql.NullString
	)

	err := scanner.Scan(
		&m.ID,
		&m.UserID,
		&m.Title,
		&m.TimeMinutes,
		&m.TicketPrice,
		&link,
		&image,
		&blurHash,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if link.Valid {
		m.Link = link.String
	}
	if image.Valid {
		m.Image = image.String
	}
	if blurHash.Valid {
		m.BlurHash = blurHash.String
	}

	m.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	m.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	m.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// CreateMovie inserts a new movie and its tag associations in one transaction.
// Returns store.ErrAlreadyExists if the movie ID already exists.
func (s *Store) CreateMovie(ctx context.Context, m *domain.Movie) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO movies (
			id, user_id, title, time_minutes, ticket_price, link,
			image, blur_hash, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.UserID,
		m.Title,
		m.TimeMinutes,
		m.TicketPrice,
		nullString(m.Link),
		nullString(m.Image),
		nullString(m.BlurHash),
		formatTime(m.CreatedAt),
		formatTime(m.UpdatedAt),
		nullTimeString(m.DeletedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	now := formatTime(time.Now().UTC())
	for _, tagID := range m.TagIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO movie_tags (movie_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			m.ID, tagID, now,
		); err != nil {
			return fmt.Errorf("insert movie_tag: %w", err)
		}
	}

	return tx.Commit()
}

// GetMovie retrieves a movie by ID, scoped to its owner and excluding
// soft-deleted records. Tag associations are loaded onto TagIDs.
// Returns store.ErrNotFound if the movie does not exist or belongs to
// another user.
func (s *Store) GetMovie(ctx context.Context, movieID, userID string) (*domain.Movie, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, movieID, userID)

	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	m.TagIDs, err = s.GetMovieTags(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// ListMovies returns the user's movies in creation order, with tag
// associations loaded onto TagIDs.
func (s *Store) ListMovies(ctx context.Context, userID string) ([]*domain.Movie, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies
		 WHERE user_id = ? AND deleted_at IS NULL
		 ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []*domain.Movie
	byID := make(map[string]*domain.Movie)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if movies == nil {
		return []*domain.Movie{}, nil
	}

	// Load all tag associations for this user's movies in one query.
	tagRows, err := s.db.QueryContext(ctx, `
		SELECT mt.movie_id, mt.tag_id
		FROM movie_tags mt
		JOIN movies m ON m.id = mt.movie_id
		WHERE m.user_id = ? AND m.deleted_at IS NULL
		ORDER BY mt.created_at ASC, mt.tag_id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query movie_tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var movieID, tagID string
		if err := tagRows.Scan(&movieID, &tagID); err != nil {
			return nil, err
		}
		if m, ok := byID[movieID]; ok {
			m.TagIDs = append(m.TagIDs, tagID)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

// UpdateMovie performs a full row update on an existing movie, scoped to
// its owner. Tag associations are not touched; use SetMovieTags.
// Returns store.ErrNotFound if the movie does not exist, is soft-deleted,
// or belongs to another user.
func (s *Store) UpdateMovie(ctx context.Context, m *domain.Movie) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE movies SET
			title = ?,
			time_minutes = ?,
			ticket_price = ?,
			link = ?,
			image = ?,
			blur_hash = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		m.Title,
		m.TimeMinutes,
		m.TicketPrice,
		nullString(m.Link),
		nullString(m.Image),
		nullString(m.BlurHash),
		formatTime(m.UpdatedAt),
		m.ID,
		m.UserID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteMovie performs a soft delete, scoped to the owner.
// Returns store.ErrNotFound if the movie does not exist, is already
// deleted, or belongs to another user.
func (s *Store) DeleteMovie(ctx context.Context, movieID, userID string) error {
	now := formatTime(time.Now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE movies SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now, now, movieID, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SetMovieTags replaces all tag associations for a movie in a single
// transaction. It deletes the existing movie_tags rows and inserts the
// new set; an empty or nil tagIDs clears the association.
func (s *Store) SetMovieTags(ctx context.Context, movieID string, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM movie_tags WHERE movie_id = ?`, movieID); err != nil {
		return fmt.Errorf("delete movie_tags: %w", err)
	}

	now := formatTime(time.Now().UTC())
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO movie_tags (movie_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			movieID,
			tagID,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert movie_tag: %w", err)
		}
	}

	return tx.Commit()
}

// GetMovieTags returns the tag IDs associated with a movie.
func (s *Store) GetMovieTags(ctx context.Context, movieID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag_id FROM movie_tags WHERE movie_id = ?
		ORDER BY created_at ASC, tag_id ASC`, movieID)
	if err != nil {
		return nil, fmt.Errorf("query movie_tags: %w", err)
	}
	defer rows.Close()

	var tagIDs []string
	for rows.Next() {
		var tagID string
		if err := rows.Scan(&tagID); err != nil {
			return nil, fmt.Errorf("scan movie_tag: %w", err)
		}
		tagIDs = append(tagIDs, tagID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return tagIDs, nil
}
