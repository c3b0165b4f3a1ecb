package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"impulsetrim/internal/ocr"
)

// ErrNotFound is returned when no clip matches a lookup.
var ErrNotFound = errors.New("clip not found")

// timeLayout has a fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Clip is one exported selection.
type Clip struct {
	ID           string
	SessionID    string
	SourceAudio  string
	SourceVideo  string
	StartSeconds float64
	EndSeconds   float64
	StartMode    string
	EndMode      string
	AudioPath    string
	VideoPath    string
	CreatedAt    time.Time
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	return c.EndSeconds - c.StartSeconds
}

const clipColumns = `id, session_id, source_audio, source_video, start_seconds, end_seconds,
	start_mode, end_mode, audio_path, video_path, created_at`

// RecordClip inserts clip. Missing ids and timestamps are filled in; the
// stored clip is returned.
func (s *Store) RecordClip(ctx context.Context, clip Clip) (Clip, error) {
	if clip.ID == "" {
		clip.ID = uuid.NewString()
	}
	if clip.CreatedAt.IsZero() {
		clip.CreatedAt = time.Now().UTC()
	}
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO clips (`+clipColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			clip.ID, clip.SessionID, clip.SourceAudio, clip.SourceVideo,
			clip.StartSeconds, clip.EndSeconds, clip.StartMode, clip.EndMode,
			clip.AudioPath, clip.VideoPath, clip.CreatedAt.UTC().Format(timeLayout),
		)
		return err
	})
	if err != nil {
		return Clip{}, fmt.Errorf("record clip: %w", err)
	}
	return clip, nil
}

// ListClips returns the most recent clips first. limit <= 0 returns all.
func (s *Store) ListClips(ctx context.Context, limit int) ([]Clip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}
	defer rows.Close()

	var clips []Clip
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}
	return clips, rows.Err()
}

// GetClip loads a clip by id.
func (s *Store) GetClip(ctx context.Context, id string) (Clip, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+clipColumns+` FROM clips WHERE id = ?`, id)
	clip, err := scanClip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Clip{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return clip, err
}

// ClipByVideo returns the latest clip whose exported video is path.
func (s *Store) ClipByVideo(ctx context.Context, path string) (Clip, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clipColumns+` FROM clips WHERE video_path = ? ORDER BY created_at DESC LIMIT 1`, path)
	clip, err := scanClip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Clip{}, fmt.Errorf("%w: video %s", ErrNotFound, path)
	}
	return clip, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClip(row scanner) (Clip, error) {
	var (
		clip    Clip
		created string
	)
	if err := row.Scan(
		&clip.ID, &clip.SessionID, &clip.SourceAudio, &clip.SourceVideo,
		&clip.StartSeconds, &clip.EndSeconds, &clip.StartMode, &clip.EndMode,
		&clip.AudioPath, &clip.VideoPath, &created,
	); err != nil {
		return Clip{}, err
	}
	ts, err := time.Parse(timeLayout, created)
	if err != nil {
		return Clip{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	clip.CreatedAt = ts
	return clip, nil
}

// RecordReadings replaces the OCR readings stored for clipID.
func (s *Store) RecordReadings(ctx context.Context, clipID string, readings []ocr.Reading) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM ocr_readings WHERE clip_id = ?`, clipID); err != nil {
			return fmt.Errorf("clear readings: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO ocr_readings (clip_id, frame, value, ok, raw) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range readings {
			if _, err := stmt.ExecContext(ctx, clipID, r.Frame, r.Value, r.OK, r.Raw); err != nil {
				return fmt.Errorf("insert reading %d: %w", r.Frame, err)
			}
		}
		return tx.Commit()
	})
}

// Readings returns the OCR readings of clipID ordered by frame.
func (s *Store) Readings(ctx context.Context, clipID string) ([]ocr.Reading, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT frame, value, ok, raw FROM ocr_readings WHERE clip_id = ? ORDER BY frame`, clipID)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	var out []ocr.Reading
	for rows.Next() {
		var r ocr.Reading
		if err := rows.Scan(&r.Frame, &r.Value, &r.OK, &r.Raw); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
