package archive

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"LeadPulse/internal/models"
)

// Postgres archives replies in a replies table. Rows are insert-only; Load
// returns them in capture order.
type Postgres struct {
	Pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	return &Postgres{Pool: pool}, nil
}

func (p *Postgres) Close() {
	p.Pool.Close()
}

func (p *Postgres) Append(ctx context.Context, rec models.ReplyRecord) error {
	_, err := p.Pool.Exec(ctx,
		`INSERT INTO replies
		 (sender, subject, body, captured_at)
		 VALUES ($1,$2,$3,$4)`,
		rec.Sender,
		rec.Subject,
		rec.Body,
		rec.Timestamp,
	)

	return err
}

func (p *Postgres) Load(ctx context.Context) ([]models.ReplyRecord, error) {
	rows, err := p.Pool.Query(ctx,
		`SELECT sender, subject, body, captured_at
		 FROM replies
		 ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ReplyRecord
	for rows.Next() {
		var rec models.ReplyRecord
		if err := rows.Scan(&rec.Sender, &rec.Subject, &rec.Body, &rec.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
