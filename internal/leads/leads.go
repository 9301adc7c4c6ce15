// Package leads stores priced inspections for follow-up by the office.
//
// A saved estimate is a snapshot: the breakdown computed at save time is kept
// as-is and never recalculated when read back.
package leads

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/mouldquote/internal/estimate"
)

// ErrNotFound is returned when no estimate has the requested id.
var ErrNotFound = errors.New("estimate not found")

// Contact is who the estimate was prepared for.
type Contact struct {
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Suburb       string `json:"suburb,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// NewEstimate is an estimate ready to be saved.
type NewEstimate struct {
	Contact
	Input     estimate.InspectionCostInput
	Breakdown estimate.CostBreakdown
}

// Estimate is a saved estimate.
type Estimate struct {
	ID        int64                        `json:"id"`
	Reference string                       `json:"reference"`
	CreatedAt time.Time                    `json:"createdAt"`
	Contact   Contact                      `json:"contact"`
	Input     estimate.InspectionCostInput `json:"input"`
	Breakdown estimate.CostBreakdown       `json:"breakdown"`
}

// ListItem is the summary row shown in the estimates list.
type ListItem struct {
	ID           int64             `json:"id"`
	Reference    string            `json:"reference"`
	CreatedAt    time.Time         `json:"createdAt"`
	CustomerName string            `json:"customerName"`
	Suburb       string            `json:"suburb,omitempty"`
	WorkType     estimate.WorkType `json:"workType"`
	TotalCost    float64           `json:"totalCost"`
}

// Store persists estimates in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

const timeLayout = "2006-01-02 15:04:05"

// Create saves an estimate and assigns it a reference.
func (s *Store) Create(ctx context.Context, in NewEstimate) (Estimate, error) {
	if in.CustomerName == "" {
		return Estimate{}, errors.New("customer name is required")
	}

	inputJSON, err := json.Marshal(in.Input)
	if err != nil {
		return Estimate{}, fmt.Errorf("encode input snapshot: %w", err)
	}
	breakdownJSON, err := json.Marshal(in.Breakdown)
	if err != nil {
		return Estimate{}, fmt.Errorf("encode breakdown snapshot: %w", err)
	}

	createdAt := s.now().UTC().Truncate(time.Second)
	reference := uuid.NewString()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO estimates (
			reference, created_at, customer_name, phone, email, suburb, notes,
			work_type, total_cost, input_json, breakdown_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		reference,
		createdAt.Format(timeLayout),
		in.CustomerName,
		in.Phone,
		in.Email,
		in.Suburb,
		in.Notes,
		string(in.Breakdown.WorkType),
		in.Breakdown.TotalCost,
		string(inputJSON),
		string(breakdownJSON),
	)
	if err != nil {
		return Estimate{}, fmt.Errorf("insert estimate: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Estimate{}, fmt.Errorf("read estimate id: %w", err)
	}

	return Estimate{
		ID:        id,
		Reference: reference,
		CreatedAt: createdAt,
		Contact:   in.Contact,
		Input:     in.Input,
		Breakdown: in.Breakdown,
	}, nil
}

// Get loads a saved estimate.
func (s *Store) Get(ctx context.Context, id int64) (Estimate, error) {
	var (
		e             Estimate
		createdAt     string
		inputJSON     string
		breakdownJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			id,
			reference,
			created_at,
			customer_name,
			COALESCE(phone, ''),
			COALESCE(email, ''),
			COALESCE(suburb, ''),
			COALESCE(notes, ''),
			input_json,
			breakdown_json
		FROM estimates
		WHERE id = ?
	`, id).Scan(
		&e.ID,
		&e.Reference,
		&createdAt,
		&e.Contact.CustomerName,
		&e.Contact.Phone,
		&e.Contact.Email,
		&e.Contact.Suburb,
		&e.Contact.Notes,
		&inputJSON,
		&breakdownJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Estimate{}, ErrNotFound
	}
	if err != nil {
		return Estimate{}, fmt.Errorf("query estimate: %w", err)
	}

	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return Estimate{}, err
	}
	if err := json.Unmarshal([]byte(inputJSON), &e.Input); err != nil {
		return Estimate{}, fmt.Errorf("decode input snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(breakdownJSON), &e.Breakdown); err != nil {
		return Estimate{}, fmt.Errorf("decode breakdown snapshot: %w", err)
	}
	return e, nil
}

// List returns saved estimates, newest first. A non-empty query keeps only
// estimates whose customer name, suburb or notes contain it.
func (s *Store) List(ctx context.Context, query string) ([]ListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reference, created_at, customer_name, COALESCE(suburb, ''), work_type, total_cost
		FROM estimates
		WHERE (? = '' OR customer_name LIKE ? OR COALESCE(suburb, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query estimates: %w", err)
	}
	defer rows.Close()

	items := make([]ListItem, 0)
	for rows.Next() {
		var item ListItem
		var createdAt, workType string
		if err := rows.Scan(&item.ID, &item.Reference, &createdAt, &item.CustomerName, &item.Suburb, &workType, &item.TotalCost); err != nil {
			return nil, fmt.Errorf("scan estimate: %w", err)
		}
		if item.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		item.WorkType = estimate.WorkType(workType)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate estimates: %w", err)
	}
	return items, nil
}

// Delete removes a saved estimate.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM estimates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete estimate: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete estimate: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// parseTime accepts the layout we write plus the RFC 3339 form the sqlite
// driver returns for DATETIME columns.
func parseTime(v string) (time.Time, error) {
	for _, layout := range []string{timeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse created_at %q", v)
}
