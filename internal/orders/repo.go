package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pmdelacruz/artifact-market/internal/cart"
)

// Repo is the Postgres ledger.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Append(ctx context.Context, o *Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, session_id, total, payment_method, placed_at, estimated_delivery,
		                   ship_email, ship_first_name, ship_last_name, ship_street,
		                   ship_city, ship_province, ship_zip_code, ship_country)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING seq`,
		o.OrderID, o.SessionID, o.Total, o.PaymentMethod, o.Timestamp, o.EstimatedDelivery,
		o.Shipping.Email, o.Shipping.FirstName, o.Shipping.LastName, o.Shipping.Street,
		o.Shipping.City, o.Shipping.Province, o.Shipping.ZipCode, o.Shipping.Country,
	).Scan(&o.Seq)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, cart_id, artifact_id, name, period, origin, value, image_url, quantity)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			o.OrderID, it.CartID, it.ID, it.Name, it.Period, it.Origin, it.Value, it.ImageURL, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

const orderColumns = `id, session_id, total, payment_method, placed_at, estimated_delivery,
	ship_email, ship_first_name, ship_last_name, ship_street,
	ship_city, ship_province, ship_zip_code, ship_country, seq`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.OrderID, &o.SessionID, &o.Total, &o.PaymentMethod, &o.Timestamp, &o.EstimatedDelivery,
		&o.Shipping.Email, &o.Shipping.FirstName, &o.Shipping.LastName, &o.Shipping.Street,
		&o.Shipping.City, &o.Shipping.Province, &o.Shipping.ZipCode, &o.Shipping.Country, &o.Seq)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns the session's orders newest first; orders placed in the
// same instant keep their insertion order.
func (r *Repo) List(ctx context.Context, sessionID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+`
		FROM orders WHERE session_id=$1
		ORDER BY placed_at DESC, seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	byID := map[string]int{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		byID[o.OrderID] = len(out)
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []Order{}, nil
	}

	ids := make([]string, 0, len(out))
	for _, o := range out {
		ids = append(ids, o.OrderID)
	}
	itemRows, err := r.DB.Query(ctx, `
		SELECT order_id, cart_id, artifact_id, name, period, origin, value, COALESCE(image_url,''), quantity
		FROM order_items WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var orderID string
		var it itemRow
		if err := itemRows.Scan(&orderID, &it.CartID, &it.ArtifactID, &it.Name, &it.Period,
			&it.Origin, &it.Value, &it.ImageURL, &it.Quantity); err != nil {
			return nil, err
		}
		if i, ok := byID[orderID]; ok {
			out[i].Items = append(out[i].Items, it.toLine())
		}
	}
	return out, itemRows.Err()
}

func (r *Repo) Get(ctx context.Context, orderID string) (*Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT cart_id, artifact_id, name, period, origin, value, COALESCE(image_url,''), quantity
		FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it itemRow
		if err := rows.Scan(&it.CartID, &it.ArtifactID, &it.Name, &it.Period,
			&it.Origin, &it.Value, &it.ImageURL, &it.Quantity); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it.toLine())
	}
	return o, rows.Err()
}

type itemRow struct {
	CartID     string
	ArtifactID string
	Name       string
	Period     string
	Origin     string
	Value      int64
	ImageURL   string
	Quantity   int
}

func (it itemRow) toLine() cart.Line {
	l := cart.Line{CartID: it.CartID, Quantity: it.Quantity}
	l.ID = it.ArtifactID
	l.Name = it.Name
	l.Period = it.Period
	l.Origin = it.Origin
	l.Value = it.Value
	l.ImageURL = it.ImageURL
	return l
}

// Delete removes the order terminally; items go with it via cascade.
func (r *Repo) Delete(ctx context.Context, orderID string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
