package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vk/paramgrid/internal/curve"
	"github.com/vk/paramgrid/internal/param"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/zclconf/go-cty/cty"
)

// bag is the property bag of one owner row set.
type bag struct {
	s     *Store
	owner string
	kind  param.Type
}

func (b *bag) Get(slot propstore.Slot) (cty.Value, error) {
	return getSlot(context.Background(), b.s.db, b.owner, b.kind, slot)
}

func (b *bag) Set(slot propstore.Slot, v cty.Value) error {
	ctx := context.Background()
	tx, err := b.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin set tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := setSlot(ctx, tx, b.owner, b.kind, slot, v); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: commit set %s: %w", slot, err)
	}
	b.s.mutated()
	return nil
}

func getSlot(ctx context.Context, q querier, owner string, kind param.Type, slot propstore.Slot) (cty.Value, error) {
	var raw string
	err := q.QueryRowContext(ctx,
		`SELECT value FROM slots WHERE owner = ? AND slot = ?`, owner, string(slot),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return cty.NilVal, fmt.Errorf("get %s: %w", slot, param.ErrUnknownSlot)
	}
	if err != nil {
		return cty.NilVal, fmt.Errorf("sqlitestore: get %s of %q: %w", slot, owner, err)
	}
	return decode(raw, slotType(kind, slot))
}

func setSlot(ctx context.Context, q querier, owner string, kind param.Type, slot propstore.Slot, v cty.Value) error {
	v, err := propstore.Coerce(kind, slot, v)
	if err != nil {
		return err
	}
	enc, err := encode(v)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx,
		`UPDATE slots SET value = ? WHERE owner = ? AND slot = ?`, enc, owner, string(slot))
	if err != nil {
		return fmt.Errorf("sqlitestore: set %s of %q: %w", slot, owner, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("set %s: %w", slot, param.ErrUnknownSlot)
	}
	return nil
}

func slotType(kind param.Type, slot propstore.Slot) cty.Type {
	ty := propstore.SlotType(slot)
	if ty == cty.DynamicPseudoType {
		return param.ValueType(kind)
	}
	return ty
}

// handle implements propstore.Handle for one row of params.
type handle struct {
	s    *Store
	name string
	kind param.Type
}

func (h *handle) Name() string     { return h.name }
func (h *handle) Type() param.Type { return h.kind }

func (h *handle) Get(slot propstore.Slot) (cty.Value, error) {
	return getSlot(context.Background(), h.s.db, h.name, h.kind, slot)
}

// Set writes a slot. While no value has been written the static value
// follows the default slot.
func (h *handle) Set(slot propstore.Slot, v cty.Value) error {
	ctx := context.Background()
	tx, err := h.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin set tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := setSlot(ctx, tx, h.name, h.kind, slot, v); err != nil {
		return err
	}
	if slot == propstore.SlotDefault {
		def, err := getSlot(ctx, tx, h.name, h.kind, slot)
		if err != nil {
			return err
		}
		enc, err := encode(def)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE params SET static = ? WHERE name = ? AND value_set = 0`, enc, h.name,
		); err != nil {
			return fmt.Errorf("sqlitestore: follow default of %q: %w", h.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: commit set %s of %q: %w", slot, h.name, err)
	}
	h.s.mutated()
	return nil
}

// trackOp says what withTrack writes back.
type trackOp int

const (
	readTrack trackOp = iota
	writeTrack
	// writeValue also marks the value as explicitly written.
	writeValue
)

// withTrack loads the keyframe track, runs fn and, for write ops that
// report a change, stores the track again, all in one transaction.
func (h *handle) withTrack(op trackOp, fn func(t *curve.Track) (changed bool, err error)) error {
	ctx := context.Background()
	if !h.kind.HoldsValue() {
		return fmt.Errorf("%s parameter %q holds no value", h.kind, h.name)
	}
	tx, err := h.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin track tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	track, err := h.loadTrack(ctx, tx)
	if err != nil {
		return err
	}
	changed, err := fn(track)
	if err != nil || op == readTrack || !changed {
		return err
	}
	if err := h.saveTrack(ctx, tx, track, op == writeValue); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: commit track of %q: %w", h.name, err)
	}
	h.s.mutated()
	return nil
}

func (h *handle) loadTrack(ctx context.Context, q querier) (*curve.Track, error) {
	ty := param.ValueType(h.kind)

	var rawStatic string
	if err := q.QueryRowContext(ctx,
		`SELECT static FROM params WHERE name = ?`, h.name,
	).Scan(&rawStatic); err != nil {
		return nil, fmt.Errorf("sqlitestore: load static value of %q: %w", h.name, err)
	}
	static, err := decode(rawStatic, ty)
	if err != nil {
		return nil, err
	}
	animates, err := getSlot(ctx, q, h.name, h.kind, propstore.SlotAnimates)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx,
		`SELECT time, value FROM keyframes WHERE name = ? ORDER BY time`, h.name)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: load keys of %q: %w", h.name, err)
	}
	defer rows.Close()

	var keys []curve.Key
	for rows.Next() {
		var (
			k   curve.Key
			raw string
		)
		if err := rows.Scan(&k.Time, &raw); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan key of %q: %w", h.name, err)
		}
		if k.Value, err = decode(raw, ty); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: load keys of %q: %w", h.name, err)
	}
	return curve.Restore(h.kind, animates.True(), static, keys)
}

func (h *handle) saveTrack(ctx context.Context, tx *sql.Tx, t *curve.Track, valueSet bool) error {
	static, err := encode(t.Static())
	if err != nil {
		return err
	}
	query := `UPDATE params SET static = ? WHERE name = ?`
	if valueSet {
		query = `UPDATE params SET static = ?, value_set = 1 WHERE name = ?`
	}
	if _, err := tx.ExecContext(ctx, query, static, h.name); err != nil {
		return fmt.Errorf("sqlitestore: save static value of %q: %w", h.name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM keyframes WHERE name = ?`, h.name); err != nil {
		return fmt.Errorf("sqlitestore: clear keys of %q: %w", h.name, err)
	}
	for _, k := range t.Keys() {
		enc, err := encode(k.Value)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO keyframes (name, time, value) VALUES (?, ?, ?)`, h.name, k.Time, enc,
		); err != nil {
			return fmt.Errorf("sqlitestore: save key of %q at %g: %w", h.name, k.Time, err)
		}
	}
	return nil
}

func (h *handle) NumKeys() (n int, err error) {
	err = h.withTrack(readTrack, func(t *curve.Track) (bool, error) {
		n = t.NumKeys()
		return false, nil
	})
	return n, err
}

func (h *handle) KeyTime(i int) (at float64, err error) {
	err = h.withTrack(readTrack, func(t *curve.Track) (bool, error) {
		var kerr error
		at, kerr = t.KeyTime(i)
		var re *param.RangeError
		if errors.As(kerr, &re) {
			re.Name = h.name
		}
		return false, kerr
	})
	return at, err
}

func (h *handle) KeyIndex(at float64, dir param.KeySearch) (i int, err error) {
	err = h.withTrack(readTrack, func(t *curve.Track) (bool, error) {
		var kerr error
		i, kerr = t.KeyIndex(at, dir)
		return false, kerr
	})
	return i, err
}

func (h *handle) DeleteKeyAtTime(at float64) error {
	return h.withTrack(writeTrack, func(t *curve.Track) (bool, error) {
		return t.DeleteKey(at), nil
	})
}

func (h *handle) DeleteAllKeys() error {
	now := h.s.Time()
	return h.withTrack(writeTrack, func(t *curve.Track) (bool, error) {
		if !t.IsAnimating() {
			return false, nil
		}
		return true, t.DeleteAll(now)
	})
}

func (h *handle) Value() (cty.Value, error) {
	return h.ValueAtTime(h.s.Time())
}

func (h *handle) ValueAtTime(at float64) (v cty.Value, err error) {
	err = h.withTrack(readTrack, func(t *curve.Track) (bool, error) {
		var verr error
		v, verr = t.ValueAt(at)
		return false, verr
	})
	return v, err
}

func (h *handle) SetValue(v cty.Value) error {
	now := h.s.Time()
	return h.withTrack(writeValue, func(t *curve.Track) (bool, error) {
		return true, t.Set(now, v)
	})
}

func (h *handle) SetValueAtTime(at float64, v cty.Value) error {
	return h.withTrack(writeValue, func(t *curve.Track) (bool, error) {
		return true, t.SetAt(at, v)
	})
}

func (h *handle) Derivative(at float64) (v cty.Value, err error) {
	err = h.withTrack(readTrack, func(t *curve.Track) (bool, error) {
		var derr error
		v, derr = t.Derivative(at)
		return false, derr
	})
	return v, err
}

func (h *handle) Integral(t1, t2 float64) (v cty.Value, err error) {
	err = h.withTrack(readTrack, func(t *curve.Track) (bool, error) {
		var ierr error
		v, ierr = t.Integral(t1, t2)
		return false, ierr
	})
	return v, err
}
