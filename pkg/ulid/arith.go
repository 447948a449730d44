package ulid

import "github.com/jimyag/lexid/pkg/value"

// 以下方法覆盖 value.Value 上的同名方法，返回具体类型

func wrap[T any](v value.Value, err error, mk func(value.Value) T) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return mk(v), nil
}

func asULID(v value.Value) ULID                     { return ULID{v} }
func asSLID(v value.Value) SLID                     { return SLID{v} }
func asTimestamp(v value.Value) Timestamp           { return Timestamp{v} }
func asRandomness(v value.Value) Randomness         { return Randomness{v} }
func asSLIDRandomness(v value.Value) SLIDRandomness { return SLIDRandomness{v} }

func (u ULID) Add(n int64) (ULID, error) { v, err := u.Value.Add(n); return wrap(v, err, asULID) }
func (u ULID) Sub(n int64) (ULID, error) { v, err := u.Value.Sub(n); return wrap(v, err, asULID) }
func (u ULID) Next() (ULID, error)       { v, err := u.Value.Next(); return wrap(v, err, asULID) }
func (u ULID) Prev() (ULID, error)       { v, err := u.Value.Prev(); return wrap(v, err, asULID) }

func (s SLID) Add(n int64) (SLID, error) { v, err := s.Value.Add(n); return wrap(v, err, asSLID) }
func (s SLID) Sub(n int64) (SLID, error) { v, err := s.Value.Sub(n); return wrap(v, err, asSLID) }
func (s SLID) Next() (SLID, error)       { v, err := s.Value.Next(); return wrap(v, err, asSLID) }
func (s SLID) Prev() (SLID, error)       { v, err := s.Value.Prev(); return wrap(v, err, asSLID) }

func (t Timestamp) Add(n int64) (Timestamp, error) {
	v, err := t.Value.Add(n)
	return wrap(v, err, asTimestamp)
}

func (t Timestamp) Sub(n int64) (Timestamp, error) {
	v, err := t.Value.Sub(n)
	return wrap(v, err, asTimestamp)
}

func (t Timestamp) Next() (Timestamp, error) { v, err := t.Value.Next(); return wrap(v, err, asTimestamp) }
func (t Timestamp) Prev() (Timestamp, error) { v, err := t.Value.Prev(); return wrap(v, err, asTimestamp) }

func (r Randomness) Add(n int64) (Randomness, error) {
	v, err := r.Value.Add(n)
	return wrap(v, err, asRandomness)
}

func (r Randomness) Sub(n int64) (Randomness, error) {
	v, err := r.Value.Sub(n)
	return wrap(v, err, asRandomness)
}

func (r Randomness) Next() (Randomness, error) { v, err := r.Value.Next(); return wrap(v, err, asRandomness) }
func (r Randomness) Prev() (Randomness, error) { v, err := r.Value.Prev(); return wrap(v, err, asRandomness) }

func (r SLIDRandomness) Add(n int64) (SLIDRandomness, error) {
	v, err := r.Value.Add(n)
	return wrap(v, err, asSLIDRandomness)
}

func (r SLIDRandomness) Sub(n int64) (SLIDRandomness, error) {
	v, err := r.Value.Sub(n)
	return wrap(v, err, asSLIDRandomness)
}

func (r SLIDRandomness) Next() (SLIDRandomness, error) {
	v, err := r.Value.Next()
	return wrap(v, err, asSLIDRandomness)
}

func (r SLIDRandomness) Prev() (SLIDRandomness, error) {
	v, err := r.Value.Prev()
	return wrap(v, err, asSLIDRandomness)
}
