package db

// RowFromRows adapts a Rows cursor (or the error that prevented opening it) into a single Row.
// Scan reports ErrNoRows when the result set is empty and always closes the cursor.
func RowFromRows(rows Rows, err error) Row {
	return &singleRow{rows: rows, err: err}
}

type singleRow struct {
	rows Rows
	err  error
}

func (r *singleRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	defer r.rows.Close()

	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return &Error{Op: OpQuery, Err: err}
		}
		return ErrNoRows
	}
	if err := r.rows.Scan(dest...); err != nil {
		return &Error{Op: OpQuery, Err: err}
	}
	r.rows.Close()
	if err := r.rows.Err(); err != nil {
		return &Error{Op: OpQuery, Err: err}
	}
	return nil
}
