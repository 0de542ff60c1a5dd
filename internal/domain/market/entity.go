package market

// Market is one statistical category being projected (e.g. rec_yds).
// A stable enumeration owned by ingestion; read-only to the serving core.
type Market struct {
	ID        int64  `db:"id" json:"id"`
	Code      string `db:"code" json:"code"`
	Name      string `db:"name" json:"name"`
	StatField string `db:"stat_field" json:"stat_field"`
}
