package repos

import (
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/platform/dbctx"
)

// session resolves the active DB handle: the transaction when one is open,
// the root connection otherwise.
func session(dbc dbctx.Context, db *gorm.DB) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return db.WithContext(dbc.Ctx)
}
