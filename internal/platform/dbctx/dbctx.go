package dbctx

import (
	"context"

	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/data/changeset"
)

// Context bundles a request context with an optional GORM transaction and
// the transaction-scoped change set. Changes is non-nil only inside a
// TxRunner transaction; repos record entity mutations into it and the audit
// recorder drains it once at commit.
type Context struct {
	Ctx     context.Context
	Tx      *gorm.DB
	Changes *changeset.ChangeSet
}
