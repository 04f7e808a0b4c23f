package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/pennypet/pennypet-backend/internal/logger"
)

// Actions recorded against the audit trail.
const (
	ActionTransactionCreate = "transaction.create"
	ActionTransactionUpdate = "transaction.update"
	ActionTransactionDelete = "transaction.delete"
	ActionPetRestart        = "pet.restart"
	ActionShopPurchase      = "shop.purchase"
	ActionMissionClaim      = "mission.claim"
)

type Entry struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	IP         string
	Metadata   any
}

// Logger writes audit entries. A nil Logger or nil pool is a no-op so
// handlers can record unconditionally.
type Logger struct {
	Pool *pgxpool.Pool
}

func NewLogger(pool *pgxpool.Pool) *Logger {
	return &Logger{Pool: pool}
}

// Record is best-effort: a failed audit write is logged and never fails
// the request that produced it.
func (l *Logger) Record(ctx context.Context, e Entry) {
	if l == nil || l.Pool == nil {
		return
	}

	var metadata []byte
	if e.Metadata != nil {
		metadata, _ = json.Marshal(e.Metadata)
	}

	_, err := l.Pool.Exec(ctx, `
INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip, metadata)
VALUES (NULLIF($1, '')::uuid, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
`, e.UserID, e.Action, e.EntityType, e.EntityID, e.IP, metadata)
	if err != nil {
		logger.Log.Warn("audit write failed",
			zap.String("action", e.Action),
			zap.Error(err))
	}
}
