package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sreeramsuresh/steelcore/internal/cloudmetrics"
	"github.com/sreeramsuresh/steelcore/internal/draft"
	"go.uber.org/zap"
)

type putDraftRequest struct {
	Data json.RawMessage `json:"data" binding:"required"`
}

// PutDraft snapshots in-progress form data for an owner. Writes are
// serialized across replicas with a short redis lock; a held lock means
// another instance is mid-write for the same owner.
func (s *Server) PutDraft(c *gin.Context) {
	var req putDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	owner := ownerParam(c)

	token, locked, err := s.verifyLimiter.TryLockDraft(ctx, owner)
	if err != nil {
		s.log.Warn("draft lock unavailable", zap.String("owner_key", owner), zap.Error(err))
	} else if !locked {
		AbortWithError(c, ErrConflict)
		return
	}
	if token != "" {
		defer func() {
			if err := s.verifyLimiter.ReleaseDraft(ctx, owner, token); err != nil {
				s.log.Warn("draft lock release failed", zap.String("owner_key", owner), zap.Error(err))
			}
		}()
	}

	mgr := s.drafts.Manager(ctx, owner, draft.Options{
		Enabled:          true,
		DebounceInterval: draft.MinDebounceInterval,
	})
	if err := mgr.Observe(req.Data); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := mgr.SaveNow(ctx)
	if status != draft.StatusSaved {
		AbortWithError(c, draft.ErrStoreUnavailable)
		return
	}

	cloudmetrics.RecordDraftSave(storeBackend(s.drafts.Store()))

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"key":      mgr.Key(),
		"saved_at": mgr.LastSavedAt().UnixMilli(),
	})
}

// GetDraft returns the persisted snapshot for an owner, if any.
func (s *Server) GetDraft(c *gin.Context) {
	ctx := c.Request.Context()
	mgr := s.drafts.Manager(ctx, ownerParam(c), draft.Options{Enabled: true})

	snap, ok := mgr.LoadFromStore(ctx)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// DeleteDraft removes the snapshot for an owner. Deleting an absent draft
// succeeds; the caller only cares that nothing is left.
func (s *Server) DeleteDraft(c *gin.Context) {
	ctx := c.Request.Context()
	mgr := s.drafts.Manager(ctx, ownerParam(c), draft.Options{Enabled: true})
	mgr.ClearDraft(ctx)

	c.Status(http.StatusNoContent)
}

// ownerParam maps the reserved "new" segment to the empty owner key so the
// sentinel slot and an explicit owner id share one code path.
func ownerParam(c *gin.Context) string {
	owner := c.Param("owner")
	if owner == "new" {
		return ""
	}
	return owner
}

func storeBackend(store draft.Store) string {
	switch store.(type) {
	case *draft.RedisStore:
		return "redis"
	case *draft.GormStore:
		return "gorm"
	case *draft.MemoryStore:
		return "memory"
	default:
		return "unknown"
	}
}
