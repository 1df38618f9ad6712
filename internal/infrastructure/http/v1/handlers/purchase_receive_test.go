package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procura/internal/core/id"
	"procura/internal/domain/audit"
	"procura/internal/domain/documents/purchase_receive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeHistoryReader struct {
	records       []audit.Record
	gotEntityType string
	gotEntityID   id.ID
}

func (f *fakeHistoryReader) GetEntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Record, error) {
	f.gotEntityType = entityType
	f.gotEntityID = entityID
	return f.records, nil
}

func newHistoryRouter(history *fakeHistoryReader) *gin.Engine {
	router := gin.New()
	handler := NewPurchaseReceiveHandler(NewBaseHandler(), nil, nil, history)
	router.GET("/purchase-receives/:id/history", handler.GetHistory)
	return router
}

func TestGetHistory_ReturnsAuditTrail(t *testing.T) {
	receiveID := id.New()
	history := &fakeHistoryReader{
		records: []audit.Record{{
			ID:         id.New(),
			EntityType: purchase_receive.AuditEntityType,
			EntityID:   receiveID,
			Action:     audit.ActionCommit,
			UserID:     "u1",
			CreatedAt:  time.Now().UTC(),
		}},
	}
	router := newHistoryRouter(history)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/purchase-receives/"+receiveID.String()+"/history", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, purchase_receive.AuditEntityType, history.gotEntityType)
	assert.Equal(t, receiveID, history.gotEntityID)

	var records []audit.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, audit.ActionCommit, records[0].Action)
}

func TestGetHistory_EmptyTrail(t *testing.T) {
	router := newHistoryRouter(&fakeHistoryReader{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/purchase-receives/"+id.New().String()+"/history", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}
