package notification

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"laborhub/internal/domain"
	"laborhub/internal/pkg/jwt"
)

func TestHub_PushReachesRecipientOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := jwt.New("test-secret", time.Hour)
	hub := NewHub(nil, zap.NewNop())

	r := gin.New()
	RegisterWSRoutes(r, NewWSHandler(hub, tokens))
	srv := httptest.NewServer(r)
	defer srv.Close()

	token, err := tokens.GenerateToken(11, domain.RoleLabor)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connected(domain.RoleLabor, 11) == 1 }, time.Second, 10*time.Millisecond)

	hub.Push(domain.RoleCustomer, 11, &WSEvent{Type: EventNotification, Payload: "wrong role"})
	hub.Push(domain.RoleLabor, 11, &WSEvent{Type: EventNotification, Payload: "hello"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got WSEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventNotification, got.Type)
	assert.Equal(t, "hello", got.Payload)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Connected(domain.RoleLabor, 11) == 0 }, time.Second, 10*time.Millisecond)
}

func TestWSHandler_RejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil, zap.NewNop())
	r := gin.New()
	RegisterWSRoutes(r, NewWSHandler(hub, jwt.New("test-secret", time.Hour)))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws/notifications?token=garbage", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
