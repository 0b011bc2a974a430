package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIssueAndVerify(t *testing.T) {
	svc := NewSessionService("secret", time.Hour)

	sess, err := svc.Issue("wc-1")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "wc-1", sess.WorldcupID)

	sid, err := svc.Verify(sess.Token, "wc-1")
	require.NoError(t, err)
	assert.Equal(t, sess.SessionID, sid)
}

func TestSessionVerifyRejects(t *testing.T) {
	svc := NewSessionService("secret", time.Hour)
	sess, err := svc.Issue("wc-1")
	require.NoError(t, err)

	_, err = svc.Verify(sess.Token, "wc-2")
	assert.ErrorIs(t, err, ErrSessionMismatch)

	_, err = svc.Verify("", "wc-1")
	assert.ErrorIs(t, err, ErrInvalidSessionToken)

	_, err = NewSessionService("other", time.Hour).Verify(sess.Token, "wc-1")
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionExpired(t *testing.T) {
	svc := NewSessionService("secret", time.Hour).(*sessionService)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	sess, err := svc.Issue("wc-1")
	require.NoError(t, err)

	_, err = svc.Verify(sess.Token, "wc-1")
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}
