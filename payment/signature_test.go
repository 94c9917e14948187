package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHeader(timestamp int64, payload []byte, secret string) string {
	return fmt.Sprintf("t=%d,v1=%s", timestamp, ComputeSignature(timestamp, payload, secret))
}

func TestVerifySignatureValid(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	secret := "whsec_test"
	now := time.Now()

	header := buildHeader(now.Unix(), payload, secret)
	err := verifySignatureAt(payload, header, secret, DefaultTolerance, now)
	assert.NoError(t, err)
}

func TestVerifySignatureStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	secret := "whsec_test"
	now := time.Now()

	//簽章正確但時間戳過舊，仍須拒絕
	stale := now.Add(-301 * time.Second).Unix()
	header := buildHeader(stale, payload, secret)
	err := verifySignatureAt(payload, header, secret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrTimestampStale)
}

func TestVerifySignatureFutureTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	secret := "whsec_test"
	now := time.Now()

	future := now.Add(301 * time.Second).Unix()
	header := buildHeader(future, payload, secret)
	err := verifySignatureAt(payload, header, secret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrTimestampStale)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := buildHeader(now.Unix(), payload, "whsec_test")
	err := verifySignatureAt(payload, header, "whsec_other", DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrSignatureNoMatch)
}

func TestVerifySignatureTamperedPayload(t *testing.T) {
	secret := "whsec_test"
	now := time.Now()

	header := buildHeader(now.Unix(), []byte(`{"id":"evt_1"}`), secret)
	err := verifySignatureAt([]byte(`{"id":"evt_2"}`), header, secret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrSignatureNoMatch)
}

func TestVerifySignatureMalformedHeader(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	cases := []string{
		"",
		"t=abc,v1=deadbeef",
		"v1=deadbeef",
		fmt.Sprintf("t=%d", now.Unix()),
		"garbage",
	}
	for _, header := range cases {
		err := verifySignatureAt(payload, header, "whsec_test", DefaultTolerance, now)
		assert.ErrorIs(t, err, ErrSignatureFormat, "header: %q", header)
	}
}

func TestParseSignatureHeader(t *testing.T) {
	timestamp, signature, err := parseSignatureHeader("t=1700000000,v1=abcdef")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), timestamp)
	assert.Equal(t, "abcdef", signature)
}
