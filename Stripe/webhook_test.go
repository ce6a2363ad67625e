package Stripe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := SignPayload(payload, testSecret, time.Now())

	assert.NoError(t, VerifySignature(payload, header, testSecret))
}

func TestVerifySignatureRejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := SignPayload(payload, testSecret, time.Now())

	err := VerifySignature([]byte(`{"id":"evt_2"}`), header, testSecret)
	assert.ErrorContains(t, err, "no matching signature")
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := SignPayload(payload, "whsec_other", time.Now())

	assert.Error(t, VerifySignature(payload, header, testSecret))
}

func TestVerifySignatureRejectsStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := SignPayload(payload, testSecret, time.Now().Add(-10*time.Minute))

	err := VerifySignature(payload, header, testSecret)
	assert.ErrorContains(t, err, "tolerance")
}

func TestVerifySignatureRejectsMalformedHeader(t *testing.T) {
	payload := []byte(`{}`)

	assert.Error(t, VerifySignature(payload, "", testSecret))
	assert.Error(t, VerifySignature(payload, "t=notanumber,v1=abc", testSecret))
	assert.Error(t, VerifySignature(payload, "v1=deadbeef", testSecret))
}

func TestVerifySignatureAcceptsExtraSchemes(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := SignPayload(payload, testSecret, time.Now()) + ",v0=legacyscheme"

	assert.NoError(t, VerifySignature(payload, header, testSecret))
}

func TestConstructEvent(t *testing.T) {
	payload := []byte(`{"id":"evt_42","type":"checkout.session.completed","data":{"object":{"id":"cs_1","amount_total":5000}}}`)
	header := SignPayload(payload, testSecret, time.Now())

	event, err := ConstructEvent(payload, header, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "evt_42", event.ID)
	assert.Equal(t, "checkout.session.completed", event.Type)
	assert.JSONEq(t, `{"id":"cs_1","amount_total":5000}`, string(event.Data.Object))

	_, err = ConstructEvent(payload, "t=1,v1=bad", testSecret)
	assert.Error(t, err)
}
