package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Outcome
	}{
		{
			name: "validation error",
			body: "Invalid registration details. Error:003",
			want: OutcomeRegistrationError003,
		},
		{
			name: "captcha stage",
			body: `<html><img src="/captcha_image.php?t=1"></html>`,
			want: OutcomeCaptchaStageReached,
		},
		{
			name: "error marker outranks captcha marker",
			body: `Error:003 <img src="/captcha_image.php">`,
			want: OutcomeRegistrationError003,
		},
		{
			name: "unknown body",
			body: "<html>Welcome!</html>",
			want: OutcomeUnexpectedResponse,
		},
		{
			name: "empty body",
			body: "",
			want: OutcomeUnexpectedResponse,
		},
		{
			name: "matching is case sensitive",
			body: "invalid registration details. error:003",
			want: OutcomeUnexpectedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.body))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "pending", OutcomePending.String())
	assert.Equal(t, "captcha_stage_reached", OutcomeCaptchaStageReached.String())
	assert.Equal(t, "registration_error_003", OutcomeRegistrationError003.String())
	assert.Equal(t, "unexpected_response", OutcomeUnexpectedResponse.String())
	assert.Equal(t, "transport_failure", OutcomeTransportFailure.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
