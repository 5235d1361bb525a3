package main

import "strings"

// Outcome is the terminal classification of one registration run.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeCaptchaStageReached
	OutcomeRegistrationError003
	OutcomeUnexpectedResponse
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeCaptchaStageReached:
		return "captcha_stage_reached"
	case OutcomeRegistrationError003:
		return "registration_error_003"
	case OutcomeUnexpectedResponse:
		return "unexpected_response"
	case OutcomeTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Markers the target emits in its submission responses. Matching is exact
// substring search, case sensitive.
const (
	registrationErrorMarker = "Error:003"
	captchaStageMarker      = "captcha_image.php"
)

// Classify categorizes a raw response body into a known outcome. Checks run
// in fixed priority order; the first match wins and the function is total.
func Classify(body string) Outcome {
	switch {
	case strings.Contains(body, registrationErrorMarker):
		return OutcomeRegistrationError003
	case strings.Contains(body, captchaStageMarker):
		return OutcomeCaptchaStageReached
	default:
		return OutcomeUnexpectedResponse
	}
}
