package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrIO            = errors.New("io error")
	ErrVerify        = errors.New("verification failed")
	ErrNotFound      = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsVerifyFailure reports whether an error represents a post-write
// verification mismatch rather than a transport failure. The distinction
// matters to operators: the artifact may already be partially usable.
func IsVerifyFailure(err error) bool {
	return errors.Is(err, ErrVerify)
}

// IsEnqueueRejection reports whether an error should surface immediately to
// the caller instead of producing a failed job.
func IsEnqueueRejection(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConfiguration)
}

// UserMessage renders an error as the human-readable text persisted on a
// failed job. Verification mismatches get the friendlier phrasing.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsVerifyFailure(err) {
		return "uploaded but verification failed: " + strippedDetail(err)
	}
	return err.Error()
}

func strippedDetail(err error) string {
	msg := err.Error()
	prefix := ErrVerify.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return msg
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "delivery failure"
	}
	return strings.Join(parts, ": ")
}
