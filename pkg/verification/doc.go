// Package verification orchestrates the OTP-gated flow:
// request code -> deliver out of band -> submit code -> unlock guarded action.
//
// Verification success and guarded-action success are tracked independently.
// A consumed code produces a grant; the grant survives a failed guarded
// action so the caller can retry the action without re-verifying, and is
// spent only when the action succeeds.
package verification
