package login

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/chirper-app/gatekit/pkg/account"
	"github.com/chirper-app/gatekit/pkg/loginhistory"
	"github.com/chirper-app/gatekit/pkg/notice"
	"github.com/chirper-app/gatekit/pkg/notification"
	"github.com/chirper-app/gatekit/pkg/otp"
	"github.com/chirper-app/gatekit/pkg/timewindow"
	"github.com/chirper-app/gatekit/pkg/tokengenerator"
	"github.com/chirper-app/gatekit/pkg/verification"
)

const (
	chromeDesktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	edgeUA          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36 Edg/126.0.2592.87"
	firefoxUA       = "Mozilla/5.0 (X11; Linux x86_64; rv:127.0) Gecko/20100101 Firefox/127.0"
	iphoneUA        = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1"
)

const (
	istOffset = 330 * time.Minute
	testIP    = "203.0.113.7"
)

type loginFixture struct {
	service  *LoginService
	accounts *account.MemoryAccountRepository
	notifier *notification.MockNotifier
	history  *loginhistory.LoginHistoryService
	acct     account.Account
	setNow   func(time.Time)
}

// 11:30 IST, inside both the mobile login window and any code window.
var testNow = time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)

func newLoginFixture(t *testing.T) *loginFixture {
	t.Helper()

	current := testNow
	nowFn := func() time.Time { return current }

	notifier := notification.NewMockNotifier()
	nm := notification.NewNotificationManager()
	nm.RegisterNotifier(notification.EmailSystem, notifier)
	require.NoError(t, notice.RegisterTemplates(nm))

	accounts := account.NewMemoryAccountRepository()
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("hunter-two")
	require.NoError(t, err)
	acct, err := accounts.Create(context.Background(), account.CreateAccountParams{
		Email:        "dev@example.com",
		Name:         "Dev",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	otpService := otp.NewOtpService(otp.NewMemoryOtpRepository(), nm, otp.WithClock(nowFn))

	throttle := NewResetDayThrottle(accounts, istOffset).WithNow(nowFn)
	flow := verification.NewFlowService(otpService,
		verification.WithThrottle(otp.PurposePasswordReset, throttle),
		verification.WithClock(nowFn),
	)

	mobileWindow := timewindow.New(istOffset, 10*60, 13*60)
	tokens := tokengenerator.NewJwtTokenGenerator("test-secret", "gatekit", "gatekit")
	history := loginhistory.NewLoginHistoryService(loginhistory.NewMemoryLoginHistoryRepository())

	service := NewLoginService(accounts, hasher, flow, tokens, nm,
		WithMobileWindow(mobileWindow),
		WithLoginHistory(history),
		WithClock(nowFn),
	)

	return &loginFixture{
		service:  service,
		accounts: accounts,
		notifier: notifier,
		history:  history,
		acct:     acct,
		setNow:   func(tm time.Time) { current = tm },
	}
}

// lastData digs the payload of the most recent notice of a type out of the
// recording notifier.
func (f *loginFixture) lastData(t *testing.T, noticeType notification.NoticeType, key string) string {
	t.Helper()
	for i := len(f.notifier.Sent) - 1; i >= 0; i-- {
		if f.notifier.Sent[i].NoticeType == noticeType {
			return f.notifier.Sent[i].Data[key]
		}
	}
	t.Fatalf("no %s notice was delivered", noticeType)
	return ""
}

func (f *loginFixture) lastCode(t *testing.T, noticeType notification.NoticeType) string {
	t.Helper()
	return f.lastData(t, noticeType, "Code")
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newLoginFixture(t)
	ctx := context.Background()

	_, err := f.service.Login(ctx, "nobody@example.com", "hunter-two", firefoxUA, testIP)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.Login(ctx, f.acct.Email, "wrong-password", firefoxUA, testIP)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginMicrosoftBrowserRejected(t *testing.T) {
	f := newLoginFixture(t)

	_, err := f.service.Login(context.Background(), f.acct.Email, "hunter-two", edgeUA, testIP)
	assert.ErrorIs(t, err, ErrBrowserNotSupported)
}

func TestLoginDesktopIssuesToken(t *testing.T) {
	f := newLoginFixture(t)

	result, err := f.service.Login(context.Background(), f.acct.Email, "hunter-two", firefoxUA, testIP)
	require.NoError(t, err)
	assert.False(t, result.StepUpRequired)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, f.acct.Email, result.Account.Email)
}

func TestMobileLoginWindow(t *testing.T) {
	f := newLoginFixture(t)
	ctx := context.Background()

	// 17:30 IST, outside 10:00-13:00.
	f.setNow(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	_, err := f.service.Login(ctx, f.acct.Email, "hunter-two", iphoneUA, testIP)
	assert.ErrorIs(t, err, verification.ErrPolicyDenied)

	// Back inside the window the same credentials work.
	f.setNow(testNow)
	result, err := f.service.Login(ctx, f.acct.Email, "hunter-two", iphoneUA, testIP)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestChromeDesktopStepUpLifecycle(t *testing.T) {
	f := newLoginFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, f.acct.Email, "hunter-two", chromeDesktopUA, testIP)
	require.NoError(t, err)
	assert.True(t, result.StepUpRequired)
	assert.Empty(t, result.Token)

	// No code requested yet, nothing to consume.
	_, err = f.service.CompleteStepUp(ctx, f.acct.Email, "123456", chromeDesktopUA, testIP)
	assert.ErrorIs(t, err, otp.ErrInvalidOrExpiredCode)

	require.NoError(t, f.service.RequestStepUpCode(ctx, f.acct.Email))
	code := f.lastCode(t, notice.LoginStepUpNotice)
	assert.Regexp(t, regexp.MustCompile(`^[1-9]\d{5}$`), code)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err = f.service.CompleteStepUp(ctx, f.acct.Email, wrong, chromeDesktopUA, testIP)
	assert.ErrorIs(t, err, otp.ErrInvalidOrExpiredCode)

	completed, err := f.service.CompleteStepUp(ctx, f.acct.Email, code, chromeDesktopUA, testIP)
	require.NoError(t, err)
	assert.NotEmpty(t, completed.Token)
	assert.True(t, completed.ExpiresAt.After(time.Now()))

	// The code was consumed; a replay cannot mint another token.
	_, err = f.service.CompleteStepUp(ctx, f.acct.Email, code, chromeDesktopUA, testIP)
	assert.ErrorIs(t, err, otp.ErrInvalidOrExpiredCode)
}

// Step-up codes are not bound to the mobile login window: a desktop Chrome
// user can request and complete the step-up at any hour.
func TestStepUpAvailableOutsideMobileWindow(t *testing.T) {
	f := newLoginFixture(t)
	ctx := context.Background()

	// 17:30 IST, outside 10:00-13:00.
	f.setNow(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))

	result, err := f.service.Login(ctx, f.acct.Email, "hunter-two", chromeDesktopUA, testIP)
	require.NoError(t, err)
	require.True(t, result.StepUpRequired)

	require.NoError(t, f.service.RequestStepUpCode(ctx, f.acct.Email))
	code := f.lastCode(t, notice.LoginStepUpNotice)

	completed, err := f.service.CompleteStepUp(ctx, f.acct.Email, code, chromeDesktopUA, testIP)
	require.NoError(t, err)
	assert.NotEmpty(t, completed.Token)
}

func TestLoginRecordsHistory(t *testing.T) {
	f := newLoginFixture(t)
	ctx := context.Background()

	// A failed attempt leaves no trace.
	_, err := f.service.Login(ctx, f.acct.Email, "wrong-password", firefoxUA, testIP)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.Login(ctx, f.acct.Email, "hunter-two", firefoxUA, testIP)
	require.NoError(t, err)

	events, err := f.history.List(ctx, f.acct.Email, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Firefox", events[0].Browser)
	assert.Equal(t, "Linux", events[0].OS)
	assert.Equal(t, "desktop", events[0].DeviceType)
	assert.Equal(t, testIP, events[0].IPAddress)
}

func TestCompleteStepUpRecordsHistory(t *testing.T) {
	f := newLoginFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, f.acct.Email, "hunter-two", chromeDesktopUA, testIP)
	require.NoError(t, err)
	require.True(t, result.StepUpRequired)

	// The pending step-up alone is not a sign-in.
	events, err := f.history.List(ctx, f.acct.Email, 0)
	require.NoError(t, err)
	assert.Empty(t, events)

	require.NoError(t, f.service.RequestStepUpCode(ctx, f.acct.Email))
	code := f.lastCode(t, notice.LoginStepUpNotice)
	_, err = f.service.CompleteStepUp(ctx, f.acct.Email, code, chromeDesktopUA, testIP)
	require.NoError(t, err)

	events, err = f.history.List(ctx, f.acct.Email, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Chrome", events[0].Browser)
}

func TestRequestStepUpCodeUnknownAccount(t *testing.T) {
	f := newLoginFixture(t)

	err := f.service.RequestStepUpCode(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetLifecycle(t *testing.T) {
	f := newLoginFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestPasswordReset(ctx, f.acct.Email))
	code := f.lastCode(t, notice.PasswordResetNotice)

	require.NoError(t, f.service.ConfirmPasswordReset(ctx, f.acct.Email, code))

	// The old password is gone and the replacement arrived by email.
	_, err := f.service.Login(ctx, f.acct.Email, "hunter-two", firefoxUA, testIP)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	newPassword := f.lastData(t, notice.NewPasswordNotice, "NewPassword")
	require.Len(t, newPassword, 12)

	result, err := f.service.Login(ctx, f.acct.Email, newPassword, firefoxUA, testIP)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestPasswordResetOncePerDay(t *testing.T) {
	f := newLoginFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestPasswordReset(ctx, f.acct.Email))
	code := f.lastCode(t, notice.PasswordResetNotice)
	require.NoError(t, f.service.ConfirmPasswordReset(ctx, f.acct.Email, code))

	// Second request the same local day is throttled before a code is minted.
	delivered := len(f.notifier.Sent)
	err := f.service.RequestPasswordReset(ctx, f.acct.Email)
	assert.ErrorIs(t, err, otp.ErrRateLimited)
	assert.Len(t, f.notifier.Sent, delivered)

	// Past local midnight the throttle resets. 19:00 UTC is 00:30 IST the
	// next day, under ten hours after the first reset.
	f.setNow(time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC))
	assert.NoError(t, f.service.RequestPasswordReset(ctx, f.acct.Email))
}

func TestGeneratePassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 16; i++ {
		pw, err := GeneratePassword(12)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^[A-Za-z]{12}$`), pw)
		seen[pw] = true
	}
	assert.Greater(t, len(seen), 1)
}
